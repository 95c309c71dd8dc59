// Aegis checks model inputs and outputs against the marketplace guardrails
// and inspects the prompt catalog.
//
// Usage:
//
//	# Check a user submission before it reaches a model
//	aegis check input --user u1 --text "Oak desk, pickup only"
//
//	# Check model output against a registered schema
//	aegis check output --schema listing-autofill@1 --file reply.json
//
//	# Resolve the prompt serving an intent
//	aegis prompts active listing-autofill
//
//	# Validate a prompt catalog before deploying it
//	aegis lint --file prompts.yaml
//
// A rejected check exits with status 2; other failures exit with status 1.
package main

func main() {
	Execute()
}
