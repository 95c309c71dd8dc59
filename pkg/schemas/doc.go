// Package schemas holds the output contracts of the marketplace model
// features and resolves a prompt's output_schema_ref to a validator.
//
//	spec, _ := prompts.Default().Active("listing-autofill")
//	entry, ok := schemas.Lookup(spec.OutputSchemaRef)
//	out := guardrail.CheckOutput(og, modelText, entry.Validator)
package schemas
