// Package prompts provides the immutable catalog of versioned prompt
// specifications used by model-backed marketplace features.
//
// Every Spec has a globally unique id of the form "<intent>.v<version>", for
// example "listing-autofill.v2", and a rollout status. Only specs whose status
// is StatusActive are eligible for resolution:
//
//	reg, err := prompts.New(specs...)
//	if err != nil {
//	    // duplicate or malformed catalog: the process must not start
//	}
//
//	spec, err := reg.Active("listing-autofill")
//	if errors.Is(err, prompts.ErrNoActivePrompt) {
//	    // deployment error, there is no fallback to draft or retired prompts
//	}
//
// When several active specs share an intent the highest version wins.
// Versions are compared numerically segment by segment, so "1.10" is newer
// than "1.2".
//
// # Catalog Sources
//
// Builtin returns the catalog compiled into the binary. LoadFile and Parse
// read the same structure from YAML so operators can ship a catalog next to
// the configuration file. Default builds the process-wide registry exactly
// once.
//
// A Registry is never modified after construction and is safe for
// unsynchronized concurrent reads.
package prompts
