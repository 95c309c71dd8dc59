// Package shape provides structural validators for model output.
//
// A validator turns an untrusted value (raw model text, bytes, or an already
// decoded tree) into a typed Go value, or reports why it does not fit the
// contracted shape. JSON validators are backed by JSON Schema generated from
// the Go type:
//
//	v, err := shape.NewJSON[Listing]("listing", func(s *jsonschema.Schema) {
//	    s.Properties["title"].MaxLength = shape.Ptr(120)
//	})
//	listing, err := v.Validate(modelText)
//
// Func adapts a plain function and Erase hides the type parameter so that
// validators for different output types can share one catalog.
package shape
