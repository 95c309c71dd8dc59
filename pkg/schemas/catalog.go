package schemas

import (
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"mercator-hq/aegis/pkg/guardrail/shape"
	"mercator-hq/aegis/pkg/prompts"
)

// Entry is a registered output contract.
type Entry struct {
	Ref         string
	Description string
	Schema      *jsonschema.Schema
	Validator   shape.Validator[any]
}

var (
	catalog     map[string]Entry
	catalogOnce sync.Once
)

func register[T any](m map[string]Entry, ref, description string, tune func(*jsonschema.Schema)) {
	v := shape.MustJSON[T](ref, tune)
	m[ref] = Entry{
		Ref:         ref,
		Description: description,
		Schema:      v.Schema(),
		Validator:   shape.Erase[T](v),
	}
}

func build() map[string]Entry {
	m := make(map[string]Entry)

	register[ListingAutofill](m, prompts.SchemaListingAutofill, "listing draft from photos", func(s *jsonschema.Schema) {
		s.Properties["title"].MinLength = shape.Ptr(3)
		s.Properties["title"].MaxLength = shape.Ptr(120)
		s.Properties["description"].MaxLength = shape.Ptr(4000)
		s.Properties["brand"].MaxLength = shape.Ptr(80)

		conditions := make([]any, len(Conditions))
		for i, c := range Conditions {
			conditions[i] = c
		}
		s.Properties["condition"].Enum = conditions

		category := s.Properties["category"]
		category.Properties["slug"].Pattern = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
		category.Properties["confidence"].Minimum = shape.Ptr(0.0)
		category.Properties["confidence"].Maximum = shape.Ptr(1.0)
	})

	register[ChatReply](m, prompts.SchemaChatReply, "help assistant reply", func(s *jsonschema.Schema) {
		s.Properties["reply"].MinLength = shape.Ptr(1)
		s.Properties["reply"].MaxLength = shape.Ptr(4000)
		s.Properties["suggestions"].MaxItems = shape.Ptr(3)
	})

	register[ImageSearchQuery](m, prompts.SchemaImageSearch, "catalog query from a photo", func(s *jsonschema.Schema) {
		s.Properties["query"].MinLength = shape.Ptr(1)
		s.Properties["query"].MaxLength = shape.Ptr(200)
		s.Properties["keywords"].MaxItems = shape.Ptr(5)
	})

	return m
}

func entries() map[string]Entry {
	catalogOnce.Do(func() {
		catalog = build()
	})
	return catalog
}

// Lookup returns the contract registered under ref.
func Lookup(ref string) (Entry, bool) {
	e, ok := entries()[ref]
	return e, ok
}

// Refs returns every registered reference, sorted.
func Refs() []string {
	m := entries()
	refs := make([]string, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
