package schemas

import (
	"testing"

	"mercator-hq/aegis/pkg/prompts"
)

func TestLookup_BuiltinPromptRefs(t *testing.T) {
	for _, spec := range prompts.Builtin() {
		if _, ok := Lookup(spec.OutputSchemaRef); !ok {
			t.Errorf("prompt %s references unknown schema %q", spec.ID, spec.OutputSchemaRef)
		}
	}
}

func TestRefs(t *testing.T) {
	refs := Refs()
	if len(refs) != 3 {
		t.Fatalf("Refs() = %v, want 3 entries", refs)
	}
	for i := 1; i < len(refs); i++ {
		if refs[i-1] >= refs[i] {
			t.Errorf("Refs() not sorted: %v", refs)
		}
	}
	if _, ok := Lookup("nope@1"); ok {
		t.Error("Lookup(unknown) returned ok")
	}
}

func TestListingAutofill(t *testing.T) {
	entry, _ := Lookup(prompts.SchemaListingAutofill)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "valid",
			input: `{"title":"Oak side table","description":"Solid oak, light scratches on top.","condition":"good","category":{"slug":"home-furniture","name":"Furniture","confidence":0.82}}`,
		},
		{
			name:  "valid with brand",
			input: `{"title":"Trail shoes","description":"Worn twice.","condition":"like_new","category":{"slug":"shoes","name":"Shoes","confidence":0.9},"brand":"Salomon"}`,
		},
		{
			name:    "unknown condition",
			input:   `{"title":"Oak table","description":"x","condition":"mint","category":{"slug":"home","name":"Home","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			input:   `{"title":"Oak table","description":"x","condition":"good","category":{"slug":"home","name":"Home","confidence":1.5}}`,
			wantErr: true,
		},
		{
			name:    "bad slug",
			input:   `{"title":"Oak table","description":"x","condition":"good","category":{"slug":"Home Goods","name":"Home","confidence":0.5}}`,
			wantErr: true,
		},
		{
			name:    "missing category",
			input:   `{"title":"Oak table","description":"x","condition":"good"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := entry.Validator.Validate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if _, ok := out.(ListingAutofill); !ok {
				t.Errorf("Validate() returned %T", out)
			}
		})
	}
}

func TestChatReply(t *testing.T) {
	entry, _ := Lookup(prompts.SchemaChatReply)

	if _, err := entry.Validator.Validate(`{"reply":"Returns are accepted within 14 days."}`); err != nil {
		t.Errorf("Validate(valid) error = %v", err)
	}
	if _, err := entry.Validator.Validate(`{"reply":""}`); err == nil {
		t.Error("expected error for empty reply")
	}
	if _, err := entry.Validator.Validate(`{"reply":"ok","suggestions":["a","b","c","d"]}`); err == nil {
		t.Error("expected error for too many suggestions")
	}
}

func TestImageSearchQuery(t *testing.T) {
	entry, _ := Lookup(prompts.SchemaImageSearch)

	out, err := entry.Validator.Validate(`{"query":"red road bike","keywords":["bike","road","red"],"category":"bicycles"}`)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	q := out.(ImageSearchQuery)
	if q.Query != "red road bike" || len(q.Keywords) != 3 {
		t.Errorf("Validate() = %+v", q)
	}
}
