package guardrail

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"

	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/guardrail/shape"
)

type listing struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ContactEmail string   `json:"contact_email,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

func newListingShape(t testing.TB) Validator[listing] {
	t.Helper()
	v, err := shape.NewJSON[listing]("listing", func(s *jsonschema.Schema) {
		s.Properties["title"].MinLength = shape.Ptr(3)
	})
	if err != nil {
		t.Fatalf("NewJSON() error = %v", err)
	}
	return v
}

func TestCheckOutput(t *testing.T) {
	g := NewOutputGuardrail(nil)
	listingShape := newListingShape(t)

	tests := []struct {
		name       string
		output     any
		wantOK     bool
		wantReason Reason
		want       *listing
	}{
		{
			name:   "clean",
			output: `{"title":"Oak desk","description":"Solid oak, minor scratches."}`,
			wantOK: true,
			want:   &listing{Title: "Oak desk", Description: "Solid oak, minor scratches."},
		},
		{
			name:   "allowlisted email field",
			output: `{"title":"Oak desk","description":"Solid oak.","contact_email":"seller@example.com"}`,
			wantOK: true,
			want:   &listing{Title: "Oak desk", Description: "Solid oak.", ContactEmail: "seller@example.com"},
		},
		{
			name:       "email in description",
			output:     `{"title":"Oak desk","description":"Mail me at seller@example.com"}`,
			wantReason: "pii-detected:email@description",
		},
		{
			name:       "phone in tag",
			output:     `{"title":"Oak desk","description":"Solid oak.","tags":["desk","call +1 415 555 0100"]}`,
			wantReason: "pii-detected:phone@tags.1",
		},
		{
			name:       "missing field with pii",
			output:     `{"title":"seller@example.com"}`,
			wantReason: ReasonSchemaValidationFailed,
		},
		{
			name:       "constraint violation with pii",
			output:     `{"title":"ab","description":"mail seller@example.com"}`,
			wantReason: ReasonSchemaValidationFailed,
		},
		{
			name:       "not json",
			output:     "Sure! Here is your listing.",
			wantReason: ReasonSchemaValidationFailed,
		},
		{
			name:       "unknown field",
			output:     `{"title":"Oak desk","description":"ok","price":10}`,
			wantReason: ReasonSchemaValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckOutput(g, tt.output, listingShape)

			if got.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (reason %q)", got.OK, tt.wantOK, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if !got.OK && got.Validated != nil {
				t.Errorf("Validated = %+v on rejection, want nil", got.Validated)
			}
			if tt.want != nil && !reflect.DeepEqual(got.Validated, tt.want) {
				t.Errorf("Validated = %+v, want %+v", got.Validated, tt.want)
			}
		})
	}
}

func TestCheckOutput_SchemaBeforePII(t *testing.T) {
	g := NewOutputGuardrail(nil)
	calls := 0
	failing := shape.Func[map[string]any](func(any) (map[string]any, error) {
		calls++
		return nil, errors.New("wrong shape")
	})

	got := CheckOutput[map[string]any](g, map[string]any{"bio": "a@b.com"}, failing)
	if got.Reason != ReasonSchemaValidationFailed {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonSchemaValidationFailed)
	}
	if calls != 1 {
		t.Errorf("validator called %d times, want 1", calls)
	}
}

func TestCheckOutput_ScansValidatedValue(t *testing.T) {
	g := NewOutputGuardrail(nil)

	// The validator may normalize output; the scan sees what it returns.
	normalize := shape.Func[string](func(value any) (string, error) {
		s, ok := value.(string)
		if !ok {
			return "", errors.New("not a string")
		}
		return strings.ReplaceAll(s, "[at]", "@"), nil
	})

	got := CheckOutput[string](g, "reach me: a[at]b.com", normalize)
	if got.Reason != "pii-detected:email@root" {
		t.Errorf("Reason = %q, want pii-detected:email@root", got.Reason)
	}
	if got.Reason.Code() != "pii-detected" || got.Reason.PIIType() != "email" {
		t.Errorf("Code() = %q, PIIType() = %q", got.Reason.Code(), got.Reason.PIIType())
	}
}

func TestCheckOutput_ScanFailureFailsClosed(t *testing.T) {
	g := NewOutputGuardrail(&config.OutputConfig{MaxDepth: 4})

	var nested any = "leaf"
	for i := 0; i < 10; i++ {
		nested = map[string]any{"n": nested}
	}
	identity := shape.Func[any](func(value any) (any, error) { return value, nil })

	got := CheckOutput[any](g, nested, identity)
	if got.OK || got.Reason != ReasonPIIScanFailed || got.Validated != nil {
		t.Errorf("CheckOutput() = %+v, want pii-scan-failed", got)
	}
}

func TestCheckOutput_AllowlistConfig(t *testing.T) {
	g := NewOutputGuardrail(&config.OutputConfig{AllowlistFields: []string{"seller"}})
	identity := shape.Func[map[string]any](func(value any) (map[string]any, error) {
		return value.(map[string]any), nil
	})

	got := CheckOutput[map[string]any](g, map[string]any{
		"a_sellers": []any{"a@b.com"},
		"seller":    map[string]any{"reach": "a@b.com"},
	}, identity)

	// The list entry is named by its parent field and allowlisted; the nested
	// leaf is named "reach".
	if got.Reason != "pii-detected:email@seller.reach" {
		t.Errorf("Reason = %q, want pii-detected:email@seller.reach", got.Reason)
	}
}

func TestCheckOutput_RoundTrip(t *testing.T) {
	g := NewOutputGuardrail(nil)
	listingShape := newListingShape(t)
	payload := `{"title":"Oak desk","description":"Solid oak.","tags":["desk","oak"]}`

	first := CheckOutput(g, payload, listingShape)
	second := CheckOutput(g, payload, listingShape)

	if !first.OK || !second.OK {
		t.Fatalf("round trip rejected: %+v, %+v", first, second)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if first.Validated == second.Validated {
		t.Error("results share the same validated pointer")
	}
}

func TestCheckOutput_Deterministic(t *testing.T) {
	g := NewOutputGuardrail(nil)
	listingShape := newListingShape(t)
	payloads := []string{
		`{"title":"Oak desk","description":"Solid oak."}`,
		`{"title":"Oak desk","description":"IBAN DE89370400440532013000"}`,
		`{"title":"Oak desk"}`,
	}

	for _, p := range payloads {
		first := CheckOutput(g, p, listingShape)
		for i := 0; i < 50; i++ {
			if got := CheckOutput(g, p, listingShape); !reflect.DeepEqual(got, first) {
				t.Fatalf("CheckOutput(%s) changed from %+v to %+v", p, first, got)
			}
		}
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		reason  Reason
		isPII   bool
		code    string
		piiType string
	}{
		{ReasonTextTooLong, false, "text-too-long", ""},
		{ReasonSchemaValidationFailed, false, "schema-validation-failed", ""},
		{"pii-detected:email@contact.0", true, "pii-detected", "email"},
		{"pii-detected:credit_card@root", true, "pii-detected", "credit_card"},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			if got := tt.reason.IsPII(); got != tt.isPII {
				t.Errorf("IsPII() = %v, want %v", got, tt.isPII)
			}
			if got := tt.reason.Code(); got != tt.code {
				t.Errorf("Code() = %q, want %q", got, tt.code)
			}
			if got := tt.reason.PIIType(); got != tt.piiType {
				t.Errorf("PIIType() = %q, want %q", got, tt.piiType)
			}
		})
	}
}
