package prompts

import "strings"

// RolloutStatus is the lifecycle stage of a prompt spec.
type RolloutStatus string

// Rollout statuses, in lifecycle order.
const (
	StatusDraft   RolloutStatus = "draft"
	StatusShadow  RolloutStatus = "shadow"
	StatusCanary  RolloutStatus = "canary"
	StatusActive  RolloutStatus = "active"
	StatusRetired RolloutStatus = "retired"
)

// Valid reports whether s is a known rollout status.
func (s RolloutStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusShadow, StatusCanary, StatusActive, StatusRetired:
		return true
	}
	return false
}

// Spec is a versioned prompt bundle for one model-backed feature.
type Spec struct {
	// ID is globally unique, formatted "<intent>.v<version>".
	ID string `yaml:"id" json:"id"`

	// Version is a dot-separated list of non-negative integers.
	Version string `yaml:"version" json:"version"`

	// System is the fixed instruction text sent to the model.
	System string `yaml:"system" json:"system"`

	// InputTemplate is an optional template for the user turn.
	InputTemplate string `yaml:"input_template,omitempty" json:"input_template,omitempty"`

	// OutputSchemaRef names the expected output shape.
	OutputSchemaRef string `yaml:"output_schema_ref" json:"output_schema_ref"`

	// RolloutStatus controls eligibility for live traffic.
	RolloutStatus RolloutStatus `yaml:"rollout_status" json:"rollout_status"`
}

// Intent returns the feature intent encoded in the id, or "" when the id does
// not end in ".v<dotted version>".
func (s Spec) Intent() string {
	intent, _ := splitID(s.ID)
	return intent
}

// splitID splits "<intent>.v<version>" at the first ".v" whose remainder is a
// dotted version.
func splitID(id string) (intent, version string) {
	for i := 0; i < len(id); {
		j := strings.Index(id[i:], ".v")
		if j < 0 {
			return "", ""
		}
		j += i
		if rest := id[j+2:]; isDottedVersion(rest) {
			return id[:j], rest
		}
		i = j + 2
	}
	return "", ""
}
