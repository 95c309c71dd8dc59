package guardrail

import (
	"strings"

	"mercator-hq/aegis/pkg/guardrail/pii"
)

// Reason is a machine-readable rejection code.
type Reason string

// Input rejection reasons.
const (
	ReasonMissingUserID         Reason = "missing-user-id"
	ReasonTextTooLong           Reason = "text-too-long"
	ReasonMaliciousInputPattern Reason = "malicious-input-pattern"
	ReasonImageURLTooLong       Reason = "image-url-too-long"
	ReasonUnsafeImageURL        Reason = "unsafe-image-url"
)

// Output rejection reasons. PII rejections are built with PIIReason.
const (
	ReasonSchemaValidationFailed Reason = "schema-validation-failed"
	ReasonPIIScanFailed          Reason = "pii-scan-failed"

	piiPrefix = "pii-detected:"
)

// PIIReason formats a PII rejection as "pii-detected:<type>@<path|root>".
func PIIReason(hit pii.Hit) Reason {
	return Reason(piiPrefix + hit.String())
}

// IsPII reports whether r is a PII rejection.
func (r Reason) IsPII() bool {
	return strings.HasPrefix(string(r), piiPrefix)
}

// Code returns the reason without its PII detail, for use as a metric label.
func (r Reason) Code() string {
	if r.IsPII() {
		return strings.TrimSuffix(piiPrefix, ":")
	}
	return string(r)
}

// PIIType returns the PII type of a PII rejection, or "" for other reasons.
func (r Reason) PIIType() string {
	if !r.IsPII() {
		return ""
	}
	typ, _, _ := strings.Cut(strings.TrimPrefix(string(r), piiPrefix), "@")
	return typ
}

// Result is the outcome of an input check. Reason is empty when OK.
type Result struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
}

func pass() Result {
	return Result{OK: true}
}

func reject(r Reason) Result {
	return Result{Reason: r}
}

// ValidatedOutput is the outcome of an output check. Validated is non-nil
// exactly when OK is true.
type ValidatedOutput[T any] struct {
	OK        bool   `json:"ok"`
	Validated *T     `json:"validated"`
	Reason    Reason `json:"reason,omitempty"`
}
