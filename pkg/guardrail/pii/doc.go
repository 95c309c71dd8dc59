// Package pii detects personally identifiable information inside structured
// values such as decoded model output.
//
// The Scanner walks an arbitrary tree of strings, numbers, booleans, nils,
// sequences and mappings depth-first and tests every string leaf against an
// ordered catalog of expressions:
//
//   - email
//   - phone
//   - credit_card
//   - iban
//
// A credit_card candidate only counts when its digits pass the Luhn checksum,
// so ISBNs, serial numbers and the digit groups of a printed IBAN fall
// through to later entries.
//
// The first matching expression names the leaf's PII type and the first hit
// anywhere in the tree ends the scan. The scanner is a detector, it does not
// enumerate every violation.
//
// # Field Allowlist
//
// A leaf whose field name (the last non-index path segment) contains one of
// the allowlisted fragments ("email", "phone", "contact", "iban", "card") is
// expected to hold PII and is skipped:
//
//	s := pii.NewScanner(nil)
//
//	hit, _ := s.Find(map[string]any{"contact": map[string]any{"email": "a@b.com"}})
//	// hit == nil
//
//	hit, _ = s.Find(map[string]any{"bio": "reach me at a@b.com"})
//	// hit.Path == []string{"bio"}, hit.Type == "email"
//
// # Determinism
//
// Mapping keys are visited in sorted order, so the reported hit is the same
// for identical input regardless of map iteration order. Values that are not
// already a JSON-like tree (structs, typed slices, pointers) are normalized
// through encoding/json first, which means struct fields are reported under
// their JSON names.
//
// Nesting is bounded by a hard depth ceiling; exceeding it yields ErrMaxDepth
// so callers can fail closed.
package pii
