package prompts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Registry is an immutable catalog of prompt specs keyed by id.
// It is safe for concurrent use.
type Registry struct {
	byID map[string]Spec
	ids  []string
}

// New builds a registry from specs. It fails when the catalog contains a
// duplicate id (ErrDuplicateID), a malformed entry (ErrInvalidSpec), or two
// active entries of one intent with equal versions (ErrAmbiguousActive).
func New(specs ...Spec) (*Registry, error) {
	if err := Validate(specs); err != nil {
		return nil, err
	}

	r := &Registry{
		byID: make(map[string]Spec, len(specs)),
		ids:  make([]string, 0, len(specs)),
	}
	for _, s := range specs {
		r.byID[s.ID] = s
		r.ids = append(r.ids, s.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// MustNew is like New but panics when the catalog is invalid.
func MustNew(specs ...Spec) *Registry {
	r, err := New(specs...)
	if err != nil {
		panic(fmt.Sprintf("prompts: invalid catalog: %v", err))
	}
	return r
}

// Validate checks a catalog without building a registry and returns every
// problem found, joined. Duplicate ids are reported as *DuplicateIDError and
// other problems as *SpecError.
func Validate(specs []Spec) error {
	var errs []error

	first := make(map[string]int, len(specs))
	for i, s := range specs {
		if prev, ok := first[s.ID]; ok && s.ID != "" {
			errs = append(errs, &DuplicateIDError{ID: s.ID, First: prev, Second: i})
			continue
		}
		first[s.ID] = i

		errs = append(errs, validateSpec(i, s)...)
	}

	errs = append(errs, checkAmbiguousActive(specs)...)

	return errors.Join(errs...)
}

func validateSpec(i int, s Spec) []error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, &SpecError{Index: i, ID: s.ID, Message: fmt.Sprintf(format, args...), Cause: ErrInvalidSpec})
	}

	if strings.TrimSpace(s.ID) == "" {
		invalid("id is required")
	}
	if strings.TrimSpace(s.Version) == "" {
		invalid("version is required")
	}
	if !s.RolloutStatus.Valid() {
		invalid("unknown rollout status %q", s.RolloutStatus)
	}
	intent, suffix := splitID(s.ID)
	switch {
	case s.ID == "":
	case intent == "":
		invalid("id must have the form <intent>.v<version>")
	case strings.Contains(intent, ".v"):
		invalid("intent %q must not contain \".v\"", intent)
	case s.Version != "" && CompareVersions(suffix, s.Version) != 0:
		invalid("id version %q does not match version %q", suffix, s.Version)
	}

	return errs
}

func checkAmbiguousActive(specs []Spec) []error {
	var errs []error

	seen := make(map[string][]int)
	for i, s := range specs {
		if s.RolloutStatus != StatusActive {
			continue
		}
		intent := s.Intent()
		if intent == "" {
			continue
		}
		for _, j := range seen[intent] {
			if specs[j].ID != s.ID && CompareVersions(specs[j].Version, s.Version) == 0 {
				errs = append(errs, &SpecError{
					Index:   i,
					ID:      s.ID,
					Message: fmt.Sprintf("active version %q of intent %q also declared by %s", s.Version, intent, specs[j].ID),
					Cause:   ErrAmbiguousActive,
				})
			}
		}
		seen[intent] = append(seen[intent], i)
	}

	return errs
}

// Get returns the spec with the given id.
func (r *Registry) Get(id string) (Spec, error) {
	s, ok := r.byID[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrPromptNotFound, id)
	}
	return s, nil
}

// Active returns the highest-version active spec whose id starts with
// "<intent>.v". Entries in any other rollout status are never returned.
func (r *Registry) Active(intent string) (Spec, error) {
	prefix := intent + ".v"

	var (
		best  Spec
		found bool
	)
	for _, id := range r.ids {
		s := r.byID[id]
		if s.RolloutStatus != StatusActive || !strings.HasPrefix(id, prefix) {
			continue
		}
		if !found || CompareVersions(s.Version, best.Version) > 0 {
			best, found = s, true
		}
	}

	if !found {
		return Spec{}, fmt.Errorf("%w: %q", ErrNoActivePrompt, intent)
	}
	return best, nil
}

// MustActive is like Active but panics when the intent has no active spec.
// It is meant for feature wiring at startup, not request handling.
func (r *Registry) MustActive(intent string) Spec {
	s, err := r.Active(intent)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns every spec ordered by id.
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Intents returns the distinct feature intents in the catalog, sorted.
func (r *Registry) Intents() []string {
	set := make(map[string]struct{})
	for _, s := range r.byID {
		if intent := s.Intent(); intent != "" {
			set[intent] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for intent := range set {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of specs in the registry.
func (r *Registry) Len() int {
	return len(r.ids)
}
