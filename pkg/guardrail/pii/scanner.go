package pii

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"mercator-hq/aegis/pkg/config"
)

// DefaultMaxDepth is the container nesting ceiling used when none is configured.
const DefaultMaxDepth = 64

var (
	// ErrMaxDepth indicates the value nests deeper than the scanner allows.
	ErrMaxDepth = errors.New("pii: maximum scan depth exceeded")

	// ErrUnsupportedValue indicates a value that cannot be normalized into a
	// JSON-like tree (channels, functions, cyclic structures).
	ErrUnsupportedValue = errors.New("pii: unsupported value")
)

// Hit describes the first PII occurrence found by a scan.
type Hit struct {
	// Path is the sequence of keys and indexes leading to the leaf.
	Path []string `json:"path"`

	// Type is the PII category (email, phone, credit_card, iban).
	Type string `json:"pii_type"`
}

// Location returns the dot-joined path, or "root" for a top-level leaf.
func (h Hit) Location() string {
	if len(h.Path) == 0 {
		return "root"
	}
	return strings.Join(h.Path, ".")
}

// String renders the hit as "<type>@<location>".
func (h Hit) String() string {
	return h.Type + "@" + h.Location()
}

// Scanner finds PII in structured values. It holds no per-call state and is
// safe for concurrent use.
type Scanner struct {
	patterns  []Pattern
	allowlist []string
	maxDepth  int
}

// NewScanner creates a scanner from the output guardrail configuration.
// A nil config yields the built-in catalog, allowlist and depth ceiling.
// Configured allowlist fragments extend the built-in ones.
func NewScanner(cfg *config.OutputConfig) *Scanner {
	s := &Scanner{
		patterns:  DefaultPatterns(),
		allowlist: normalizeFragments(DefaultAllowlist),
		maxDepth:  DefaultMaxDepth,
	}
	if cfg == nil {
		return s
	}
	if cfg.MaxDepth > 0 {
		s.maxDepth = cfg.MaxDepth
	}
	if len(cfg.AllowlistFields) > 0 {
		s.allowlist = normalizeFragments(append(append([]string{}, DefaultAllowlist...), cfg.AllowlistFields...))
	}
	return s
}

// Find scans value depth-first and returns the first PII hit, or nil when the
// value is clean. The optional path is prepended to every reported path.
//
// Returns ErrMaxDepth when nesting exceeds the ceiling and ErrUnsupportedValue
// when a leaf cannot be normalized. Both are wrapped with the offending path.
func (s *Scanner) Find(value any, path ...string) (*Hit, error) {
	return s.walk(value, clonePath(path), 0)
}

func (s *Scanner) walk(value any, path []string, depth int) (*Hit, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil

	case string:
		return s.scanLeaf(v, path), nil

	case []string:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		for i, item := range v {
			if hit := s.scanLeaf(item, child(path, strconv.Itoa(i))); hit != nil {
				return hit, nil
			}
		}
		return nil, nil

	case []any:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		for i, item := range v {
			hit, err := s.walk(item, child(path, strconv.Itoa(i)), depth+1)
			if hit != nil || err != nil {
				return hit, err
			}
		}
		return nil, nil

	case map[string]string:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(v) {
			if hit := s.scanLeaf(v[key], child(path, key)); hit != nil {
				return hit, nil
			}
		}
		return nil, nil

	case map[string]any:
		if err := s.enter(path, depth); err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(v) {
			hit, err := s.walk(v[key], child(path, key), depth+1)
			if hit != nil || err != nil {
				return hit, err
			}
		}
		return nil, nil

	case bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return nil, nil

	default:
		if isScalar(v) {
			return nil, nil
		}
		tree, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %v", ErrUnsupportedValue, location(path), err)
		}
		return s.walk(tree, path, depth)
	}
}

// enter enforces the depth ceiling before descending into a container.
func (s *Scanner) enter(path []string, depth int) error {
	if depth >= s.maxDepth {
		return fmt.Errorf("%w at %s (max %d)", ErrMaxDepth, location(path), s.maxDepth)
	}
	return nil
}

func (s *Scanner) scanLeaf(text string, path []string) *Hit {
	piiType := matchPatterns(s.patterns, text)
	if piiType == "" {
		return nil
	}
	if s.allowed(path) {
		return nil
	}
	return &Hit{Path: clonePath(path), Type: piiType}
}

// allowed reports whether the leaf's field name is expected to hold PII.
func (s *Scanner) allowed(path []string) bool {
	field := strings.ToLower(fieldName(path))
	if field == "" {
		return false
	}
	for _, fragment := range s.allowlist {
		if strings.Contains(field, fragment) {
			return true
		}
	}
	return false
}

// fieldName returns the last path segment that is not an array index.
func fieldName(path []string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if !isIndex(path[i]) {
			return path[i]
		}
	}
	return ""
}

func isIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// child appends seg to a copy of path so sibling branches never share storage.
func child(path []string, seg string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = seg
	return next
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return []string{}
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}

func location(path []string) string {
	return Hit{Path: path}.Location()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// normalize converts an arbitrary Go value into the JSON-like tree the walker
// understands, using JSON field names for struct fields.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
