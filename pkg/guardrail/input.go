package guardrail

import (
	"strings"
	"unicode/utf8"

	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/urlsafe"
)

// URLPredicate reports whether an image URL may be passed to a model. It
// must be side-effect free and must not touch the network.
type URLPredicate func(rawURL string) bool

// Input is a user submission to a model-backed feature. Empty Text or
// ImageURL means the field is absent.
type Input struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	UserID   string `json:"user_id"`
}

// InputGuardrail is the pre-inference gate. It is immutable and safe for
// concurrent use.
type InputGuardrail struct {
	maxText     int
	maxImageURL int
	patterns    []Pattern
	isSafeURL   URLPredicate
}

// NewInputGuardrail creates an input gate. A nil cfg uses the default limits
// and a nil predicate uses urlsafe.IsSafe. Extra patterns from cfg run after
// the built-in catalog.
func NewInputGuardrail(cfg *config.InputConfig, isSafeURL URLPredicate) (*InputGuardrail, error) {
	g := &InputGuardrail{
		maxText:     config.DefaultMaxTextLength,
		maxImageURL: config.DefaultMaxImageURLLength,
		patterns:    DefaultPatterns(),
		isSafeURL:   isSafeURL,
	}
	if g.isSafeURL == nil {
		g.isSafeURL = urlsafe.IsSafe
	}
	if cfg == nil {
		return g, nil
	}

	if cfg.MaxTextLength > 0 {
		g.maxText = cfg.MaxTextLength
	}
	if cfg.MaxImageURLLength > 0 {
		g.maxImageURL = cfg.MaxImageURLLength
	}
	for _, pc := range cfg.ExtraPatterns {
		p, err := compilePattern(pc.ID, pc.Pattern)
		if err != nil {
			return nil, err
		}
		g.patterns = append(g.patterns, p)
	}
	return g, nil
}

// Check runs the input checks in order and returns the first failure.
// Lengths are counted in characters, not bytes.
func (g *InputGuardrail) Check(in Input) Result {
	if strings.TrimSpace(in.UserID) == "" {
		return reject(ReasonMissingUserID)
	}

	if in.Text != "" {
		if utf8.RuneCountInString(in.Text) > g.maxText {
			return reject(ReasonTextTooLong)
		}
		if g.Match(in.Text) != "" {
			return reject(ReasonMaliciousInputPattern)
		}
	}

	if in.ImageURL != "" {
		if utf8.RuneCountInString(in.ImageURL) > g.maxImageURL {
			return reject(ReasonImageURLTooLong)
		}
		if !g.isSafeURL(in.ImageURL) {
			return reject(ReasonUnsafeImageURL)
		}
	}

	return pass()
}

// Match returns the id of the first adversarial pattern matching text, or ""
// when none does.
func (g *InputGuardrail) Match(text string) string {
	for _, p := range g.patterns {
		if p.Expr.MatchString(text) {
			return p.ID
		}
	}
	return ""
}
