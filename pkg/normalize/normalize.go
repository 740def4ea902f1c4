package normalize

import (
	"regexp"
	"strings"
)

// Variant selects how aggressively show titles are canonicalized.
type Variant string

const (
	// VariantBasic lowercases, strips punctuation and collapses whitespace.
	VariantBasic Variant = "basic"
	// VariantStrict additionally removes generic format words ("podcast",
	// "show") and trailing host clauses before stripping. Higher cross-platform
	// match rate, but distinct shows sharing a format word can over-merge.
	VariantStrict Variant = "strict"
)

var (
	// \w in Go regexp is ASCII-only; spell out the Unicode word classes so
	// accented letters survive normalization.
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespace = regexp.MustCompile(`\s+`)

	strictPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bthe podcast\b`),
		regexp.MustCompile(`\bthe show\b`),
		regexp.MustCompile(`\bpodcast\b`),
		regexp.MustCompile(`\bshow\b`),
		regexp.MustCompile(`\bwith\s+[^,]+$`),
		regexp.MustCompile(`\bw/\s+[^,]+$`),
	}
)

// Normalizer maps raw show titles to canonical matching keys. Every loader
// and every attribute table lookup must share one Normalizer instance; mixing
// variants silently breaks cross-platform matching.
type Normalizer struct {
	variant Variant
}

// New returns a Normalizer for the given variant. Unknown variants fall back
// to VariantBasic.
func New(v Variant) *Normalizer {
	if v != VariantStrict {
		v = VariantBasic
	}
	return &Normalizer{variant: v}
}

// Variant reports which variant this normalizer applies.
func (n *Normalizer) Variant() Variant { return n.variant }

// Normalize derives the canonical key for a raw title. It is pure,
// deterministic and idempotent, and returns "" for blank input rather than
// failing.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if n.variant == VariantStrict {
		for _, p := range strictPatterns {
			s = p.ReplaceAllString(s, "")
		}
	}

	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
