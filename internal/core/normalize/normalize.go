// Package normalize canonicalizes raw name strings into comparable forms.
// It is the leaf of the resolution pipeline: pure functions, no state.
package normalize

import "strings"

// Honorific and professional titles stripped before token comparison. The
// stripped title is kept as a side channel because it contributes to
// canonical-name scoring during merge.
var titles = map[string]bool{
	"dr":   true,
	"prof": true,
	"mr":   true,
	"mrs":  true,
	"ms":   true,
	"miss": true,
}

// Legal-entity suffixes stripped from organization names before comparison.
var orgSuffixes = map[string]bool{
	"ltd":       true,
	"limited":   true,
	"llp":       true,
	"plc":       true,
	"inc":       true,
	"co":        true,
	"council":   true,
	"borough":   true,
	"trust":     true,
	"authority": true,
	"services":  true,
}

const tokenPunct = ".,;:!?'\"()[]"

// Name is the parsed form of a raw name string.
type Name struct {
	Raw        string
	Normalized string   // lower-cased, title-stripped, punctuation-trimmed, whitespace-collapsed
	Title      string   // leading honorific removed from Normalized, "" if none
	Tokens     []string // the tokens of Normalized, in order
}

// Parse normalizes a raw name. Same input always yields the same output, and
// empty or non-alphabetic input falls back to the trimmed lower-cased string
// rather than failing.
func Parse(raw string) Name {
	n := Name{Raw: raw}

	lowered := strings.ToLower(strings.TrimSpace(raw))
	for _, field := range strings.Fields(lowered) {
		tok := strings.Trim(field, tokenPunct)
		if tok == "" {
			continue
		}
		if n.Title == "" && len(n.Tokens) == 0 && titles[tok] {
			n.Title = tok
			continue
		}
		n.Tokens = append(n.Tokens, tok)
	}

	if len(n.Tokens) == 0 {
		// Nothing survived tokenization (empty string, bare title, pure
		// punctuation). Fall back so the caller still has something stable.
		n.Normalized = lowered
		return n
	}

	n.Normalized = strings.Join(n.Tokens, " ")
	return n
}

// Normalize is the plain string form of Parse for callers that do not need
// the title side channel.
func Normalize(raw string) string {
	return Parse(raw).Normalized
}

// StripOrgSuffixes removes trailing legal-entity tokens, keeping at least one
// token so an organization named literally "Trust" still compares as itself.
func StripOrgSuffixes(tokens []string) []string {
	end := len(tokens)
	for end > 1 && orgSuffixes[tokens[end-1]] {
		end--
	}
	return tokens[:end]
}

// IsInitial reports whether a token is a single-letter initial.
func IsInitial(token string) bool {
	return len(token) == 1 && token[0] >= 'a' && token[0] <= 'z'
}

// HasTitle reports whether a raw (unnormalized) name starts with a
// recognized title. Used by canonical-name scoring.
func HasTitle(raw string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(fields) == 0 {
		return false
	}
	return titles[strings.Trim(fields[0], tokenPunct)]
}
