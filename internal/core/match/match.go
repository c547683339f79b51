// Package match decides whether two names denote the same real-world entity.
//
// Four rules are tried in priority order (exact, variant, partial, edit
// distance) and the first that fires wins. The result is symmetric in its
// arguments: every rule orders its operands by token count, then byte
// length, then lexically, before comparing.
package match

import (
	"strings"

	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/core/normalize"
)

// Options tunes a single comparison.
type Options struct {
	// MinConfidence rejects a winning rule whose confidence falls below it.
	MinConfidence float64
	// AllowPartialMatch enables the token-overlap rule.
	AllowPartialMatch bool
	// MaxEditDistance bounds the Levenshtein rule. Zero disables it.
	MaxEditDistance int
	// EntityType changes token weighting only: organizations get
	// legal-suffix stripping, persons weight the surname over given names.
	EntityType model.EntityType
}

// DefaultOptions mirrors the tuned values the service ships with.
func DefaultOptions(entityType model.EntityType) Options {
	return Options{
		MinConfidence:     0.5,
		AllowPartialMatch: true,
		MaxEditDistance:   3,
		EntityType:        entityType,
	}
}

// FuzzyMatch compares two raw name strings under the given options.
func FuzzyMatch(nameA, nameB string, opts Options) model.MatchResult {
	a := parseOperand(nameA, opts.EntityType)
	b := parseOperand(nameB, opts.EntityType)

	if a.full == "" || b.full == "" {
		return model.NoMatch
	}

	// Canonical operand order makes every rule order-independent.
	if operandLess(b, a) {
		a, b = b, a
	}

	result := model.NoMatch
	switch {
	case a.full == b.full:
		result = model.MatchResult{IsMatch: true, Confidence: 1.0, Algorithm: model.AlgorithmExact}
	case variantMatch(a.tokens, b.tokens, &result):
	case opts.AllowPartialMatch && partialMatch(a.tokens, b.tokens, opts.EntityType, &result):
	default:
		editDistanceMatch(a.full, b.full, opts.MaxEditDistance, &result)
	}

	if !result.IsMatch || result.Confidence < opts.MinConfidence {
		return model.NoMatch
	}
	return result
}

// operand is a name reduced to its comparison form.
type operand struct {
	full   string
	tokens []string
}

func parseOperand(raw string, entityType model.EntityType) operand {
	parsed := normalize.Parse(raw)
	tokens := parsed.Tokens
	if entityType == model.TypeOrganization {
		tokens = normalize.StripOrgSuffixes(tokens)
	}

	full := strings.Join(tokens, " ")
	if full == "" {
		// Non-tokenizable input still compares on its normalized fallback
		// so reflexivity holds for any non-empty name.
		full = parsed.Normalized
	}
	return operand{full: full, tokens: tokens}
}

func operandLess(x, y operand) bool {
	if len(x.tokens) != len(y.tokens) {
		return len(x.tokens) < len(y.tokens)
	}
	if len(x.full) != len(y.full) {
		return len(x.full) < len(y.full)
	}
	return x.full < y.full
}

// variantMatch handles abbreviation and title variants: "s jones" against
// "sarah jones", or a bare surname against the full name. The shorter name's
// tokens must all align, in order, with tokens of the longer name (exactly
// or as an initial), and the surnames must agree exactly.
func variantMatch(short, long []string, out *model.MatchResult) bool {
	if len(short) == 0 || len(long) == 0 {
		return false
	}
	if short[len(short)-1] != long[len(long)-1] {
		return false
	}

	i := 0
	for j := 0; j < len(long) && i < len(short); j++ {
		if tokenAligns(short[i], long[j]) {
			i++
		}
	}
	if i < len(short) {
		return false
	}

	// Scale by the fraction of the longer name's tokens that aligned.
	fraction := float64(len(short)) / float64(len(long))
	*out = model.MatchResult{
		IsMatch:    true,
		Confidence: 0.7 + 0.25*fraction,
		Algorithm:  model.AlgorithmVariant,
	}
	return true
}

func tokenAligns(short, full string) bool {
	if short == full {
		return true
	}
	return normalize.IsInitial(short) && short[0] == full[0]
}

// partialMatch accepts names sharing at least half of the shorter name's
// token weight. For persons and professionals the surname counts double.
func partialMatch(short, long []string, entityType model.EntityType, out *model.MatchResult) bool {
	if len(short) == 0 || len(long) == 0 {
		return false
	}

	inLong := make(map[string]bool, len(long))
	for _, tok := range long {
		inLong[tok] = true
	}

	var shared, total float64
	for i, tok := range short {
		w := tokenWeight(entityType, i == len(short)-1)
		total += w
		if inLong[tok] {
			shared += w
		}
	}

	ratio := shared / total
	if ratio < 0.5 {
		return false
	}

	*out = model.MatchResult{
		IsMatch:    true,
		Confidence: 0.5 + 0.3*ratio,
		Algorithm:  model.AlgorithmPartial,
	}
	return true
}

func tokenWeight(entityType model.EntityType, surname bool) float64 {
	if surname && (entityType == model.TypePerson || entityType == model.TypeProfessional) {
		return 2
	}
	return 1
}

func editDistanceMatch(a, b string, maxDistance int, out *model.MatchResult) {
	if maxDistance <= 0 {
		return
	}
	distance := levenshtein(a, b)
	if distance > maxDistance {
		return
	}

	longest := max(len(a), len(b))
	*out = model.MatchResult{
		IsMatch:    true,
		Confidence: 1.0 - float64(distance)/float64(longest),
		Algorithm:  model.AlgorithmEditDistance,
	}
}
