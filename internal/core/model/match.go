package model

// Algorithm identifies which matching rule produced a result.
type Algorithm string

const (
	AlgorithmExact        Algorithm = "exact"
	AlgorithmVariant      Algorithm = "variant"
	AlgorithmPartial      Algorithm = "partial"
	AlgorithmEditDistance Algorithm = "edit_distance"
)

// MatchResult is the outcome of comparing two names. Pure value, no identity.
type MatchResult struct {
	IsMatch    bool      `json:"is_match"`
	Confidence float64   `json:"confidence"`
	Algorithm  Algorithm `json:"algorithm,omitempty"`
}

// NoMatch is the zero outcome returned when no rule fires or the winning
// confidence falls below the configured minimum.
var NoMatch = MatchResult{}
