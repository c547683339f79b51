// Package linkage proposes cross-document linkages between entity records.
package linkage

import (
	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/match"
	"github.com/caseintel/resolver/internal/core/model"
)

// Generator runs the fuzzy matcher over all same-type record pairs. The
// pass is O(n²) per type partition, which is fine for the bounded batches
// this service sees (a few hundred records from at most a handful of
// documents).
type Generator struct {
	Matcher          match.Options
	ProposeThreshold float64
	ConfirmThreshold float64
	IDs              ident.Generator
}

func NewGenerator(matcher match.Options, propose, confirm float64, ids ident.Generator) *Generator {
	return &Generator{
		Matcher:          matcher,
		ProposeThreshold: propose,
		ConfirmThreshold: confirm,
		IDs:              ids,
	}
}

// Generate emits one proposal per matching record pair. Records are assumed
// to have validated types; matching never crosses type boundaries.
func (g *Generator) Generate(records []model.EntityRecord) []model.LinkageProposal {
	partitions := make(map[model.EntityType][]model.EntityRecord)
	var order []model.EntityType
	for _, rec := range records {
		if _, seen := partitions[rec.Type]; !seen {
			order = append(order, rec.Type)
		}
		partitions[rec.Type] = append(partitions[rec.Type], rec)
	}

	proposals := []model.LinkageProposal{}
	for _, t := range order {
		part := partitions[t]
		opts := g.Matcher
		opts.EntityType = t

		for i := 0; i < len(part); i++ {
			for j := i + 1; j < len(part); j++ {
				result := g.matchPair(part[i], part[j], opts)
				if !result.IsMatch || result.Confidence < g.ProposeThreshold {
					continue
				}

				status := model.StatusPending
				if result.Confidence >= g.ConfirmThreshold {
					status = model.StatusConfirmed
				}
				proposals = append(proposals, model.LinkageProposal{
					ID:          g.IDs.NewID(),
					Entity1Name: part[i].CanonicalName,
					Entity2Name: part[j].CanonicalName,
					Confidence:  result.Confidence,
					Algorithm:   result.Algorithm,
					Status:      status,
					EntityIDs:   [2]string{part[i].ID, part[j].ID},
				})
			}
		}
	}
	return proposals
}

// matchPair tries canonical names first, then falls back to the alias cross
// product, stopping at the first passing pair to bound cost.
func (g *Generator) matchPair(a, b model.EntityRecord, opts match.Options) model.MatchResult {
	if result := match.FuzzyMatch(a.CanonicalName, b.CanonicalName, opts); result.IsMatch {
		return result
	}

	namesA := append([]string{a.CanonicalName}, a.Aliases...)
	namesB := append([]string{b.CanonicalName}, b.Aliases...)
	for i, nameA := range namesA {
		for j, nameB := range namesB {
			if i == 0 && j == 0 {
				continue // canonical pair already tried
			}
			if result := match.FuzzyMatch(nameA, nameB, opts); result.IsMatch {
				return result
			}
		}
	}
	return model.NoMatch
}
