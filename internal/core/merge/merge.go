// Package merge collapses a cluster of entity records into one resolved
// entity: canonical name selection, alias and mention union, and an
// aggregate confidence.
package merge

import (
	"strings"

	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/core/normalize"
)

// corroborationBoost models the increased certainty of an entity extracted
// independently at least twice. Kept small and clamped so confidence never
// leaves [0,1].
const corroborationBoost = 0.05

type Engine struct {
	IDs ident.Generator
}

func NewEngine(ids ident.Generator) *Engine {
	return &Engine{IDs: ids}
}

// MergeGroup resolves one equivalence class. The group must be non-empty and
// share a single type; both hold by construction of the cluster step.
func (e *Engine) MergeGroup(group []model.EntityRecord) model.ResolvedEntity {
	if len(group) == 1 {
		// Singleton passes through unchanged, wrapped with a fresh id. The
		// alias set still absorbs the canonical name so the superset
		// invariant holds uniformly.
		rec := group[0]
		return model.ResolvedEntity{
			ID:            e.IDs.NewID(),
			CanonicalName: rec.CanonicalName,
			Type:          rec.Type,
			Role:          rec.Role,
			Aliases:       unionAliases(group),
			Mentions:      unionMentions(group),
			Confidence:    min(1, max(0, rec.Confidence)),
			SourceRecords: []string{rec.ID},
		}
	}

	lead := bestMember(group)

	sources := make([]string, len(group))
	for i, rec := range group {
		sources[i] = rec.ID
	}

	return model.ResolvedEntity{
		ID:            e.IDs.NewID(),
		CanonicalName: selectCanonicalName(group),
		Type:          lead.Type,
		Role:          lead.Role,
		Aliases:       unionAliases(group),
		Mentions:      unionMentions(group),
		Confidence:    groupConfidence(group),
		SourceRecords: sources,
	}
}

// bestMember picks the highest-confidence record, first-seen on ties. Role
// and type are inherited from it.
func bestMember(group []model.EntityRecord) model.EntityRecord {
	best := group[0]
	for _, rec := range group[1:] {
		if rec.Confidence > best.Confidence {
			best = rec
		}
	}
	return best
}

// selectCanonicalName scores every candidate name in the group and keeps the
// best. Longer, fuller names win; initials are penalized; a recognized title
// is a small bonus. Ties break by first-seen order.
func selectCanonicalName(group []model.EntityRecord) string {
	var bestName string
	bestScore := 0
	first := true

	for _, rec := range group {
		for _, candidate := range append([]string{rec.CanonicalName}, rec.Aliases...) {
			if candidate == "" {
				continue
			}
			score := scoreName(candidate)
			if first || score > bestScore {
				bestName, bestScore, first = candidate, score, false
			}
		}
	}
	return bestName
}

func scoreName(name string) int {
	parsed := normalize.Parse(name)

	initials := 0
	for _, tok := range parsed.Tokens {
		if normalize.IsInitial(tok) {
			initials++
		}
	}

	score := 10*len(parsed.Tokens) + len(name) - 5*initials
	if normalize.HasTitle(name) {
		score += 3
	}
	return score
}

// unionAliases collects every member's canonical name and aliases, exactly
// once, preserving first-seen order. The resolved alias set is therefore a
// superset of every contributing record's names.
func unionAliases(group []model.EntityRecord) []string {
	seen := make(map[string]bool)
	aliases := []string{}
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		aliases = append(aliases, name)
	}

	for _, rec := range group {
		add(rec.CanonicalName)
		for _, alias := range rec.Aliases {
			add(alias)
		}
	}
	return aliases
}

// unionMentions deduplicates by (documentId, text), preserving first-seen
// order.
func unionMentions(group []model.EntityRecord) []model.Mention {
	type key struct{ doc, text string }
	seen := make(map[key]bool)
	mentions := []model.Mention{}

	for _, rec := range group {
		for _, m := range rec.Mentions {
			k := key{m.DocumentID, m.Text}
			if seen[k] {
				continue
			}
			seen[k] = true
			mentions = append(mentions, m)
		}
	}
	return mentions
}

// groupConfidence is the mention-count-weighted average of member
// confidences, boosted for corroboration across two or more records and
// clamped to [0,1].
func groupConfidence(group []model.EntityRecord) float64 {
	var weighted, weight float64
	for _, rec := range group {
		w := float64(len(rec.Mentions))
		weighted += rec.Confidence * w
		weight += w
	}
	if weight == 0 {
		// No mentions anywhere: fall back to a plain average.
		for _, rec := range group {
			weighted += rec.Confidence
		}
		weight = float64(len(group))
	}

	confidence := weighted / weight
	if len(group) >= 2 {
		confidence += corroborationBoost
	}
	return min(1, max(0, confidence))
}
