package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/match"
	"github.com/caseintel/resolver/internal/core/model"
)

func newTestGenerator() *Generator {
	return NewGenerator(match.DefaultOptions(""), 0.5, 0.8, &ident.Sequence{Prefix: "link"})
}

func TestGenerate_ConfirmedAndPending(t *testing.T) {
	g := newTestGenerator()

	proposals := g.Generate([]model.EntityRecord{
		{ID: "r1", Type: model.TypeProfessional, CanonicalName: "S. Jones"},
		{ID: "r2", Type: model.TypeProfessional, CanonicalName: "Sarah Jones"},
		{ID: "r3", Type: model.TypePerson, CanonicalName: "Emma Wilson"},
		{ID: "r4", Type: model.TypePerson, CanonicalName: "Kate Wilson"},
	})

	assert.Len(t, proposals, 2)

	variant := proposals[0]
	assert.Equal(t, [2]string{"r1", "r2"}, variant.EntityIDs)
	assert.Equal(t, model.AlgorithmVariant, variant.Algorithm)
	assert.Equal(t, model.StatusConfirmed, variant.Status)

	partial := proposals[1]
	assert.Equal(t, [2]string{"r3", "r4"}, partial.EntityIDs)
	assert.Equal(t, model.StatusPending, partial.Status)
	assert.Less(t, partial.Confidence, 0.8)
}

func TestGenerate_NeverCrossesTypes(t *testing.T) {
	g := newTestGenerator()

	// Identical names, different types: no proposal.
	proposals := g.Generate([]model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "Family Court"},
		{ID: "r2", Type: model.TypeCourt, CanonicalName: "Family Court"},
	})

	assert.Empty(t, proposals)
}

func TestGenerate_AliasFallback(t *testing.T) {
	g := newTestGenerator()

	proposals := g.Generate([]model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "The Mother", Aliases: []string{"Karen Price"}},
		{ID: "r2", Type: model.TypePerson, CanonicalName: "K. Price"},
	})

	assert.Len(t, proposals, 1)
	assert.Equal(t, [2]string{"r1", "r2"}, proposals[0].EntityIDs)
	// Canonical names carry into the proposal even when aliases matched.
	assert.Equal(t, "The Mother", proposals[0].Entity1Name)
	assert.Equal(t, "K. Price", proposals[0].Entity2Name)
}

func TestGenerate_NoMatches(t *testing.T) {
	g := newTestGenerator()

	proposals := g.Generate([]model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "Alan Grant"},
		{ID: "r2", Type: model.TypePerson, CanonicalName: "Ellie Sattler"},
	})

	assert.NotNil(t, proposals)
	assert.Empty(t, proposals)
}

func TestGenerate_DeterministicIDs(t *testing.T) {
	records := []model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "John Smith"},
		{ID: "r2", Type: model.TypePerson, CanonicalName: "Jon Smyth"},
	}

	proposals := newTestGenerator().Generate(records)
	assert.Len(t, proposals, 1)
	assert.Equal(t, "link-1", proposals[0].ID)
}
