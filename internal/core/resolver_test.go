package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseintel/resolver/internal/config"
	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/driver"
)

func newTestResolver(d driver.GraphDriver) *Resolver {
	return NewResolver(d, config.Default(), &ident.Sequence{Prefix: "out"})
}

func mention(doc, text string) model.Mention {
	return model.Mention{DocumentID: doc, Text: text}
}

func jonesRecords() []model.EntityRecord {
	return []model.EntityRecord{
		{ID: "r1", Type: model.TypeProfessional, CanonicalName: "S. Jones", Confidence: 0.82,
			Mentions: []model.Mention{mention("d1", "S. Jones")}},
		{ID: "r2", Type: model.TypeProfessional, CanonicalName: "Dr. Sarah Jones", Confidence: 0.9,
			Mentions: []model.Mention{mention("d2", "Dr. Sarah Jones")}},
		{ID: "r3", Type: model.TypeProfessional, CanonicalName: "SW Jones", Confidence: 0.85,
			Mentions: []model.Mention{mention("d3", "SW Jones")}},
	}
}

func TestResolve_MergesNameVariants(t *testing.T) {
	r := newTestResolver(nil)

	res := r.Resolve("case-1", jonesRecords())

	assert.Len(t, res.Entities, 1)
	entity := res.Entities[0]
	assert.Equal(t, "Dr. Sarah Jones", entity.CanonicalName)
	assert.Equal(t, model.TypeProfessional, entity.Type)
	assert.ElementsMatch(t, []string{"S. Jones", "Dr. Sarah Jones", "SW Jones"}, entity.Aliases)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, entity.SourceRecords)
	assert.GreaterOrEqual(t, entity.Confidence, 0.85)

	assert.Equal(t, 1, res.Summary.TotalEntities)
	assert.Equal(t, 1, res.Summary.ProfessionalCount)
	assert.Equal(t, 3, res.Summary.LinkagesIdentified)
	assert.Equal(t, 2, res.Summary.HighConfidenceLinkages)
}

func TestResolve_TypePartitioning(t *testing.T) {
	r := newTestResolver(nil)

	// Same normalized name, different types: never merged.
	res := r.Resolve("case-1", []model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "Family Court", Confidence: 0.6,
			Mentions: []model.Mention{mention("d1", "Family Court")}},
		{ID: "r2", Type: model.TypeCourt, CanonicalName: "Family Court", Confidence: 0.9,
			Mentions: []model.Mention{mention("d1", "the Family Court")}},
	})

	assert.Len(t, res.Entities, 2)
	assert.Empty(t, res.Linkages)
	assert.Equal(t, 1, res.Summary.PeopleCount)
	assert.Equal(t, 1, res.Summary.CourtCount)
}

func TestResolve_EmptyInput(t *testing.T) {
	r := newTestResolver(nil)

	res := r.Resolve("case-1", nil)

	assert.NotNil(t, res.Entities)
	assert.Empty(t, res.Entities)
	assert.NotNil(t, res.Linkages)
	assert.Empty(t, res.Linkages)
	assert.Equal(t, model.ResolutionSummary{}, res.Summary)
}

func TestResolve_EditDistanceMerge(t *testing.T) {
	r := newTestResolver(nil)

	res := r.Resolve("case-1", []model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "John Smith", Confidence: 0.8,
			Mentions: []model.Mention{mention("d1", "John Smith")}},
		{ID: "r2", Type: model.TypePerson, CanonicalName: "Jon Smyth", Confidence: 0.8,
			Mentions: []model.Mention{mention("d2", "Jon Smyth")}},
	})

	assert.Len(t, res.Linkages, 1)
	link := res.Linkages[0]
	assert.Equal(t, model.AlgorithmEditDistance, link.Algorithm)
	assert.InDelta(t, 0.8, link.Confidence, 1e-9)
	assert.Equal(t, model.StatusConfirmed, link.Status)

	// 0.8 clears the auto-merge threshold.
	assert.Len(t, res.Entities, 1)
}

func TestResolve_DropsMalformedRecords(t *testing.T) {
	r := newTestResolver(nil)

	res := r.Resolve("case-1", []model.EntityRecord{
		{ID: "bad-type", Type: "spirit", CanonicalName: "Ghost", Confidence: 0.9,
			Mentions: []model.Mention{mention("d1", "Ghost")}},
		{ID: "no-name", Type: model.TypePerson, CanonicalName: "  ", Confidence: 0.9,
			Mentions: []model.Mention{mention("d1", "??")}},
		{ID: "no-mentions", Type: model.TypePerson, CanonicalName: "Alan Grant", Confidence: 0.9},
		{ID: "ok", Type: model.TypePerson, CanonicalName: "Ellie Sattler", Confidence: 0.9,
			Mentions: []model.Mention{mention("d1", "Ellie Sattler")}},
	})

	assert.Len(t, res.Entities, 1)
	assert.Equal(t, "Ellie Sattler", res.Entities[0].CanonicalName)
}

func TestResolve_Idempotent(t *testing.T) {
	first := newTestResolver(nil).Resolve("case-1", jonesRecords())
	second := newTestResolver(nil).Resolve("case-1", jonesRecords())

	assert.Len(t, second.Entities, len(first.Entities))
	for i := range first.Entities {
		a, b := first.Entities[i], second.Entities[i]
		assert.Equal(t, a.CanonicalName, b.CanonicalName)
		assert.Equal(t, a.Type, b.Type)
		assert.Equal(t, a.Aliases, b.Aliases)
		assert.Equal(t, a.Mentions, b.Mentions)
		assert.Equal(t, a.Confidence, b.Confidence)
	}
	assert.Equal(t, first.Summary, second.Summary)
}

func TestResolve_PartitionCompleteness(t *testing.T) {
	records := jonesRecords()
	res := newTestResolver(nil).Resolve("case-1", records)

	var input, output []model.Mention
	for _, rec := range records {
		input = append(input, rec.Mentions...)
	}
	for _, e := range res.Entities {
		output = append(output, e.Mentions...)
	}
	assert.ElementsMatch(t, input, output)

	// Every record lands in exactly one entity.
	seen := map[string]int{}
	for _, e := range res.Entities {
		for _, id := range e.SourceRecords {
			seen[id]++
		}
	}
	for _, rec := range records {
		assert.Equal(t, 1, seen[rec.ID], rec.ID)
	}
}

func TestResolve_ConfidenceBounds(t *testing.T) {
	res := newTestResolver(nil).Resolve("case-1", []model.EntityRecord{
		{ID: "r1", Type: model.TypePerson, CanonicalName: "John Smith", Confidence: 0.99,
			Mentions: []model.Mention{mention("d1", "John Smith")}},
		{ID: "r2", Type: model.TypePerson, CanonicalName: "Jon Smyth", Confidence: 0.99,
			Mentions: []model.Mention{mention("d2", "Jon Smyth")}},
	})

	for _, e := range res.Entities {
		assert.GreaterOrEqual(t, e.Confidence, 0.0)
		assert.LessOrEqual(t, e.Confidence, 1.0)
	}
	for _, l := range res.Linkages {
		assert.GreaterOrEqual(t, l.Confidence, 0.0)
		assert.LessOrEqual(t, l.Confidence, 1.0)
	}
}

func TestResolve_AllIdenticalNamesDegradeToOneCluster(t *testing.T) {
	var records []model.EntityRecord
	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		records = append(records, model.EntityRecord{
			ID: id, Type: model.TypePerson, CanonicalName: "John Smith", Confidence: 0.8,
			Mentions: []model.Mention{mention("d-"+id, "John Smith")},
		})
	}

	res := newTestResolver(nil).Resolve("case-1", records)
	assert.Len(t, res.Entities, 1)
}

func TestPersistResolution(t *testing.T) {
	mock := &MockDriver{}
	r := newTestResolver(mock)

	// Two organizations that stay separate with a pending linkage between
	// them: shared first token only, confidence 0.65.
	res := r.Resolve("case-1", []model.EntityRecord{
		{ID: "r1", Type: model.TypeOrganization, CanonicalName: "Westshire Family Services", Confidence: 0.8,
			Mentions: []model.Mention{mention("d1", "Westshire Family Services")}},
		{ID: "r2", Type: model.TypeOrganization, CanonicalName: "Westshire Housing", Confidence: 0.8,
			Mentions: []model.Mention{mention("d2", "Westshire Housing")}},
	})

	assert.Len(t, res.Entities, 2)
	assert.Len(t, res.Linkages, 1)
	assert.Equal(t, model.StatusPending, res.Linkages[0].Status)

	err := r.PersistResolution(context.Background(), res)
	assert.NoError(t, err)

	// Two entity nodes plus one linkage edge.
	assert.Len(t, mock.Executed, 3)
	assert.Equal(t, driver.SaveResolvedEntityQuery, mock.Executed[0].Query)
	assert.Equal(t, driver.SaveResolvedEntityQuery, mock.Executed[1].Query)
	assert.Equal(t, driver.SaveLinkageQuery, mock.Executed[2].Query)

	edge := mock.Executed[2].Params
	assert.Equal(t, res.Entities[0].ID, edge["source_uuid"])
	assert.Equal(t, res.Entities[1].ID, edge["target_uuid"])
	assert.Equal(t, "pending", edge["status"])
}

func TestPersistResolution_SkipsCollapsedLinkages(t *testing.T) {
	mock := &MockDriver{}
	r := newTestResolver(mock)

	res := r.Resolve("case-1", jonesRecords())
	assert.NoError(t, r.PersistResolution(context.Background(), res))

	// All three records merged into one node; no self-edges written.
	assert.Len(t, mock.Executed, 1)
	assert.Equal(t, driver.SaveResolvedEntityQuery, mock.Executed[0].Query)
}

func TestPersistResolution_NilDriver(t *testing.T) {
	r := newTestResolver(nil)
	res := r.Resolve("case-1", jonesRecords())

	assert.NoError(t, r.PersistResolution(context.Background(), res))
	assert.NoError(t, r.BuildIndices(context.Background()))
}
