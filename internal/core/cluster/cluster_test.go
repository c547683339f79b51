package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseintel/resolver/internal/core/model"
)

func records(ids ...string) []model.EntityRecord {
	out := make([]model.EntityRecord, len(ids))
	for i, id := range ids {
		out[i] = model.EntityRecord{ID: id, Type: model.TypePerson}
	}
	return out
}

func proposal(id1, id2 string, confidence float64) model.LinkageProposal {
	return model.LinkageProposal{
		EntityIDs:  [2]string{id1, id2},
		Confidence: confidence,
	}
}

func TestGroups_Singletons(t *testing.T) {
	r := New(records("a", "b", "c"))
	groups := r.Groups()

	assert.Len(t, groups, 3)
	for _, g := range groups {
		assert.Len(t, g, 1)
	}
}

func TestApply_Transitivity(t *testing.T) {
	// A-B and B-C clear the threshold; A-C does not, but transitivity
	// merges all three anyway.
	r := New(records("a", "b", "c"))
	r.Apply([]model.LinkageProposal{
		proposal("a", "b", 0.75),
		proposal("b", "c", 0.72),
		proposal("a", "c", 0.4),
	}, 0.7)

	groups := r.Groups()
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestApply_ThresholdGate(t *testing.T) {
	r := New(records("a", "b"))
	r.Apply([]model.LinkageProposal{proposal("a", "b", 0.69)}, 0.7)

	assert.Len(t, r.Groups(), 2)
}

func TestUnion_UnknownIDIgnored(t *testing.T) {
	r := New(records("a", "b"))
	r.Union("a", "dropped-at-ingestion")
	r.Union("ghost", "b")

	assert.Len(t, r.Groups(), 2)
}

func TestGroups_PreservesInputOrder(t *testing.T) {
	r := New(records("a", "b", "c", "d"))
	r.Apply([]model.LinkageProposal{
		proposal("d", "b", 0.9),
	}, 0.7)

	groups := r.Groups()
	assert.Len(t, groups, 3)
	// "b" is seen before "d", so the merged group sits second and lists
	// its members in input order.
	assert.Equal(t, "a", groups[0][0].ID)
	assert.Equal(t, []string{"b", "d"}, []string{groups[1][0].ID, groups[1][1].ID})
	assert.Equal(t, "c", groups[2][0].ID)
}

func TestFind_LongChainStaysBounded(t *testing.T) {
	// An adversarial union order that would blow the stack of a recursive
	// find: a thousand records chained one after another.
	const n = 1000
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("r%d", i)
	}
	r := New(records(ids...))
	for i := 1; i < n; i++ {
		r.Union(ids[i-1], ids[i])
	}

	groups := r.Groups()
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0], n)
}

func TestEmptyInput(t *testing.T) {
	r := New(nil)
	assert.Empty(t, r.Groups())
}
