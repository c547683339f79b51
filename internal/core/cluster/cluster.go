// Package cluster turns pairwise linkage proposals into transitive
// equivalence classes of entity records.
package cluster

import (
	"github.com/caseintel/resolver/internal/core/model"
)

// Resolver is a disjoint-set forest over an index-addressed arena of record
// slots. find is iterative with path halving, so chain depth stays bounded
// regardless of union order.
type Resolver struct {
	parent []int
	rank   []int
	index  map[string]int
	record []model.EntityRecord
}

// New initializes one singleton set per record.
func New(records []model.EntityRecord) *Resolver {
	r := &Resolver{
		parent: make([]int, len(records)),
		rank:   make([]int, len(records)),
		index:  make(map[string]int, len(records)),
		record: records,
	}
	for i, rec := range records {
		r.parent[i] = i
		r.index[rec.ID] = i
	}
	return r
}

func (r *Resolver) find(i int) int {
	for r.parent[i] != i {
		r.parent[i] = r.parent[r.parent[i]]
		i = r.parent[i]
	}
	return i
}

// Union merges the sets containing the two record ids. Unknown ids are
// ignored; the proposal generator only emits ids it was given, but a caller
// replaying stored proposals may reference records dropped at ingestion.
func (r *Resolver) Union(id1, id2 string) {
	i, ok1 := r.index[id1]
	j, ok2 := r.index[id2]
	if !ok1 || !ok2 {
		return
	}

	ri, rj := r.find(i), r.find(j)
	if ri == rj {
		return
	}
	if r.rank[ri] < r.rank[rj] {
		ri, rj = rj, ri
	}
	r.parent[rj] = ri
	if r.rank[ri] == r.rank[rj] {
		r.rank[ri]++
	}
}

// Apply unions every proposal at or above the auto-merge threshold.
// Proposals below it stay surfaced for human review but do not merge.
func (r *Resolver) Apply(proposals []model.LinkageProposal, autoMergeThreshold float64) {
	for _, p := range proposals {
		if p.Confidence >= autoMergeThreshold {
			r.Union(p.EntityIDs[0], p.EntityIDs[1])
		}
	}
}

// Groups returns the induced partition. Group order follows the first-seen
// record of each set, and members keep input order, so repeated runs over
// the same input produce the same partition.
func (r *Resolver) Groups() [][]model.EntityRecord {
	byRoot := make(map[int][]model.EntityRecord, len(r.record))
	var roots []int
	for i, rec := range r.record {
		root := r.find(i)
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], rec)
	}

	groups := make([][]model.EntityRecord, 0, len(roots))
	for _, root := range roots {
		groups = append(groups, byRoot[root])
	}
	return groups
}
