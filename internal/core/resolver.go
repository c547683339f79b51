package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/caseintel/resolver/internal/config"
	"github.com/caseintel/resolver/internal/core/cluster"
	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/linkage"
	"github.com/caseintel/resolver/internal/core/match"
	"github.com/caseintel/resolver/internal/core/merge"
	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/driver"
)

// Resolver wires the resolution pipeline: proposal generation, union-find
// clustering, and merging. It holds no state across calls; Resolve is a
// synchronous batch computation with no I/O, so concurrent calls with
// disjoint inputs are safe.
type Resolver struct {
	Driver             driver.GraphDriver
	Generator          *linkage.Generator
	Merger             *merge.Engine
	AutoMergeThreshold float64
	ConfirmThreshold   float64
}

func NewResolver(d driver.GraphDriver, cfg *config.Config, ids ident.Generator) *Resolver {
	matcher := match.Options{
		MinConfidence:     cfg.Matching.MinConfidence,
		AllowPartialMatch: cfg.Matching.AllowPartialMatch,
		MaxEditDistance:   cfg.Matching.MaxEditDistance,
	}

	return &Resolver{
		Driver:             d,
		Generator:          linkage.NewGenerator(matcher, cfg.Thresholds.Propose, cfg.Thresholds.Confirm, ids),
		Merger:             merge.NewEngine(ids),
		AutoMergeThreshold: cfg.Thresholds.AutoMerge,
		ConfirmThreshold:   cfg.Thresholds.Confirm,
	}
}

// Resolve runs the full pipeline over one case's entity records. Malformed
// records are dropped and logged; an empty or fully-dropped input yields an
// empty result, never an error.
func (r *Resolver) Resolve(caseID string, records []model.EntityRecord) *model.Resolution {
	valid := r.ingest(records)

	proposals := r.Generator.Generate(valid)

	sets := cluster.New(valid)
	sets.Apply(proposals, r.AutoMergeThreshold)

	entities := []model.ResolvedEntity{}
	for _, group := range sets.Groups() {
		entities = append(entities, r.Merger.MergeGroup(group))
	}

	return &model.Resolution{
		CaseID:   caseID,
		Entities: entities,
		Linkages: proposals,
		Summary:  summarize(entities, proposals, r.ConfirmThreshold),
	}
}

// ingest drops records the matcher cannot work with: unrecognized types,
// blank names, empty mention lists.
func (r *Resolver) ingest(records []model.EntityRecord) []model.EntityRecord {
	valid := make([]model.EntityRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := model.ParseEntityType(string(rec.Type)); !ok {
			log.Printf("Dropping record %s: unsupported entity type %q", rec.ID, rec.Type)
			continue
		}
		if strings.TrimSpace(rec.CanonicalName) == "" {
			log.Printf("Dropping record %s: empty canonical name", rec.ID)
			continue
		}
		if len(rec.Mentions) == 0 {
			log.Printf("Dropping record %s: no mentions", rec.ID)
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}

func summarize(entities []model.ResolvedEntity, proposals []model.LinkageProposal, confirmThreshold float64) model.ResolutionSummary {
	s := model.ResolutionSummary{
		TotalEntities:      len(entities),
		LinkagesIdentified: len(proposals),
	}
	for _, e := range entities {
		switch e.Type {
		case model.TypePerson:
			s.PeopleCount++
		case model.TypeProfessional:
			s.ProfessionalCount++
		case model.TypeOrganization:
			s.OrganizationCount++
		case model.TypeCourt:
			s.CourtCount++
		}
	}
	for _, p := range proposals {
		if p.Confidence >= confirmThreshold {
			s.HighConfidenceLinkages++
		}
	}
	return s
}

// PersistResolution writes resolved entities and their linkages to the graph
// store for the rendering layer. Entity nodes are tagged with the case id;
// linkage edges carry confidence, algorithm and status.
func (r *Resolver) PersistResolution(ctx context.Context, res *model.Resolution) error {
	if r.Driver == nil {
		return nil
	}

	// Maps source record ids onto the resolved entity that absorbed them so
	// linkage edges connect resolved nodes, not raw records.
	recordToEntity := make(map[string]string)

	for _, e := range res.Entities {
		for _, recordID := range e.SourceRecords {
			recordToEntity[recordID] = e.ID
		}

		params := map[string]interface{}{
			"uuid":       e.ID,
			"case_id":    res.CaseID,
			"name":       e.CanonicalName,
			"type":       string(e.Type),
			"role":       e.Role,
			"aliases":    e.Aliases,
			"mentions":   len(e.Mentions),
			"confidence": e.Confidence,
		}
		if _, err := r.Driver.ExecuteQuery(ctx, driver.SaveResolvedEntityQuery, params); err != nil {
			return fmt.Errorf("failed to save entity %s: %w", e.CanonicalName, err)
		}
	}

	for _, p := range res.Linkages {
		source, target := recordToEntity[p.EntityIDs[0]], recordToEntity[p.EntityIDs[1]]
		if source == "" || target == "" || source == target {
			// Auto-merged pairs collapsed into one node; nothing to link.
			continue
		}

		params := map[string]interface{}{
			"uuid":        p.ID,
			"case_id":     res.CaseID,
			"source_uuid": source,
			"target_uuid": target,
			"confidence":  p.Confidence,
			"algorithm":   string(p.Algorithm),
			"status":      string(p.Status),
		}
		if _, err := r.Driver.ExecuteQuery(ctx, driver.SaveLinkageQuery, params); err != nil {
			log.Printf("Failed to save linkage %s <-> %s: %v", p.Entity1Name, p.Entity2Name, err)
		}
	}

	return nil
}

// BuildIndices prepares the graph store's indices.
func (r *Resolver) BuildIndices(ctx context.Context) error {
	if r.Driver == nil {
		return nil
	}
	return r.Driver.BuildIndices(ctx)
}
