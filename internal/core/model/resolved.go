package model

// ResolvedEntity is the canonical entity a cluster of records collapses into.
type ResolvedEntity struct {
	ID            string     `json:"id"`
	CanonicalName string     `json:"canonical_name"`
	Type          EntityType `json:"type"`
	Role          string     `json:"role,omitempty"`
	Aliases       []string   `json:"aliases"`
	Mentions      []Mention  `json:"mentions"`
	Confidence    float64    `json:"confidence"`
	// SourceRecords lists the ids of the entity records absorbed into this
	// entity, in input order. Lets downstream consumers tie linkage
	// proposals (which reference record ids) back to resolved nodes.
	SourceRecords []string `json:"source_records"`
}

// ResolutionSummary is the per-case rollup consumed by the graph UI.
type ResolutionSummary struct {
	TotalEntities          int `json:"total_entities"`
	PeopleCount            int `json:"people_count"`
	ProfessionalCount      int `json:"professional_count"`
	OrganizationCount      int `json:"organization_count"`
	CourtCount             int `json:"court_count"`
	LinkagesIdentified     int `json:"linkages_identified"`
	HighConfidenceLinkages int `json:"high_confidence_linkages"`
}

// Resolution is the full output of one resolve pass over a case.
type Resolution struct {
	CaseID   string            `json:"case_id"`
	Entities []ResolvedEntity  `json:"entities"`
	Linkages []LinkageProposal `json:"linkages"`
	Summary  ResolutionSummary `json:"summary"`
}
