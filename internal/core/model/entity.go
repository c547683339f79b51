package model

// EntityType classifies an extracted entity. Matching is only ever attempted
// between records sharing a type, and merging never changes it.
type EntityType string

const (
	TypePerson       EntityType = "person"
	TypeOrganization EntityType = "organization"
	TypeProfessional EntityType = "professional"
	TypeCourt        EntityType = "court"
)

// ParseEntityType validates a raw type string. Records with an unrecognized
// type are dropped at ingestion rather than crashing the matcher.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case TypePerson, TypeOrganization, TypeProfessional, TypeCourt:
		return EntityType(s), true
	}
	return "", false
}

// Mention is one occurrence of an entity's name inside a source document.
type Mention struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Context    string `json:"context,omitempty"`
}

// EntityRecord is one extracted mention-cluster for a name, as produced by
// the upstream extractor. Immutable once produced; the resolution pipeline
// reads it and never writes back.
type EntityRecord struct {
	ID            string     `json:"id"`
	Type          EntityType `json:"type"`
	CanonicalName string     `json:"canonical_name"`
	Role          string     `json:"role,omitempty"`
	Aliases       []string   `json:"aliases,omitempty"`
	Mentions      []Mention  `json:"mentions"`
	Confidence    float64    `json:"confidence"`
}
