package model

// LinkageStatus is assigned once at proposal creation from the confidence
// thresholds and never mutated afterward. Human review happens downstream.
type LinkageStatus string

const (
	StatusPending   LinkageStatus = "pending"
	StatusConfirmed LinkageStatus = "confirmed"
	StatusRejected  LinkageStatus = "rejected"
)

// LinkageProposal is a candidate pairwise match between two entity records.
type LinkageProposal struct {
	ID          string        `json:"id"`
	Entity1Name string        `json:"entity1_name"`
	Entity2Name string        `json:"entity2_name"`
	Confidence  float64       `json:"confidence"`
	Algorithm   Algorithm     `json:"algorithm"`
	Status      LinkageStatus `json:"status"`
	EntityIDs   [2]string     `json:"entity_ids"`
}
