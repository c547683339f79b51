package model

// Wire shapes for the LLM extraction response.

type ExtractedMention struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

type ExtractedEntity struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Role       string             `json:"role,omitempty"`
	Aliases    []string           `json:"aliases,omitempty"`
	Mentions   []ExtractedMention `json:"mentions,omitempty"`
	Confidence float64            `json:"confidence"`
}

type ExtractedEntities struct {
	Entities []ExtractedEntity `json:"entities"`
}
