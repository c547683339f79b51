// Package extraction turns raw document text into entity records, the
// input of the resolution pipeline, using an LLM.
package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/caseintel/resolver/internal/core/common"
	"github.com/caseintel/resolver/internal/core/ident"
	"github.com/caseintel/resolver/internal/core/model"
	"github.com/caseintel/resolver/internal/llm"
)

type Extractor struct {
	LLM    llm.Client
	Prompt string
	IDs    ident.Generator
}

func NewExtractor(client llm.Client, prompt string, ids ident.Generator) *Extractor {
	return &Extractor{
		LLM:    client,
		Prompt: prompt,
		IDs:    ids,
	}
}

// ExtractEntities prompts the LLM over one document's text and converts the
// response into entity records. Entities with an unrecognized type or a
// blank name are dropped and logged, mirroring the resolver's ingestion
// rules.
func (e *Extractor) ExtractEntities(ctx context.Context, documentID, content string) ([]model.EntityRecord, error) {
	prompt := fmt.Sprintf(e.Prompt, documentID, content)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entities: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedEntities](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extracted entities: %w", err)
	}

	records := make([]model.EntityRecord, 0, len(result.Entities))
	for _, ent := range result.Entities {
		rec, ok := e.toRecord(documentID, ent)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *Extractor) toRecord(documentID string, ent model.ExtractedEntity) (model.EntityRecord, bool) {
	name := strings.TrimSpace(ent.Name)
	if name == "" {
		log.Printf("Skipping extracted entity with empty name in document %s", documentID)
		return model.EntityRecord{}, false
	}

	entityType, ok := model.ParseEntityType(strings.ToLower(strings.TrimSpace(ent.Type)))
	if !ok {
		log.Printf("Skipping extracted entity %q: unsupported type %q", ent.Name, ent.Type)
		return model.EntityRecord{}, false
	}

	mentions := make([]model.Mention, 0, len(ent.Mentions))
	for _, m := range ent.Mentions {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		mentions = append(mentions, model.Mention{
			DocumentID: documentID,
			Text:       m.Text,
			Context:    m.Context,
		})
	}
	if len(mentions) == 0 {
		// The model sometimes omits mention spans; the name itself is still
		// a usable mention.
		mentions = append(mentions, model.Mention{DocumentID: documentID, Text: name})
	}

	return model.EntityRecord{
		ID:            e.IDs.NewID(),
		Type:          entityType,
		CanonicalName: name,
		Role:          strings.TrimSpace(ent.Role),
		Aliases:       ent.Aliases,
		Mentions:      mentions,
		Confidence:    min(1, max(0, ent.Confidence)),
	}, true
}
