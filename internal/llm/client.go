package llm

import (
	"context"
)

// Client generates a completion for a single prompt. The extraction stage is
// the only consumer; it feeds document text in and expects JSON back.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
