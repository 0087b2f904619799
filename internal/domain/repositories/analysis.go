package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Annotator performs statistical text analysis (key phrases and sentiment)
type Annotator interface {
	Annotate(ctx context.Context, text string) (entities.Annotation, error)
}

// GenerativeAnalyzer sends a prompt to a language model and returns its raw
// text answer.
type GenerativeAnalyzer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
