package ports

import (
	"context"

	"github.com/baditaflorin/go_text_cleaner/internal/core/domain"
)

// Cleaner defines the interface for normalizing LLM-produced text.
type Cleaner interface {
	Clean(ctx context.Context, text string) domain.Result
}
