package contract

import (
	"context"

	"hr-assistant-be/internal/model"
)

// DocumentEmbeddingRepository owns the corpus table. ReplaceBySource swaps a
// source's chunks atomically so a rebuild never leaves the corpus half-empty.
type DocumentEmbeddingRepository interface {
	ReplaceBySource(ctx context.Context, sourceTable string, rows []*model.DocumentEmbedding) error
	CountBySource(ctx context.Context) (map[string]int64, error)
}
