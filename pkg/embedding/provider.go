package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Vectors are normalized so pgvector cosine distance behaves correctly.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
