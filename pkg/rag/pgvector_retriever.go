package rag

import (
	"context"
	"fmt"

	"hr-assistant-be/internal/model"
	"hr-assistant-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// PgvectorRetriever searches the document_embeddings table by cosine
// distance. Query vectors are normalized by the embedding provider, so the
// <=> operator orders by true cosine similarity.
type PgvectorRetriever struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
}

var _ Retriever = &PgvectorRetriever{}

func NewPgvectorRetriever(db *gorm.DB, embedder embedding.EmbeddingProvider) *PgvectorRetriever {
	return &PgvectorRetriever{
		db:       db,
		embedder: embedder,
	}
}

func (r *PgvectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	if topK <= 0 {
		topK = 5
	}

	vector, err := r.embedder.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scoredRow struct {
		model.DocumentEmbedding
		Similarity float64
	}
	var rows []scoredRow

	queryVector := pgvector.NewVector(vector)
	err = r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(topK).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	documents := make([]Document, len(rows))
	for i, row := range rows {
		documents[i] = Document{
			ID:      row.Id.String(),
			Title:   row.Title,
			Content: row.Document,
			Score:   row.Similarity,
		}
	}
	return documents, nil
}
