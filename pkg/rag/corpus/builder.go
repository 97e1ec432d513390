package corpus

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hr-assistant-be/internal/model"
	"hr-assistant-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
)

// SourceDocument is one denormalized text document before chunking and
// embedding.
type SourceDocument struct {
	Title       string
	Content     string
	SourceTable string
	SourceID    string
}

// Loader produces source documents from one part of the HR schema.
type Loader interface {
	Name() string
	Load(ctx context.Context) ([]SourceDocument, error)
}

// Sink persists embedded chunks. The repository layer implements it on the
// application pool.
type Sink interface {
	ReplaceBySource(ctx context.Context, sourceTable string, rows []*model.DocumentEmbedding) error
}

// defaultChunkChars keeps each chunk comfortably inside the embedding
// model's context window.
const defaultChunkChars = 1200

// Builder rebuilds the document corpus: load, chunk, embed, store. One
// loader failing skips that source and continues with the rest.
type Builder struct {
	loaders    []Loader
	embedder   embedding.EmbeddingProvider
	sink       Sink
	chunkChars int
	logger     *log.Logger
}

func NewBuilder(loaders []Loader, embedder embedding.EmbeddingProvider, sink Sink, chunkChars int, logger *log.Logger) *Builder {
	if chunkChars <= 0 {
		chunkChars = defaultChunkChars
	}
	return &Builder{
		loaders:    loaders,
		embedder:   embedder,
		sink:       sink,
		chunkChars: chunkChars,
		logger:     logger,
	}
}

// Build returns the number of chunks stored across all sources.
func (b *Builder) Build(ctx context.Context) (int, error) {
	total := 0
	failed := 0

	for _, loader := range b.loaders {
		stored, err := b.buildSource(ctx, loader)
		if err != nil {
			b.logger.Printf("[CORPUS] Source %s failed, skipping: %v", loader.Name(), err)
			failed++
			continue
		}
		b.logger.Printf("[CORPUS] Source %s: %d chunks stored", loader.Name(), stored)
		total += stored
	}

	if failed == len(b.loaders) && len(b.loaders) > 0 {
		return total, fmt.Errorf("all %d corpus sources failed", failed)
	}
	return total, nil
}

func (b *Builder) buildSource(ctx context.Context, loader Loader) (int, error) {
	documents, err := loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}

	var rows []*model.DocumentEmbedding
	sourceTable := ""
	for _, doc := range documents {
		sourceTable = doc.SourceTable
		for i, chunk := range SplitChunks(doc.Content, b.chunkChars) {
			vector, err := b.embedder.Generate(ctx, chunk)
			if err != nil {
				return 0, fmt.Errorf("embed %q chunk %d: %w", doc.Title, i, err)
			}
			rows = append(rows, &model.DocumentEmbedding{
				Title:          doc.Title,
				Document:       chunk,
				SourceTable:    doc.SourceTable,
				SourceId:       doc.SourceID,
				ChunkIndex:     i,
				EmbeddingValue: pgvector.NewVector(vector),
			})
		}
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if err := b.sink.ReplaceBySource(ctx, sourceTable, rows); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	return len(rows), nil
}

// SplitChunks breaks content on paragraph boundaries, packing paragraphs
// into chunks of at most maxChars. A single oversized paragraph is split
// hard at the limit.
func SplitChunks(content string, maxChars int) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= maxChars {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		for len(paragraph) > maxChars {
			flush()
			chunks = append(chunks, paragraph[:maxChars])
			paragraph = strings.TrimSpace(paragraph[maxChars:])
		}
		if paragraph == "" {
			continue
		}

		if current.Len()+len(paragraph)+2 > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return chunks
}
