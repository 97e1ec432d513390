package rag

import "context"

// Document is one retrieved corpus entry with its similarity score
// (cosine, higher is closer).
type Document struct {
	ID      string
	Title   string
	Content string
	Score   float64
}

// Retriever finds corpus documents relevant to a query. An empty result is
// not an error; implementations return errors only for infrastructure
// failures (embedding service down, database unreachable).
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)
}
