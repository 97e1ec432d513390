package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/store"
)

const (
	// NoAnswerFallback is returned when the corpus has nothing relevant and
	// the model cannot even produce the honest-refusal reply.
	NoAnswerFallback = "I couldn't find anything in the company documents that covers this. You may want to check with HR directly."

	// ComposeFailedFallback is returned when documents were found but the
	// answer model call failed.
	ComposeFailedFallback = "I found relevant company documents but couldn't put together an answer just now. Please try again in a moment."
)

// Pipeline is the retrieve-then-complete document answering flow. Retrieval
// failures are treated as an empty corpus rather than request failures, so
// Answer never returns an error.
type Pipeline struct {
	retriever       Retriever
	llmProvider     llm.LLMProvider
	topK            int
	maxContextChars int
	answerTemp      float64
	logger          *log.Logger
}

func NewPipeline(retriever Retriever, llmProvider llm.LLMProvider, topK, maxContextChars int, answerTemp float64, logger *log.Logger) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	if maxContextChars <= 0 {
		maxContextChars = 8000
	}
	return &Pipeline{
		retriever:       retriever,
		llmProvider:     llmProvider,
		topK:            topK,
		maxContextChars: maxContextChars,
		answerTemp:      answerTemp,
		logger:          logger,
	}
}

// Answer produces the answer body for a document question. The provenance
// prefix is owned by the caller.
func (p *Pipeline) Answer(ctx context.Context, question string, history []store.Turn) string {
	documents, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		p.logger.Printf("[RAG] Retrieval failed, answering without context: %v", err)
		documents = nil
	}

	if len(documents) == 0 {
		return p.answerWithoutContext(ctx, question)
	}

	reply, err := p.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.RAGAnswerSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: p.buildPrompt(question, documents)},
	}, llm.WithTemperature(p.answerTemp))
	if err != nil {
		p.logger.Printf("[RAG] Answer model call failed: %v", err)
		return ComposeFailedFallback
	}
	return strings.TrimSpace(reply)
}

func (p *Pipeline) answerWithoutContext(ctx context.Context, question string) string {
	reply, err := p.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.RAGNoContextSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: question},
	}, llm.WithTemperature(p.answerTemp))
	if err != nil {
		p.logger.Printf("[RAG] No-context model call failed: %v", err)
		return NoAnswerFallback
	}
	return strings.TrimSpace(reply)
}

func (p *Pipeline) buildPrompt(question string, documents []Document) string {
	var b strings.Builder
	b.WriteString("Document excerpts:\n")

	budget := p.maxContextChars
	for i, doc := range documents {
		excerpt := doc.Content
		if len(excerpt) > budget {
			excerpt = excerpt[:budget]
		}
		b.WriteString(fmt.Sprintf("[%d] %s\n%s\n\n", i+1, doc.Title, excerpt))
		budget -= len(excerpt)
		if budget <= 0 {
			break
		}
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
