package rag

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"hr-assistant-be/pkg/llm"
)

type fakeRetriever struct {
	documents []Document
	err       error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	return f.documents, f.err
}

type fakeLLM struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	for _, m := range history {
		if m.Role == "system" {
			f.lastSystem = m.Content
		} else {
			f.lastPrompt = m.Content
		}
	}
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func TestAnswerUsesRetrievedDocuments(t *testing.T) {
	retriever := &fakeRetriever{documents: []Document{
		{ID: "1", Title: "Leave Policy", Content: "Leave requests need manager approval.", Score: 0.91},
	}}
	model := &fakeLLM{response: "Leave requests need your manager's approval."}
	p := NewPipeline(retriever, model, 5, 8000, 0.3, testLogger())

	got := p.Answer(context.Background(), "how do I request leave?", nil)
	if got != "Leave requests need your manager's approval." {
		t.Errorf("Answer() = %q", got)
	}
	if !strings.Contains(model.lastPrompt, "Leave Policy") {
		t.Errorf("document title missing from prompt: %s", model.lastPrompt)
	}
	if !strings.Contains(model.lastPrompt, "manager approval") {
		t.Errorf("document content missing from prompt: %s", model.lastPrompt)
	}
}

func TestAnswerEmptyCorpusUsesNoContextPath(t *testing.T) {
	model := &fakeLLM{response: "I don't have documents covering that, sorry."}
	p := NewPipeline(&fakeRetriever{}, model, 5, 8000, 0.3, testLogger())

	got := p.Answer(context.Background(), "what is the dress code on Mars?", nil)
	if got != "I don't have documents covering that, sorry." {
		t.Errorf("Answer() = %q", got)
	}
	if !strings.Contains(model.lastSystem, "found nothing relevant") {
		t.Errorf("no-context system prompt not used: %s", model.lastSystem)
	}
}

func TestAnswerRetrievalErrorTreatedAsEmpty(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("embedding service down")}
	model := &fakeLLM{response: "fallback reply"}
	p := NewPipeline(retriever, model, 5, 8000, 0.3, testLogger())

	if got := p.Answer(context.Background(), "any question", nil); got != "fallback reply" {
		t.Errorf("Answer() = %q", got)
	}
}

func TestAnswerModelFailureWithDocuments(t *testing.T) {
	retriever := &fakeRetriever{documents: []Document{{Title: "T", Content: "C"}}}
	p := NewPipeline(retriever, &fakeLLM{err: fmt.Errorf("down")}, 5, 8000, 0.3, testLogger())

	if got := p.Answer(context.Background(), "q", nil); got != ComposeFailedFallback {
		t.Errorf("Answer() = %q", got)
	}
}

func TestAnswerModelFailureWithoutDocuments(t *testing.T) {
	p := NewPipeline(&fakeRetriever{}, &fakeLLM{err: fmt.Errorf("down")}, 5, 8000, 0.3, testLogger())

	if got := p.Answer(context.Background(), "q", nil); got != NoAnswerFallback {
		t.Errorf("Answer() = %q", got)
	}
}

func TestBuildPromptRespectsContextBudget(t *testing.T) {
	retriever := &fakeRetriever{documents: []Document{
		{Title: "Big", Content: strings.Repeat("x", 500)},
		{Title: "Dropped", Content: strings.Repeat("y", 500)},
	}}
	model := &fakeLLM{response: "ok"}
	p := NewPipeline(retriever, model, 5, 300, 0.3, testLogger())

	p.Answer(context.Background(), "q", nil)
	if strings.Contains(model.lastPrompt, "yyy") {
		t.Error("second document should have been dropped by the budget")
	}
	if len(model.lastPrompt) > 500 {
		t.Errorf("prompt too large: %d chars", len(model.lastPrompt))
	}
}
