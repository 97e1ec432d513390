package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/llm"
)

// Formatter re-shapes raw (enriched) rows into a natural-language answer.
// Zero-row results get a deterministic no-records message; model failures
// degrade to a deterministic row-count summary. Formatting never errors out
// the request.
type Formatter struct {
	llmProvider     llm.LLMProvider
	answerTemp      float64
	maxContextChars int
	logger          *log.Logger
}

func NewFormatter(llmProvider llm.LLMProvider, answerTemp float64, maxContextChars int, logger *log.Logger) *Formatter {
	if maxContextChars <= 0 {
		maxContextChars = 8000
	}
	return &Formatter{
		llmProvider:     llmProvider,
		answerTemp:      answerTemp,
		maxContextChars: maxContextChars,
		logger:          logger,
	}
}

// Format produces the answer body (without the provenance prefix, which the
// router owns).
func (f *Formatter) Format(ctx context.Context, question, sqlText string, rows []map[string]any) string {
	if len(rows) == 0 {
		return constant.NoMatchingRecordsMessage
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		f.logger.Printf("[FORMAT] rows marshal failed: %v", err)
		return f.fallbackSummary(rows)
	}
	payload := string(rowsJSON)
	if len(payload) > f.maxContextChars {
		payload = payload[:f.maxContextChars]
	}

	userPrompt := fmt.Sprintf("Question: %s\n\nSQL executed: %s\n\nResult rows (JSON):\n%s", question, sqlText, payload)

	reply, err := f.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.AnswerFormatterSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: userPrompt},
	}, llm.WithTemperature(f.answerTemp))
	if err != nil {
		f.logger.Printf("[FORMAT] model call failed: %v", err)
		return f.fallbackSummary(rows)
	}

	return reply
}

func (f *Formatter) fallbackSummary(rows []map[string]any) string {
	if len(rows) == 1 {
		return "The query returned 1 matching record from the HR database."
	}
	return fmt.Sprintf("The query returned %d matching records from the HR database.", len(rows))
}
