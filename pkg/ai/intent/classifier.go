package intent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/store"
)

// Intent is the routing label for a question.
type Intent string

const (
	IntentDatabaseQuery Intent = "DATABASE_QUERY"
	IntentRAGQuery      Intent = "RAG_QUERY"
	IntentGeneralChat   Intent = "GENERAL_CHAT"
)

// historyExcerptTurns bounds the history passed to the model tier.
const historyExcerptTurns = 10

var greetingRe = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|yo|good\s+(morning|afternoon|evening)|how\s+are\s+you|what'?s\s+up|thanks|thank\s+you)\b`)

// Keyword sets for the rule tier. Matching is whole-word, case-insensitive;
// phrases match as written.
var (
	structuredKeywords = []string{
		"employee", "employees", "staff", "headcount",
		"leave", "leaves", "leave balance",
		"salary", "salaries", "payroll", "payslip", "payslips",
		"attendance", "attendances", "check in", "check out",
		"department", "departments", "designation", "designations",
		"branch", "branches", "shift", "shifts", "holiday", "holidays",
		"device", "devices", "asset", "assets", "training", "trainings",
		"activity log", "activity logs", "announcement", "announcements",
	}

	documentKeywords = []string{
		"policy", "policies", "handbook", "guideline", "guidelines",
		"procedure", "procedures", "document", "documents",
		"refund", "benefit", "benefits", "code of conduct",
		"onboarding", "faq", "regulation", "regulations",
	}

	actionVerbs = []string{
		"list", "show", "count", "how many", "find", "get",
		"give me", "display", "top", "total", "who is", "when did",
		"which", "lookup",
	}
)

// Classifier maps a question (plus recent history) to an Intent. The rule
// tier is deterministic and runs first; the model tier is consulted only
// when rules are inconclusive, and its output is allow-list checked.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify never fails: model errors fall back to the deterministic policy
// (structured keyword present forces DATABASE_QUERY, otherwise RAG_QUERY,
// since a read-only document search is the safe default when unsure).
func (c *Classifier) Classify(ctx context.Context, question string, history []store.Turn) Intent {
	if intent, decided := classifyByRules(question); decided {
		c.logger.Printf("[INTENT] Rule tier: %s", intent)
		return intent
	}

	label, err := c.llmProvider.Generate(ctx, c.buildPrompt(question, history), llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[INTENT] Model tier failed, using fallback: %v", err)
		return fallbackIntent(question)
	}

	switch Intent(strings.ToUpper(strings.TrimSpace(label))) {
	case IntentDatabaseQuery:
		return IntentDatabaseQuery
	case IntentRAGQuery:
		return IntentRAGQuery
	case IntentGeneralChat:
		return IntentGeneralChat
	default:
		c.logger.Printf("[INTENT] Model returned unusable label %q, using fallback", label)
		return fallbackIntent(question)
	}
}

// classifyByRules applies the deterministic tier. The bool result reports
// whether the rules were conclusive.
func classifyByRules(question string) (Intent, bool) {
	if greetingRe.MatchString(question) {
		// Greetings win even when data keywords co-occur
		return IntentGeneralChat, true
	}

	hasStructured := containsAny(question, structuredKeywords)
	hasDocument := containsAny(question, documentKeywords)
	hasAction := containsAny(question, actionVerbs)

	switch {
	case hasAction && hasStructured:
		return IntentDatabaseQuery, true
	case hasAction && hasDocument && !hasStructured:
		return IntentRAGQuery, true
	case hasStructured && !hasDocument:
		return IntentDatabaseQuery, true
	case hasDocument && !hasStructured:
		return IntentRAGQuery, true
	}

	return "", false
}

func fallbackIntent(question string) Intent {
	if containsAny(question, structuredKeywords) {
		return IntentDatabaseQuery
	}
	return IntentRAGQuery
}

func (c *Classifier) buildPrompt(question string, history []store.Turn) string {
	var b strings.Builder
	b.WriteString(constant.IntentClassifierSystemPrompt)
	b.WriteString("\n\n")

	recent := recentTurns(history, historyExcerptTurns)
	if len(recent) > 0 {
		b.WriteString("Recent conversation (newest first):\n")
		for _, turn := range recent {
			b.WriteString(fmt.Sprintf("- %s: %s\n", turn.Role, turn.Content))
		}
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nLabel:")
	return b.String()
}

func recentTurns(history []store.Turn, n int) []store.Turn {
	if len(history) == 0 {
		return nil
	}
	if n > len(history) {
		n = len(history)
	}
	out := make([]store.Turn, 0, n)
	for i := len(history) - 1; i >= len(history)-n; i-- {
		out = append(out, history[i])
	}
	return out
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9']+`)

// containsAny does whole-word matching: the question is normalized to
// space-separated lowercase tokens, then each keyword (or phrase) is looked
// up with surrounding spaces so "get" never matches "budget".
func containsAny(question string, keywords []string) bool {
	normalized := " " + nonWordRe.ReplaceAllString(strings.ToLower(question), " ") + " "
	for _, kw := range keywords {
		if strings.Contains(normalized, " "+kw+" ") {
			return true
		}
	}
	return false
}
