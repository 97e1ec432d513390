package router

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/ai/intent"
	"hr-assistant-be/pkg/sqlgen"
	"hr-assistant-be/pkg/store"
)

// SessionStore is the slice of session persistence the router needs. The
// repository layer adds Delete and TTL concerns on top.
type SessionStore interface {
	Get(ctx context.Context, id string) (*store.Session, bool)
	Save(ctx context.Context, session *store.Session) error
}

// IntentClassifier labels a question. Implementations never fail.
type IntentClassifier interface {
	Classify(ctx context.Context, question string, history []store.Turn) intent.Intent
}

// SQLGenerator turns a natural-language question into SQL plus named args.
type SQLGenerator interface {
	Generate(ctx context.Context, question string) (*sqlgen.Generated, error)
}

// QueryExecutor runs validated SQL on the read-only pool.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlText string, args map[string]any) ([]map[string]any, error)
}

// RowEnricher resolves identifier columns into human-readable fields.
type RowEnricher interface {
	Enrich(ctx context.Context, rows []map[string]any) []map[string]any
}

// AnswerFormatter produces the natural-language answer body from rows.
type AnswerFormatter interface {
	Format(ctx context.Context, question, sqlText string, rows []map[string]any) string
}

// DocumentAnswerer answers a question from the document corpus. It owns its
// internal no-context and model-failure fallbacks and never fails.
type DocumentAnswerer interface {
	Answer(ctx context.Context, question string, history []store.Turn) string
}

// AnswerRecord is the audit payload published after every answered turn.
type AnswerRecord struct {
	SessionID  string `json:"session_id"`
	Question   string `json:"question"`
	Intent     string `json:"intent"`
	Source     string `json:"source"`
	SQL        string `json:"sql,omitempty"`
	RowCount   int    `json:"row_count"`
	DurationMs int64  `json:"duration_ms"`
}

// AnswerPublisher receives audit records; publishing is best-effort.
type AnswerPublisher interface {
	PublishAnswerRecorded(ctx context.Context, record AnswerRecord) error
}

// Result is the outcome of one answered turn.
type Result struct {
	SessionID string
	Answer    string
	Intent    intent.Intent
	Source    string
	SQL       string
	Rows      []map[string]any
}

// Router is the session-aware dispatcher. Every question runs the same path:
// pagination short-circuit, then intent classification, then the matching
// pipeline. Each turn appends exactly one user and one assistant entry to
// the session history, whatever the outcome.
type Router struct {
	sessions   SessionStore
	classifier IntentClassifier
	resolver   *ReferenceResolver
	generator  SQLGenerator
	gate       *sqlgen.Gate
	executor   QueryExecutor
	enricher   RowEnricher
	formatter  AnswerFormatter
	documents  DocumentAnswerer
	publisher  AnswerPublisher
	logger     *log.Logger
}

func NewRouter(
	sessions SessionStore,
	classifier IntentClassifier,
	generator SQLGenerator,
	gate *sqlgen.Gate,
	executor QueryExecutor,
	enricher RowEnricher,
	formatter AnswerFormatter,
	documents DocumentAnswerer,
	publisher AnswerPublisher,
	logger *log.Logger,
) *Router {
	return &Router{
		sessions:   sessions,
		classifier: classifier,
		resolver:   NewReferenceResolver(),
		generator:  generator,
		gate:       gate,
		executor:   executor,
		enricher:   enricher,
		formatter:  formatter,
		documents:  documents,
		publisher:  publisher,
		logger:     logger,
	}
}

// Ask answers one question inside the given session.
func (r *Router) Ask(ctx context.Context, sessionID, question string) (*Result, error) {
	start := time.Now()

	question = strings.TrimSpace(question)

	// 1. Load or create the session
	session, found := r.sessions.Get(ctx, sessionID)
	if !found {
		session = store.NewSession(sessionID)
	}
	session.AppendHistory(store.RoleUser, question)

	// 2. Pagination commands bypass classification entirely
	var result *Result
	if question == "" {
		result = r.handleGeneralChat(question)
	} else if direction := DetectPaginationDirection(question); direction != "" {
		result = r.handlePagination(ctx, session, direction)
	} else {
		// 3. Classify and dispatch
		label := r.classifier.Classify(ctx, question, session.History)
		switch label {
		case intent.IntentDatabaseQuery:
			result = r.handleDatabaseQuery(ctx, session, question)
		case intent.IntentRAGQuery:
			result = r.handleDocumentQuery(ctx, session, question)
		default:
			result = r.handleGeneralChat(question)
		}
	}
	result.SessionID = session.ID

	// 4. Record the assistant turn and persist the session
	session.AppendHistory(store.RoleAssistant, result.Answer)
	if err := r.sessions.Save(ctx, session); err != nil {
		r.logger.Printf("[ROUTER] session save failed for %s: %v", session.ID, err)
	}

	r.publishRecord(ctx, question, result, time.Since(start))
	return result, nil
}

func (r *Router) handleDatabaseQuery(ctx context.Context, session *store.Session, question string) *Result {
	resolved := r.resolver.Resolve(question, session.History)
	if resolved != question {
		r.logger.Printf("[ROUTER] Resolved follow-up reference: %q", resolved)
	}

	generated, err := r.generator.Generate(ctx, resolved)
	if err != nil {
		r.logger.Printf("[ROUTER] SQL generation failed: %v", err)
		return &Result{Answer: constant.SQLGenerationFailedMessage, Intent: intent.IntentDatabaseQuery, Source: constant.AnswerSourceDatabase}
	}

	gated, limit, err := r.gate.Check(generated.SQL)
	if err != nil {
		r.logger.Printf("[ROUTER] Generated SQL rejected: %v (sql: %s)", err, generated.SQL)
		return &Result{Answer: constant.SQLGenerationFailedMessage, Intent: intent.IntentDatabaseQuery, Source: constant.AnswerSourceDatabase}
	}

	rows, err := r.executor.Execute(ctx, gated, generated.Args)
	if err != nil {
		r.logger.Printf("[ROUTER] SQL execution failed: %v", err)
		return &Result{Answer: constant.SQLExecutionFailedMessage, Intent: intent.IntentDatabaseQuery, Source: constant.AnswerSourceDatabase}
	}

	rows = r.enricher.Enrich(ctx, rows)
	body := r.formatter.Format(ctx, resolved, gated, rows)

	// Aggregates (limit 0) are single-valued and never paginate, so the
	// previous window, if any, stays reusable.
	if limit > 0 {
		session.LastDatabaseQuery = &store.QueryDescriptor{
			SQL:              gated,
			Args:             generated.Args,
			OriginalQuestion: resolved,
			Offset:           0,
			Limit:            limit,
		}
	}

	return &Result{
		Answer: constant.DatabaseAnswerPrefix + body,
		Intent: intent.IntentDatabaseQuery,
		Source: constant.AnswerSourceDatabase,
		SQL:    gated,
		Rows:   rows,
	}
}

func (r *Router) handlePagination(ctx context.Context, session *store.Session, direction string) *Result {
	descriptor := session.LastDatabaseQuery
	if descriptor == nil {
		return &Result{Answer: constant.NoPaginationContextMessage, Intent: intent.IntentGeneralChat, Source: constant.AnswerSourceGeneral}
	}

	offset := descriptor.Offset + descriptor.Limit
	if direction == DirectionPrevious {
		offset = descriptor.Offset - descriptor.Limit
		if offset < 0 {
			offset = 0
		}
	}

	windowed := sqlgen.ApplyLimitOffset(descriptor.SQL, descriptor.Limit, offset)

	rows, err := r.executor.Execute(ctx, windowed, descriptor.Args)
	if err != nil {
		// Descriptor stays on the old window so the command can be retried
		r.logger.Printf("[ROUTER] Paginated execution failed: %v", err)
		return &Result{Answer: constant.SQLExecutionFailedMessage, Intent: intent.IntentDatabaseQuery, Source: constant.AnswerSourceDatabase}
	}

	rows = r.enricher.Enrich(ctx, rows)
	body := r.formatter.Format(ctx, descriptor.OriginalQuestion, windowed, rows)

	descriptor.SQL = windowed
	descriptor.Offset = offset

	return &Result{
		Answer: constant.DatabaseAnswerPrefix + body,
		Intent: intent.IntentDatabaseQuery,
		Source: constant.AnswerSourceDatabase,
		SQL:    windowed,
		Rows:   rows,
	}
}

func (r *Router) handleDocumentQuery(ctx context.Context, session *store.Session, question string) *Result {
	body := r.documents.Answer(ctx, question, session.History)
	return &Result{
		Answer: constant.RAGAnswerPrefix + body,
		Intent: intent.IntentRAGQuery,
		Source: constant.AnswerSourceRAG,
	}
}

func (r *Router) handleGeneralChat(question string) *Result {
	body := "Please type a question and I'll do my best to help."
	if question != "" {
		body = fmt.Sprintf("You asked %q. I'm the HR assistant. I can look up employees, leaves, attendance, payroll and more from the live database, or answer questions from the company documents.", question)
	}
	return &Result{
		Answer: constant.GeneralAnswerPrefix + body,
		Intent: intent.IntentGeneralChat,
		Source: constant.AnswerSourceGeneral,
	}
}

func (r *Router) publishRecord(ctx context.Context, question string, result *Result, elapsed time.Duration) {
	if r.publisher == nil {
		return
	}
	record := AnswerRecord{
		SessionID:  result.SessionID,
		Question:   question,
		Intent:     string(result.Intent),
		Source:     result.Source,
		SQL:        result.SQL,
		RowCount:   len(result.Rows),
		DurationMs: elapsed.Milliseconds(),
	}
	if err := r.publisher.PublishAnswerRecorded(ctx, record); err != nil {
		r.logger.Printf("[ROUTER] Audit publish failed: %v", err)
	}
}
