package router

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/ai/intent"
	"hr-assistant-be/pkg/sqlgen"
	"hr-assistant-be/pkg/store"
)

type fakeSessions struct {
	sessions map[string]*store.Session
	saveErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*store.Session{}}
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*store.Session, bool) {
	s, ok := f.sessions[id]
	return s, ok
}

func (f *fakeSessions) Save(ctx context.Context, session *store.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[session.ID] = session
	return nil
}

type fakeClassifier struct {
	label intent.Intent
}

func (f *fakeClassifier) Classify(ctx context.Context, question string, history []store.Turn) intent.Intent {
	return f.label
}

type fakeGenerator struct {
	generated *sqlgen.Generated
	err       error
}

func (f *fakeGenerator) Generate(ctx context.Context, question string) (*sqlgen.Generated, error) {
	return f.generated, f.err
}

type fakeExecutor struct {
	rows    []map[string]any
	err     error
	lastSQL string
	calls   int
}

func (f *fakeExecutor) Execute(ctx context.Context, sqlText string, args map[string]any) ([]map[string]any, error) {
	f.lastSQL = sqlText
	f.calls++
	return f.rows, f.err
}

type passthroughEnricher struct{}

func (passthroughEnricher) Enrich(ctx context.Context, rows []map[string]any) []map[string]any {
	return rows
}

type fakeFormatter struct{}

func (fakeFormatter) Format(ctx context.Context, question, sqlText string, rows []map[string]any) string {
	if len(rows) == 0 {
		return constant.NoMatchingRecordsMessage
	}
	return fmt.Sprintf("formatted %d rows", len(rows))
}

type fakeDocuments struct{ answer string }

func (f *fakeDocuments) Answer(ctx context.Context, question string, history []store.Turn) string {
	return f.answer
}

type fakePublisher struct {
	records []AnswerRecord
}

func (f *fakePublisher) PublishAnswerRecorded(ctx context.Context, record AnswerRecord) error {
	f.records = append(f.records, record)
	return nil
}

type fixture struct {
	router    *Router
	sessions  *fakeSessions
	executor  *fakeExecutor
	publisher *fakePublisher
}

func newFixture(label intent.Intent, gen *fakeGenerator, exec *fakeExecutor) *fixture {
	sessions := newFakeSessions()
	publisher := &fakePublisher{}
	logger := log.New(os.Stderr, "", 0)
	r := NewRouter(
		sessions,
		&fakeClassifier{label: label},
		gen,
		sqlgen.NewGate(constant.AllowedTables),
		exec,
		passthroughEnricher{},
		fakeFormatter{},
		&fakeDocuments{answer: "Per the handbook, leave requests need manager approval."},
		publisher,
		logger,
	)
	return &fixture{router: r, sessions: sessions, executor: exec, publisher: publisher}
}

func TestAskDatabaseQueryHappyPath(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{
		SQL:  "SELECT lt.name, el.days FROM employee_leaves el JOIN leave_types lt ON lt.id = el.leave_type_id",
		Args: map[string]any{"name": "%Hamid%"},
	}}
	exec := &fakeExecutor{rows: []map[string]any{{"name": "Sick", "days": 7}}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, exec)

	res, err := fx.router.Ask(context.Background(), "s1", "How many sick leaves are left for Hamid?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Intent != intent.IntentDatabaseQuery || res.Source != constant.AnswerSourceDatabase {
		t.Errorf("intent/source = %s/%s", res.Intent, res.Source)
	}
	if !strings.HasPrefix(res.Answer, constant.DatabaseAnswerPrefix) {
		t.Errorf("missing database prefix: %q", res.Answer)
	}
	if !strings.Contains(res.SQL, "LIMIT 50") {
		t.Errorf("row limit not enforced: %q", res.SQL)
	}

	session := fx.sessions.sessions["s1"]
	if session == nil {
		t.Fatal("session was not saved")
	}
	if len(session.History) != 2 {
		t.Fatalf("history length = %d, want user+assistant", len(session.History))
	}
	if session.History[0].Role != store.RoleUser || session.History[1].Role != store.RoleAssistant {
		t.Error("history roles out of order")
	}

	desc := session.LastDatabaseQuery
	if desc == nil {
		t.Fatal("pagination descriptor was not recorded")
	}
	if desc.Offset != 0 || desc.Limit != 50 {
		t.Errorf("descriptor window = %d/%d, want 0/50", desc.Offset, desc.Limit)
	}
	if desc.Args["name"] != "%Hamid%" {
		t.Errorf("descriptor args lost: %v", desc.Args)
	}

	if len(fx.publisher.records) != 1 {
		t.Fatalf("published %d records, want 1", len(fx.publisher.records))
	}
	if fx.publisher.records[0].Source != constant.AnswerSourceDatabase {
		t.Errorf("audit source = %s", fx.publisher.records[0].Source)
	}
}

func TestAskPaginationWithoutContext(t *testing.T) {
	fx := newFixture(intent.IntentGeneralChat, &fakeGenerator{}, &fakeExecutor{})

	res, err := fx.router.Ask(context.Background(), "fresh", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != constant.NoPaginationContextMessage {
		t.Errorf("answer = %q", res.Answer)
	}
	if fx.executor.calls != 0 {
		t.Error("executor must not run without a stored query")
	}
	if fx.sessions.sessions["fresh"].LastDatabaseQuery != nil {
		t.Error("descriptor must stay unset")
	}
	// The exchange is still recorded
	if len(fx.sessions.sessions["fresh"].History) != 2 {
		t.Error("history must record the exchange")
	}
}

func TestAskPaginationRoundTrip(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{
		SQL:  "SELECT name FROM employees ORDER BY name",
		Args: map[string]any{},
	}}
	exec := &fakeExecutor{rows: []map[string]any{{"name": "A"}}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, exec)
	ctx := context.Background()

	if _, err := fx.router.Ask(ctx, "s2", "list all employees"); err != nil {
		t.Fatalf("seed ask: %v", err)
	}

	res, err := fx.router.Ask(ctx, "s2", "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !strings.Contains(res.SQL, "LIMIT 50 OFFSET 50") {
		t.Errorf("next window = %q", res.SQL)
	}
	if got := fx.sessions.sessions["s2"].LastDatabaseQuery.Offset; got != 50 {
		t.Errorf("offset after next = %d", got)
	}

	res, err = fx.router.Ask(ctx, "s2", "previous")
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	if !strings.Contains(res.SQL, "LIMIT 50 OFFSET 0") {
		t.Errorf("previous window = %q", res.SQL)
	}
	if got := fx.sessions.sessions["s2"].LastDatabaseQuery.Offset; got != 0 {
		t.Errorf("offset after previous = %d", got)
	}

	// previous at offset 0 clamps instead of going negative
	res, err = fx.router.Ask(ctx, "s2", "previous")
	if err != nil {
		t.Fatalf("previous at start: %v", err)
	}
	if !strings.Contains(res.SQL, "OFFSET 0") {
		t.Errorf("window went negative: %q", res.SQL)
	}
}

func TestAskGenerationFailureKeepsSessionConsistent(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("model unavailable")}
	fx := newFixture(intent.IntentDatabaseQuery, gen, &fakeExecutor{})

	res, err := fx.router.Ask(context.Background(), "s3", "something unanswerable about employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != constant.SQLGenerationFailedMessage {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.SQL != "" {
		t.Errorf("sql must be empty on generation failure, got %q", res.SQL)
	}
	if len(fx.sessions.sessions["s3"].History) != 2 {
		t.Error("failed turns still append user and assistant entries")
	}
}

func TestAskUnsafeGeneratedSQLRejected(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{SQL: "DELETE FROM employees"}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, &fakeExecutor{})

	res, err := fx.router.Ask(context.Background(), "s4", "remove all employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != constant.SQLGenerationFailedMessage {
		t.Errorf("answer = %q", res.Answer)
	}
	if fx.executor.calls != 0 {
		t.Error("rejected SQL must never execute")
	}
}

func TestAskExecutionFailurePreservesDescriptor(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{SQL: "SELECT name FROM employees"}}
	exec := &fakeExecutor{rows: []map[string]any{{"name": "A"}}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, exec)
	ctx := context.Background()

	if _, err := fx.router.Ask(ctx, "s5", "list all employees"); err != nil {
		t.Fatalf("seed ask: %v", err)
	}
	before := *fx.sessions.sessions["s5"].LastDatabaseQuery

	exec.err = fmt.Errorf("query timed out")
	res, err := fx.router.Ask(ctx, "s5", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != constant.SQLExecutionFailedMessage {
		t.Errorf("answer = %q", res.Answer)
	}
	after := *fx.sessions.sessions["s5"].LastDatabaseQuery
	if before.Offset != after.Offset || before.SQL != after.SQL {
		t.Error("descriptor must not advance on failed execution")
	}
}

func TestAskCountQueryDoesNotPaginate(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{SQL: "SELECT COUNT(*) FROM employees"}}
	exec := &fakeExecutor{rows: []map[string]any{{"count": 42}}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, exec)

	res, err := fx.router.Ask(context.Background(), "s6", "how many employees do we have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(res.SQL, "LIMIT") {
		t.Errorf("aggregate must stay unbounded: %q", res.SQL)
	}
	if fx.sessions.sessions["s6"].LastDatabaseQuery != nil {
		t.Error("aggregates must not record a pagination window")
	}
}

func TestAskDocumentQuery(t *testing.T) {
	fx := newFixture(intent.IntentRAGQuery, &fakeGenerator{}, &fakeExecutor{})

	res, err := fx.router.Ask(context.Background(), "s7", "what is the leave approval procedure?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Answer, constant.RAGAnswerPrefix) {
		t.Errorf("missing document prefix: %q", res.Answer)
	}
	if res.SQL != "" || res.Rows != nil {
		t.Error("document answers carry no sql or rows")
	}
	if fx.executor.calls != 0 {
		t.Error("executor must not run for document questions")
	}
}

func TestAskGeneralChat(t *testing.T) {
	fx := newFixture(intent.IntentGeneralChat, &fakeGenerator{}, &fakeExecutor{})

	res, err := fx.router.Ask(context.Background(), "s8", "  tell me a joke  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Answer, constant.GeneralAnswerPrefix) {
		t.Errorf("missing general prefix: %q", res.Answer)
	}
	// The canned reply echoes the trimmed question
	if !strings.Contains(res.Answer, `"tell me a joke"`) {
		t.Errorf("answer does not echo the question: %q", res.Answer)
	}
}

func TestAskFollowUpUsesResolvedReference(t *testing.T) {
	gen := &fakeGenerator{generated: &sqlgen.Generated{SQL: "SELECT name FROM employees"}}
	exec := &fakeExecutor{rows: []map[string]any{{"name": "Hamid"}}}
	fx := newFixture(intent.IntentDatabaseQuery, gen, exec)
	ctx := context.Background()

	if _, err := fx.router.Ask(ctx, "s9", "show me the leaves of Hamid"); err != nil {
		t.Fatalf("seed ask: %v", err)
	}
	if _, err := fx.router.Ask(ctx, "s9", "what about his attendance?"); err != nil {
		t.Fatalf("follow-up: %v", err)
	}

	desc := fx.sessions.sessions["s9"].LastDatabaseQuery
	if desc == nil {
		t.Fatal("descriptor missing")
	}
	if !strings.Contains(desc.OriginalQuestion, "Hamid") {
		t.Errorf("follow-up was not resolved: %q", desc.OriginalQuestion)
	}
}
