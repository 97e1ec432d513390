package store

// Turn is a single conversational exchange entry.
type Turn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// QueryDescriptor captures the last executed database query so that
// "next"/"previous" follow-ups can re-run it with a shifted window.
// Args holds bound parameters for literals derived from user text; the SQL
// is never re-built by string interpolation on re-execution.
type QueryDescriptor struct {
	SQL              string         `json:"sql"`
	Args             map[string]any `json:"args,omitempty"`
	OriginalQuestion string         `json:"original_question"`
	Offset           int            `json:"offset"` // >= 0
	Limit            int            `json:"limit"`  // > 0, the value the gate enforced
}

// HistoryLimit caps the retained turns per session. Oldest dropped first.
const HistoryLimit = 12

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is the per-conversation state kept by the session store.
// Callers are expected to serialize concurrent use of the same session id;
// the store does not lock individual sessions.
type Session struct {
	ID                string           `json:"id"`
	History           []Turn           `json:"history"`
	LastDatabaseQuery *QueryDescriptor `json:"last_database_query,omitempty"`
}

// NewSession creates an empty session for the given key.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		History: make([]Turn, 0, HistoryLimit),
	}
}

// AppendHistory records a turn, evicting the oldest entry once the cap is hit.
func (s *Session) AppendHistory(role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
}

// RecentHistory returns up to n turns, newest first.
func (s *Session) RecentHistory(n int) []Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if n > len(s.History) {
		n = len(s.History)
	}
	out := make([]Turn, 0, n)
	for i := len(s.History) - 1; i >= len(s.History)-n; i-- {
		out = append(out, s.History[i])
	}
	return out
}
