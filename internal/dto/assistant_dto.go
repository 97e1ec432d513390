package dto

type AskRequest struct {
	SessionId string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Question  string `json:"question" validate:"required,min=1,max=2000"`
}

type AskResponse struct {
	SessionId string           `json:"session_id"`
	Answer    string           `json:"answer"`
	Intent    string           `json:"intent"`
	Source    string           `json:"source"`
	Sql       string           `json:"sql,omitempty"`
	Rows      []map[string]any `json:"rows,omitempty"`
}

// AnswerRecordedMessage is the bus payload emitted after every answered
// turn and consumed by the audit writer.
type AnswerRecordedMessage struct {
	SessionId  string `json:"session_id"`
	Question   string `json:"question"`
	Intent     string `json:"intent"`
	Source     string `json:"source"`
	Sql        string `json:"sql,omitempty"`
	RowCount   int    `json:"row_count"`
	DurationMs int64  `json:"duration_ms"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	LlmProvider    string `json:"llm_provider"`
	LlmModel       string `json:"llm_model"`
	SessionBackend string `json:"session_backend"`
}

type ActivityLogResponse struct {
	Id        string         `json:"id"`
	Module    string         `json:"module"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt string         `json:"created_at"`
}
