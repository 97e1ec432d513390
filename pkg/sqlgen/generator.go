package sqlgen

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"hr-assistant-be/internal/constant"
	"hr-assistant-be/pkg/llm"
)

// Generated is a candidate query. Args carries bound parameters for literals
// derived from user text; template queries always parameterize, LLM output
// has no args and relies on the gate plus read-only credentials.
type Generated struct {
	SQL  string
	Args map[string]any
	// FromTemplate marks hand-verified SQL that skipped generation.
	FromTemplate bool
}

// Generator turns a natural-language question into candidate SQL. A small
// set of well-known question shapes is handled by hand-verified templates;
// everything else goes to the model.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

var (
	leaveBalanceRe = regexp.MustCompile(`(?i)\b(?:(sick|annual|casual|maternity|paternity|unpaid)\s+)?leaves?\b.*\b(?:of|for)\s+([A-Za-z][A-Za-z .'-]*)`)
	activityLogsRe = regexp.MustCompile(`(?i)\bactivity\s+logs?\b(?:.*\b(?:of|for)\s+([A-Za-z][A-Za-z .'-]*))?`)
	headcountRe    = regexp.MustCompile(`(?i)\bhow many\b.*\bemployees\b(?:.*\bin\s+(?:the\s+)?([A-Za-z][A-Za-z ]*?)\s+department)?`)
)

// Generate produces candidate SQL for the question. Template matches are
// preferred: they are precise and provably safe. Output still goes through
// the gate either way.
func (g *Generator) Generate(ctx context.Context, question string) (*Generated, error) {
	if tpl := matchTemplate(question); tpl != nil {
		g.logger.Printf("[SQLGEN] Template hit for question: %s", question)
		return tpl, nil
	}

	raw, err := g.llmProvider.Generate(ctx,
		constant.SQLGeneratorSystemPrompt+"\n\nQuestion: "+question+"\n\nSQL:",
		llm.WithTemperature(0.0),
	)
	if err != nil {
		return nil, fmt.Errorf("sql generation call failed: %w", err)
	}

	sqlText := stripCodeFences(raw)
	if strings.TrimSpace(sqlText) == "" {
		return nil, fmt.Errorf("sql generation returned empty output")
	}

	return &Generated{SQL: sqlText}, nil
}

func matchTemplate(question string) *Generated {
	q := strings.TrimSpace(question)

	if m := leaveBalanceRe.FindStringSubmatch(q); m != nil {
		name := cleanName(m[2])
		if name != "" {
			sqlText := `SELECT e.name AS employee_name, lt.name AS leave_type, el.allocated, el.used, (el.allocated - el.used) AS remaining
FROM employee_leaves el
JOIN employees e ON e.id = el.employee_id
JOIN leave_types lt ON lt.id = el.leave_type_id
WHERE e.name ILIKE @name`
			args := map[string]any{"name": "%" + name + "%"}
			if leaveType := strings.ToLower(strings.TrimSpace(m[1])); leaveType != "" {
				sqlText += ` AND lt.name ILIKE @leave_type`
				args["leave_type"] = "%" + leaveType + "%"
			}
			return &Generated{SQL: sqlText, Args: args, FromTemplate: true}
		}
	}

	if m := activityLogsRe.FindStringSubmatch(q); m != nil {
		if name := cleanName(m[1]); name != "" {
			return &Generated{
				SQL: `SELECT al.module, al.action, al.record_id, al.user_id, al.target_employee_id, al.created_at
FROM activity_logs al
JOIN employees te ON te.id = al.target_employee_id
WHERE te.name ILIKE @name
ORDER BY al.created_at DESC`,
				Args:         map[string]any{"name": "%" + name + "%"},
				FromTemplate: true,
			}
		}
		return &Generated{
			SQL: `SELECT al.module, al.action, al.record_id, al.user_id, al.target_employee_id, al.created_at
FROM activity_logs al
ORDER BY al.created_at DESC`,
			FromTemplate: true,
		}
	}

	if m := headcountRe.FindStringSubmatch(q); m != nil {
		if dept := cleanName(m[1]); dept != "" {
			return &Generated{
				SQL: `SELECT COUNT(*) AS employee_count
FROM employees e
JOIN departments d ON d.id = e.department_id
WHERE d.name ILIKE @department`,
				Args:         map[string]any{"department": "%" + dept + "%"},
				FromTemplate: true,
			}
		}
		return &Generated{
			SQL:          `SELECT COUNT(*) AS employee_count FROM employees`,
			FromTemplate: true,
		}
	}

	return nil
}

// cleanName trims punctuation and filler that regex captures drag along
// ("Hamid?", "Hamid please").
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "?!.,;: ")
	for _, filler := range []string{" please", " now", " today"} {
		if strings.HasSuffix(strings.ToLower(s), filler) {
			s = s[:len(s)-len(filler)]
		}
	}
	return strings.TrimSpace(s)
}

// stripCodeFences removes markdown fencing the model sometimes wraps SQL in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```SQL")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
