package sqlgen

import (
	"errors"
	"strings"
	"testing"

	"hr-assistant-be/internal/constant"
)

func newTestGate() *Gate {
	return NewGate(constant.AllowedTables)
}

func TestGateRejectsNonSelect(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"update statement", "UPDATE employees SET name = 'x'"},
		{"delete statement", "DELETE FROM employees"},
		{"insert statement", "INSERT INTO employees (name) VALUES ('x')"},
		{"empty", "   "},
		{"with clause", "WITH x AS (SELECT 1) SELECT * FROM x"},
	}

	g := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := g.Check(tt.sql)
			if err == nil {
				t.Fatalf("Check(%q) = nil error, want rejection", tt.sql)
			}
			if !errors.Is(err, ErrNotSelect) {
				t.Errorf("error = %v, want ErrNotSelect", err)
			}
		})
	}
}

func TestGateRejectsUnsafeContent(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"embedded drop", "SELECT * FROM employees WHERE name = 'x' DROP TABLE employees"},
		{"statement stacking", "SELECT * FROM employees; DELETE FROM employees"},
		{"truncate keyword", "SELECT truncate FROM employees TRUNCATE employees"},
		{"grant keyword", "SELECT * FROM employees GRANT ALL"},
	}

	g := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := g.Check(tt.sql)
			if err == nil {
				t.Fatalf("Check(%q) = nil error, want rejection", tt.sql)
			}
			if !errors.Is(err, ErrUnsafeContent) {
				t.Errorf("error = %v, want ErrUnsafeContent", err)
			}
		})
	}
}

func TestGateRejectsUnknownTables(t *testing.T) {
	tests := []string{
		"SELECT * FROM secrets",
		"SELECT * FROM employees e JOIN pg_shadow p ON true",
		"SELECT * FROM public.credentials",
	}

	g := newTestGate()
	for _, sql := range tests {
		t.Run(sql, func(t *testing.T) {
			_, _, err := g.Check(sql)
			if !errors.Is(err, ErrTableNotAllowed) {
				t.Errorf("error = %v, want ErrTableNotAllowed", err)
			}
		})
	}
}

func TestGateAllowsSchemaQualifiedAllowedTables(t *testing.T) {
	g := newTestGate()
	gated, limit, err := g.Check(`SELECT * FROM public.employees`)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if limit != constant.DefaultRowLimit {
		t.Errorf("limit = %d, want %d", limit, constant.DefaultRowLimit)
	}
	if !strings.HasSuffix(gated, "LIMIT 50") {
		t.Errorf("gated sql missing injected limit: %s", gated)
	}
}

func TestGateAppendsLimit(t *testing.T) {
	g := newTestGate()
	gated, limit, err := g.Check("SELECT name FROM employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gated != "SELECT name FROM employees LIMIT 50" {
		t.Errorf("gated = %q", gated)
	}
	if limit != 50 {
		t.Errorf("limit = %d, want 50", limit)
	}
}

func TestGateKeepsExistingLimit(t *testing.T) {
	g := newTestGate()
	gated, limit, err := g.Check("SELECT name FROM employees LIMIT 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gated != "SELECT name FROM employees LIMIT 10" {
		t.Errorf("gated = %q", gated)
	}
	if limit != 10 {
		t.Errorf("limit = %d, want 10", limit)
	}
}

func TestGateBoundsQueryWithSubqueryLimit(t *testing.T) {
	g := newTestGate()
	sql := "SELECT name FROM employees WHERE department_id IN (SELECT id FROM departments LIMIT 1)"
	gated, limit, err := g.Check(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gated != sql+" LIMIT 50" {
		t.Errorf("gated = %q, want outer limit appended", gated)
	}
	if limit != 50 {
		t.Errorf("limit = %d, want 50", limit)
	}
}

func TestGateBoundsQueryWithSubqueryCount(t *testing.T) {
	g := newTestGate()
	sql := "SELECT name FROM departments d WHERE (SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id) > 10"
	gated, limit, err := g.Check(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 50 {
		t.Errorf("limit = %d, want 50 for row-returning outer query", limit)
	}
	if !strings.HasSuffix(gated, "LIMIT 50") {
		t.Errorf("gated sql missing injected limit: %s", gated)
	}
}

func TestGateCountAggregateUnbounded(t *testing.T) {
	g := newTestGate()
	sql := "SELECT COUNT(*) FROM employees"
	gated, limit, err := g.Check(sql)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gated != sql {
		t.Errorf("gated = %q, want unchanged", gated)
	}
	if limit != 0 {
		t.Errorf("limit = %d, want 0 for aggregate", limit)
	}
}

func TestGateToleratesTrailingSemicolon(t *testing.T) {
	g := newTestGate()
	gated, _, err := g.Check("SELECT name FROM employees;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gated, ";") {
		t.Errorf("gated sql still contains semicolon: %s", gated)
	}
}
