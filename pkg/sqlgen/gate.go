package sqlgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hr-assistant-be/internal/constant"
)

// Gate verifies generated SQL before anything touches the database:
// single read-only SELECT, allow-listed tables only, bounded result size.
type Gate struct {
	allowed map[string]bool
}

var (
	ErrNotSelect       = fmt.Errorf("non-SELECT statement")
	ErrUnsafeContent   = fmt.Errorf("unsafe content")
	ErrTableNotAllowed = fmt.Errorf("table not allowed")
)

var (
	selectRe    = regexp.MustCompile(`(?i)^\s*SELECT\b`)
	forbiddenRe = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|TRUNCATE|CREATE|GRANT|REVOKE|REPLACE)\b`)
	tableRefRe  = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([A-Za-z0-9_."]+)`)
	countRe     = regexp.MustCompile(`(?i)\bCOUNT\s*\(`)
	fromRe      = regexp.MustCompile(`(?i)\bFROM\b`)
	// Only a statement-final LIMIT bounds the outer query; a LIMIT inside a
	// subquery must not satisfy the check.
	limitTailRe = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)(?:\s+OFFSET\s+\d+)?\s*$`)
)

func NewGate(allowedTables []string) *Gate {
	allowed := make(map[string]bool, len(allowedTables))
	for _, t := range allowedTables {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &Gate{allowed: allowed}
}

// Check validates the statement and returns the SQL to execute plus the row
// limit it enforces. The limit is 0 for aggregate COUNT statements, which are
// never bounded and never paginated. Checks run in order; the first failure
// is fatal for the attempt.
func (g *Gate) Check(sqlText string) (string, int, error) {
	s := strings.TrimSpace(sqlText)
	// Trailing semicolons are tolerated; anything beyond them is not.
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	if s == "" {
		return "", 0, fmt.Errorf("%w: empty statement", ErrNotSelect)
	}

	if !selectRe.MatchString(s) {
		return "", 0, fmt.Errorf("%w: statement must start with SELECT", ErrNotSelect)
	}

	if forbiddenRe.MatchString(s) {
		return "", 0, fmt.Errorf("%w: forbidden keyword", ErrUnsafeContent)
	}
	// A semicolon that survived trailing-strip signals statement stacking.
	if strings.Contains(s, ";") {
		return "", 0, fmt.Errorf("%w: statement stacking", ErrUnsafeContent)
	}

	for _, table := range extractTables(s) {
		if !g.allowed[table] {
			return "", 0, fmt.Errorf("%w: %s", ErrTableNotAllowed, table)
		}
	}

	if isAggregateCount(s) {
		return s, 0, nil
	}

	if m := limitTailRe.FindStringSubmatch(s); m != nil {
		limit, err := strconv.Atoi(m[1])
		if err != nil || limit <= 0 {
			limit = constant.DefaultRowLimit
		}
		return s, limit, nil
	}

	return fmt.Sprintf("%s LIMIT %d", s, constant.DefaultRowLimit), constant.DefaultRowLimit, nil
}

// isAggregateCount reports whether the statement's own select list is a
// COUNT aggregate. Only the text before the first FROM is inspected, so a
// COUNT inside a subquery does not exempt a row-returning outer query from
// bounding.
func isAggregateCount(s string) bool {
	if loc := fromRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return countRe.MatchString(s)
}

// extractTables pulls every table referenced after FROM or JOIN,
// reducing schema-qualified names to their final segment.
func extractTables(s string) []string {
	matches := tableRefRe.FindAllStringSubmatch(s, -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.Trim(m[1], `"`)
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		name = strings.ToLower(strings.Trim(name, `"`))
		if name == "" || name == "(" {
			continue
		}
		tables = append(tables, name)
	}
	return tables
}
