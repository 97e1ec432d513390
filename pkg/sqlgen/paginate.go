package sqlgen

import (
	"fmt"
	"regexp"
	"strings"

	"hr-assistant-be/internal/constant"
)

var limitOffsetTailRe = regexp.MustCompile(`(?i)\s+LIMIT\s+\d+(\s+OFFSET\s+\d+)?\s*$`)

// ApplyLimitOffset rewrites the trailing window clause of previously gated
// SQL. It is idempotent for fixed arguments, and COUNT aggregates pass
// through unchanged because they are never paginated.
func ApplyLimitOffset(sqlText string, limit, offset int) string {
	if isAggregateCount(sqlText) {
		return sqlText
	}

	s := strings.TrimSpace(sqlText)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	s = limitOffsetTailRe.ReplaceAllString(s, "")

	if limit <= 0 {
		limit = constant.DefaultRowLimit
	}
	if offset < 0 {
		offset = 0
	}

	return fmt.Sprintf("%s LIMIT %d OFFSET %d", s, limit, offset)
}
