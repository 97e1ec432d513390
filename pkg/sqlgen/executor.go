package sqlgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hr-assistant-be/internal/constant"

	"gorm.io/gorm"
)

// Executor runs gated SQL against the read-only pool. Every query is bounded
// by a hard timeout; exceeding it counts as an execution failure regardless
// of whether the database eventually answers.
type Executor struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewExecutor(readOnlyDB *gorm.DB, logger *log.Logger) *Executor {
	return &Executor{
		db:     readOnlyDB,
		logger: logger,
	}
}

// Execute runs the statement and scans the result into generic rows.
// args, when non-empty, are bound as named parameters (@name style).
func (e *Executor) Execute(ctx context.Context, sqlText string, args map[string]any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.SQLExecutionTimeoutSeconds*time.Second)
	defer cancel()

	var rows []map[string]any
	tx := e.db.WithContext(ctx)

	var err error
	if len(args) > 0 {
		err = tx.Raw(sqlText, args).Find(&rows).Error
	} else {
		err = tx.Raw(sqlText).Find(&rows).Error
	}
	if err != nil {
		// Log the offending SQL for diagnosis; callers surface a friendly
		// message, never this error.
		e.logger.Printf("[SQLEXEC] query failed: %v | sql: %s", err, sqlText)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("query timed out after %ds: %w", constant.SQLExecutionTimeoutSeconds, err)
		}
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	return rows, nil
}
