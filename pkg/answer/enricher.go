package answer

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Enricher resolves foreign-key-like columns on result rows into
// human-readable names and emails via bounded secondary lookups, so the
// formatter never has to surface internal identifiers.
type Enricher struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewEnricher(readOnlyDB *gorm.DB, logger *log.Logger) *Enricher {
	return &Enricher{
		db:     readOnlyDB,
		logger: logger,
	}
}

type personRecord struct {
	ID    any    `gorm:"column:id"`
	Name  string `gorm:"column:name"`
	Email string `gorm:"column:email"`
}

// Enrich augments rows in place and returns them. Employee and user lookups
// run concurrently with each other; both wait for the primary rows, which
// the caller already has. Enrichment failures degrade to unenriched rows,
// they never fail the request.
func (e *Enricher) Enrich(ctx context.Context, rows []map[string]any) []map[string]any {
	if len(rows) == 0 {
		return rows
	}

	employeeIDs := collectIDs(rows, func(row map[string]any) []any {
		ids := make([]any, 0, 3)
		if v, ok := row["employee_id"]; ok && v != nil {
			ids = append(ids, v)
		}
		if v, ok := row["target_employee_id"]; ok && v != nil {
			ids = append(ids, v)
		}
		// Activity-log record ids point at employees only for the Employee module
		if module, ok := row["module"].(string); ok && module == "Employee" {
			if v, ok := row["record_id"]; ok && v != nil {
				ids = append(ids, v)
			}
		}
		return ids
	})

	userIDs := collectIDs(rows, func(row map[string]any) []any {
		if v, ok := row["user_id"]; ok && v != nil {
			return []any{v}
		}
		return nil
	})

	var employees, users map[string]personRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = e.lookup(gctx, "employees", employeeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = e.lookup(gctx, "users", userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		e.logger.Printf("[ENRICH] lookup failed, returning rows unenriched: %v", err)
		return rows
	}

	for _, row := range rows {
		mergePerson(row, employees, "employee_id", "employee_name", "employee_email")
		mergePerson(row, employees, "target_employee_id", "target_employee_name", "target_employee_email")
		mergePerson(row, users, "user_id", "user_name", "user_email")
		if module, ok := row["module"].(string); ok && module == "Employee" {
			mergePerson(row, employees, "record_id", "record_employee_name", "record_employee_email")
		}
	}

	return rows
}

// lookup fetches id/name/email for the given ids from one table. The table
// name is a fixed internal constant, never user input; ids are bound.
func (e *Enricher) lookup(ctx context.Context, table string, ids []any) (map[string]personRecord, error) {
	if len(ids) == 0 {
		return map[string]personRecord{}, nil
	}

	var records []personRecord
	query := fmt.Sprintf("SELECT id, name, email FROM %s WHERE id IN ?", table)
	if err := e.db.WithContext(ctx).Raw(query, ids).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%s lookup: %w", table, err)
	}

	byID := make(map[string]personRecord, len(records))
	for _, r := range records {
		byID[fmt.Sprint(r.ID)] = r
	}
	return byID, nil
}

func collectIDs(rows []map[string]any, extract func(map[string]any) []any) []any {
	seen := make(map[string]bool)
	ids := make([]any, 0)
	for _, row := range rows {
		for _, id := range extract(row) {
			key := fmt.Sprint(id)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func mergePerson(row map[string]any, people map[string]personRecord, idKey, nameKey, emailKey string) {
	v, ok := row[idKey]
	if !ok || v == nil {
		return
	}
	person, found := people[fmt.Sprint(v)]
	if !found {
		return
	}
	row[nameKey] = person.Name
	row[emailKey] = person.Email
}
