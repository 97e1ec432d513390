package corpus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// The loaders denormalize operational tables into prose documents so policy
// and announcement questions can be answered by similarity search instead
// of SQL.

type AnnouncementLoader struct {
	db *gorm.DB
}

func NewAnnouncementLoader(readOnlyDB *gorm.DB) *AnnouncementLoader {
	return &AnnouncementLoader{db: readOnlyDB}
}

func (l *AnnouncementLoader) Name() string { return "announcements" }

func (l *AnnouncementLoader) Load(ctx context.Context) ([]SourceDocument, error) {
	var rows []struct {
		Id          string
		Title       string
		Body        string
		PublishedAt time.Time
	}
	err := l.db.WithContext(ctx).
		Table("announcements").
		Select("id, title, body, published_at").
		Order("published_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	documents := make([]SourceDocument, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, SourceDocument{
			Title:       "Announcement: " + row.Title,
			Content:     fmt.Sprintf("%s\n\nPublished %s.\n\n%s", row.Title, row.PublishedAt.Format("2 January 2006"), row.Body),
			SourceTable: "announcements",
			SourceID:    row.Id,
		})
	}
	return documents, nil
}

type HolidayLoader struct {
	db *gorm.DB
}

func NewHolidayLoader(readOnlyDB *gorm.DB) *HolidayLoader {
	return &HolidayLoader{db: readOnlyDB}
}

func (l *HolidayLoader) Name() string { return "holidays" }

// Load produces one document per calendar year so "what holidays are in
// December?" retrieves the whole year's list.
func (l *HolidayLoader) Load(ctx context.Context) ([]SourceDocument, error) {
	var rows []struct {
		Id   string
		Name string
		Date time.Time
	}
	err := l.db.WithContext(ctx).
		Table("holidays").
		Select("id, name, date").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byYear := map[int][]string{}
	for _, row := range rows {
		year := row.Date.Year()
		byYear[year] = append(byYear[year], fmt.Sprintf("- %s on %s", row.Name, row.Date.Format("2 January 2006")))
	}

	documents := make([]SourceDocument, 0, len(byYear))
	for year, lines := range byYear {
		documents = append(documents, SourceDocument{
			Title:       fmt.Sprintf("Company holidays %d", year),
			Content:     fmt.Sprintf("Company holidays in %d:\n%s", year, strings.Join(lines, "\n")),
			SourceTable: "holidays",
			SourceID:    fmt.Sprint(year),
		})
	}
	return documents, nil
}

type LeaveTypeLoader struct {
	db *gorm.DB
}

func NewLeaveTypeLoader(readOnlyDB *gorm.DB) *LeaveTypeLoader {
	return &LeaveTypeLoader{db: readOnlyDB}
}

func (l *LeaveTypeLoader) Name() string { return "leave_types" }

func (l *LeaveTypeLoader) Load(ctx context.Context) ([]SourceDocument, error) {
	var rows []struct {
		Id          string
		Name        string
		AnnualQuota int
	}
	err := l.db.WithContext(ctx).
		Table("leave_types").
		Select("id, name, annual_quota").
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("- %s leave: %d days per year", row.Name, row.AnnualQuota))
	}
	return []SourceDocument{{
		Title:       "Leave entitlements",
		Content:     "Annual leave entitlements by type:\n" + strings.Join(lines, "\n"),
		SourceTable: "leave_types",
		SourceID:    "all",
	}}, nil
}

type TrainingLoader struct {
	db *gorm.DB
}

func NewTrainingLoader(readOnlyDB *gorm.DB) *TrainingLoader {
	return &TrainingLoader{db: readOnlyDB}
}

func (l *TrainingLoader) Name() string { return "trainings" }

func (l *TrainingLoader) Load(ctx context.Context) ([]SourceDocument, error) {
	var rows []struct {
		Id          string
		Title       string
		ScheduledAt time.Time
	}
	err := l.db.WithContext(ctx).
		Table("trainings").
		Select("id, title, scheduled_at").
		Order("scheduled_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	documents := make([]SourceDocument, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, SourceDocument{
			Title:       "Training: " + row.Title,
			Content:     fmt.Sprintf("%s is scheduled for %s.", row.Title, row.ScheduledAt.Format("2 January 2006")),
			SourceTable: "trainings",
			SourceID:    row.Id,
		})
	}
	return documents, nil
}
