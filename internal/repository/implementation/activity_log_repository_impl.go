package implementation

import (
	"context"

	"hr-assistant-be/internal/model"
	"hr-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ActivityLogRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) contract.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{db: db}
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityLogRepositoryImpl) FindByModule(ctx context.Context, module string, limit, offset int) ([]*model.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("module = ?", module).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
