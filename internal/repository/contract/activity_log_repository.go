package contract

import (
	"context"

	"hr-assistant-be/internal/model"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	FindByModule(ctx context.Context, module string, limit, offset int) ([]*model.ActivityLog, error)
}
