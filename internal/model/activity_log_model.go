package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLog struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           *uuid.UUID     `gorm:"type:uuid;index"`
	Module           string         `gorm:"type:varchar(64);not null;index"`
	Action           string         `gorm:"type:varchar(128);not null"`
	RecordId         *uuid.UUID     `gorm:"type:uuid;index"`
	TargetEmployeeId *uuid.UUID     `gorm:"type:uuid;index"`
	Details          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
