package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Notification is one entry in the back-office toast feed.
type Notification struct {
	ID        uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Severity  enums.NotificationSeverity `gorm:"column:severity;not null"`
	Message   string                     `gorm:"column:message;not null"`
	IsRead    bool                       `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
