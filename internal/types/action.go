package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionTypeSlackReport     = "slack_report"
	ActionTypeDashboardUpdate = "dashboard_update"
	ActionTypeAlert           = "alert"
	ActionTypeEmail           = "email"

	ActionStatusPending   = "pending"
	ActionStatusCompleted = "completed"
	ActionStatusFailed    = "failed"
)

// Action is a triggerable side effect, optionally tied to an Insight.
// Status moves exactly once from pending to completed or failed.
type Action struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type         string         `gorm:"column:type;not null;index" json:"type"`
	Config       datatypes.JSON `gorm:"column:config;type:jsonb;not null" json:"config"`
	Status       string         `gorm:"column:status;not null;default:pending;index" json:"status"`
	InsightID    *uuid.UUID     `gorm:"type:uuid;column:insight_id;index" json:"insight_id,omitempty"`
	Insight      *Insight       `gorm:"constraint:OnDelete:CASCADE;foreignKey:InsightID;references:ID" json:"-"`
	ScheduledAt  *time.Time     `gorm:"column:scheduled_at;index" json:"scheduled_at,omitempty"`
	ExecutedAt   *time.Time     `gorm:"column:executed_at" json:"executed_at,omitempty"`
	ErrorMessage string         `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Action) TableName() string { return "actions" }
