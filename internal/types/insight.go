package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Insight is a persisted result of one AI analysis pass. Rows are never
// mutated after creation. ConfidenceScore is a 0-1 fraction; boundaries
// that want percentages convert on render.
type Insight struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description" json:"description"`
	Insights        datatypes.JSON `gorm:"column:insights;type:jsonb;not null" json:"insights"`
	ConfidenceScore float64        `gorm:"column:confidence_score;type:decimal(3,2);index" json:"confidence_score"`
	DataSources     datatypes.JSON `gorm:"column:data_sources;type:jsonb" json:"data_sources,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Insight) TableName() string { return "insights" }
