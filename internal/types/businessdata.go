package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DataTypeStructured   = "structured"
	DataTypeUnstructured = "unstructured"
)

// BusinessData is a single ingested unit of business data. Content is always
// valid JSON at rest; unstructured text is stored as a JSON string.
type BusinessData struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Source    string         `gorm:"column:source;not null;index" json:"source"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	Content   datatypes.JSON `gorm:"column:content;type:jsonb;not null" json:"content"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (BusinessData) TableName() string { return "business_data" }
