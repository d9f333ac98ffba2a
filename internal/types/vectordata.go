package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// EmbeddingDim is the fixed dimension of stored embeddings
// (text-embedding-3-small).
const EmbeddingDim = 1536

// VectorData holds the embedding of one unstructured BusinessData record.
// Rows are created only as a side effect of ingestion and are immutable.
type VectorData struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Content        string          `gorm:"column:content;not null" json:"content"`
	Embedding      pgvector.Vector `gorm:"column:embedding;type:vector(1536)" json:"embedding"`
	Metadata       datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	BusinessDataID uuid.UUID       `gorm:"type:uuid;column:business_data_id;not null;index" json:"business_data_id"`
	BusinessData   *BusinessData   `gorm:"constraint:OnDelete:CASCADE;foreignKey:BusinessDataID;references:ID" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (VectorData) TableName() string { return "vector_data" }
