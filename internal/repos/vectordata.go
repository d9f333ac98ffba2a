package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// SimilarMatch is one row of a nearest-neighbor lookup. Distance is the
// cosine distance reported by the database engine.
type SimilarMatch struct {
	ID       uuid.UUID `json:"id"`
	Content  string    `json:"content"`
	Metadata []byte    `json:"metadata,omitempty"`
	Distance float64   `json:"distance"`
}

type VectorDataRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.VectorData) ([]*types.VectorData, error)
	GetByBusinessDataIDs(ctx context.Context, tx *gorm.DB, businessDataIDs []uuid.UUID) ([]*types.VectorData, error)
	SearchSimilar(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*SimilarMatch, error)
}

type vectorDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVectorDataRepo(db *gorm.DB, baseLog *logger.Logger) VectorDataRepo {
	repoLog := baseLog.With("repo", "VectorDataRepo")
	return &vectorDataRepo{db: db, log: repoLog}
}

func (r *vectorDataRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.VectorData) ([]*types.VectorData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return []*types.VectorData{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *vectorDataRepo) GetByBusinessDataIDs(ctx context.Context, tx *gorm.DB, businessDataIDs []uuid.UUID) ([]*types.VectorData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.VectorData
	if len(businessDataIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("business_data_id IN ?", businessDataIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vectorDataRepo) SearchSimilar(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*SimilarMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	vec := pgvector.NewVector(embedding)
	var results []*SimilarMatch
	if err := transaction.WithContext(ctx).Raw(`
		SELECT id, content, metadata,
		       embedding <=> ? AS distance
		FROM vector_data
		WHERE embedding <=> ? < 0.8
		ORDER BY distance ASC
		LIMIT ?
	`, vec, vec, limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
