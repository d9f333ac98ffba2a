package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

type BusinessDataRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.BusinessData) ([]*types.BusinessData, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.BusinessData, error)
	List(ctx context.Context, tx *gorm.DB, source, dtype string, limit int) ([]*types.BusinessData, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type businessDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessDataRepo(db *gorm.DB, baseLog *logger.Logger) BusinessDataRepo {
	repoLog := baseLog.With("repo", "BusinessDataRepo")
	return &businessDataRepo{db: db, log: repoLog}
}

func (r *businessDataRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.BusinessData) ([]*types.BusinessData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return []*types.BusinessData{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *businessDataRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.BusinessData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BusinessData
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *businessDataRepo) List(ctx context.Context, tx *gorm.DB, source, dtype string, limit int) ([]*types.BusinessData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	query := transaction.WithContext(ctx).Model(&types.BusinessData{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if dtype != "" {
		query = query.Where("type = ?", dtype)
	}
	var results []*types.BusinessData
	if err := query.Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *businessDataRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	// vector_data rows go with the owner via the ON DELETE CASCADE constraint
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.BusinessData{}).Error
}
