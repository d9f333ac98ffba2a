package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

type ActionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, actions []*types.Action) ([]*types.Action, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Action, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Action, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, executedAt time.Time) error
	MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errorMessage string) error
}

type actionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	repoLog := baseLog.With("repo", "ActionRepo")
	return &actionRepo{db: db, log: repoLog}
}

func (r *actionRepo) Create(ctx context.Context, tx *gorm.DB, actions []*types.Action) ([]*types.Action, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(actions) == 0 {
		return []*types.Action{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *actionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Action, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Action
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

func (r *actionRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Action, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.Action
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkCompleted and MarkFailed only move rows out of pending, so an executed
// action can never transition a second time.

func (r *actionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, executedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Action{}).
		Where("id = ? AND status = ?", id, types.ActionStatusPending).
		Updates(map[string]any{
			"status":      types.ActionStatusCompleted,
			"executed_at": executedAt,
		}).Error
}

func (r *actionRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errorMessage string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Action{}).
		Where("id = ? AND status = ?", id, types.ActionStatusPending).
		Updates(map[string]any{
			"status":        types.ActionStatusFailed,
			"error_message": errorMessage,
		}).Error
}
