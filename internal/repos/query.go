package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
)

// QueryRepo is the raw statement passthrough behind the query console. The
// SQL text arrives verbatim from the caller (possibly straight from the
// text-to-SQL model) and is executed as-is.
type QueryRepo interface {
	Execute(ctx context.Context, tx *gorm.DB, sqlText string) (rows []map[string]any, columns []string, err error)
}

type queryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQueryRepo(db *gorm.DB, baseLog *logger.Logger) QueryRepo {
	repoLog := baseLog.With("repo", "QueryRepo")
	return &queryRepo{db: db, log: repoLog}
}

func (r *queryRepo) Execute(ctx context.Context, tx *gorm.DB, sqlText string) ([]map[string]any, []string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := transaction.WithContext(ctx).Raw(sqlText).Rows()
	if err != nil {
		r.log.Error("Statement execution failed", "error", err)
		return nil, nil, err
	}
	defer raw.Close()

	columns, err := raw.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]any
	for raw.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := raw.Scan(pointers...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	if err := raw.Err(); err != nil {
		return nil, nil, err
	}
	return results, columns, nil
}
