package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
)

// schemaDescription is handed to the text-to-SQL model verbatim.
const schemaDescription = `
Tables:
- business_data: id, source, type, content, metadata, created_at, updated_at
- vector_data: id, content, embedding, metadata, business_data_id, created_at
- insights: id, title, description, insights, confidence_score, data_sources, created_at
- actions: id, type, config, status, insight_id, scheduled_at, executed_at, error_message, created_at
`

type QueryResult struct {
	Data            []map[string]any `json:"data"`
	Columns         []string         `json:"columns"`
	RowCount        int              `json:"rowCount"`
	ExecutionTimeMS int64            `json:"executionTime"`
	Query           string           `json:"query"`
}

type SampleQuery struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

type QueryService interface {
	// Execute runs sqlText when given, otherwise converts naturalLanguage
	// to SQL first. The resulting statement is executed verbatim.
	Execute(ctx context.Context, sqlText, naturalLanguage string) (*QueryResult, error)
	SampleQueries() []SampleQuery
}

type queryService struct {
	db        *gorm.DB
	log       *logger.Logger
	queryRepo repos.QueryRepo
	aiClient  AIClient
}

func NewQueryService(db *gorm.DB, log *logger.Logger, queryRepo repos.QueryRepo, aiClient AIClient) QueryService {
	serviceLog := log.With("service", "QueryService")
	return &queryService{
		db:        db,
		log:       serviceLog,
		queryRepo: queryRepo,
		aiClient:  aiClient,
	}
}

func (qs *queryService) Execute(ctx context.Context, sqlText, naturalLanguage string) (*QueryResult, error) {
	if sqlText == "" && naturalLanguage != "" {
		generated, err := qs.aiClient.GenerateSQL(ctx, naturalLanguage, schemaDescription)
		if err != nil {
			return nil, err
		}
		sqlText = generated
	}
	if sqlText == "" {
		return nil, apierr.Validation("no query provided")
	}

	start := time.Now()
	rows, columns, err := qs.queryRepo.Execute(ctx, nil, sqlText)
	if err != nil {
		return nil, apierr.Database(err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	return &QueryResult{
		Data:            rows,
		Columns:         columns,
		RowCount:        len(rows),
		ExecutionTimeMS: time.Since(start).Milliseconds(),
		Query:           sqlText,
	}, nil
}

func (qs *queryService) SampleQueries() []SampleQuery {
	return []SampleQuery{
		{
			Name:  "Recent Business Data",
			Query: "SELECT * FROM business_data ORDER BY created_at DESC LIMIT 10",
		},
		{
			Name:  "Data by Source",
			Query: "SELECT source, COUNT(*) as count FROM business_data GROUP BY source",
		},
		{
			Name:  "Top Insights",
			Query: "SELECT title, confidence_score FROM insights ORDER BY confidence_score DESC LIMIT 5",
		},
	}
}
