package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// GeneratedInsight is the result of one analysis pass. The insight row is
// persisted before the report is generated, so a report failure leaves a
// valid insight behind and shows up only in ReportErr.
type GeneratedInsight struct {
	Insight   *types.Insight  `json:"insight"`
	Analysis  *AnalysisResult `json:"analysis"`
	Report    string          `json:"report,omitempty"`
	ReportErr string          `json:"report_error,omitempty"`
}

type InsightService interface {
	Generate(ctx context.Context, records []map[string]any, analysisContext string) (*GeneratedInsight, error)
	List(ctx context.Context) ([]*types.Insight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Insight, error)
}

type insightService struct {
	db          *gorm.DB
	log         *logger.Logger
	insightRepo repos.InsightRepo
	aiClient    AIClient
}

func NewInsightService(db *gorm.DB, log *logger.Logger, insightRepo repos.InsightRepo, aiClient AIClient) InsightService {
	serviceLog := log.With("service", "InsightService")
	return &insightService{
		db:          db,
		log:         serviceLog,
		insightRepo: insightRepo,
		aiClient:    aiClient,
	}
}

func (is *insightService) Generate(ctx context.Context, records []map[string]any, analysisContext string) (*GeneratedInsight, error) {
	if len(records) == 0 {
		return nil, apierr.Validation("data must be a non-empty array")
	}
	if analysisContext == "" {
		analysisContext = "Business data analysis"
	}

	analysis, err := is.aiClient.AnalyzeData(ctx, records, analysisContext)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	sources, _ := json.Marshal([]string{"user_query"})

	insight := &types.Insight{
		ID:              uuid.New(),
		Title:           fmt.Sprintf("AI Analysis - %s", time.Now().Format("1/2/2006")),
		Description:     "Automated analysis of business data",
		Insights:        datatypes.JSON(payload),
		ConfidenceScore: analysis.Confidence,
		DataSources:     datatypes.JSON(sources),
	}
	if _, err := is.insightRepo.Create(ctx, nil, []*types.Insight{insight}); err != nil {
		return nil, apierr.Database(err)
	}

	result := &GeneratedInsight{Insight: insight, Analysis: analysis}

	report, err := is.aiClient.GenerateReport(ctx, analysis, map[string]any{
		"dataSize":  len(records),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		is.log.Warn("Report generation failed after insight persisted", "insight_id", insight.ID, "error", err)
		result.ReportErr = err.Error()
		return result, nil
	}
	result.Report = report
	return result, nil
}

func (is *insightService) List(ctx context.Context) ([]*types.Insight, error) {
	insights, err := is.insightRepo.List(ctx, nil, 20)
	if err != nil {
		return nil, apierr.Database(err)
	}
	return insights, nil
}

func (is *insightService) GetByID(ctx context.Context, id uuid.UUID) (*types.Insight, error) {
	found, err := is.insightRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Database(err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, nil
	}
	return found[0], nil
}
