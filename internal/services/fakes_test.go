package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return log
}

// fakeAIClient counts calls and returns canned results.
type fakeAIClient struct {
	embedCalls  int
	embedErr    error
	embedVector []float32

	sqlCalls   int
	sqlResult  string
	sqlErr     error
	lastPrompt string

	analyzeCalls  int
	analyzeResult *AnalysisResult
	analyzeErr    error

	reportCalls  int
	reportResult string
	reportErr    error
}

func (f *fakeAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedVector != nil {
		return f.embedVector, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeAIClient) GenerateSQL(ctx context.Context, question, schema string) (string, error) {
	f.sqlCalls++
	f.lastPrompt = question
	if f.sqlErr != nil {
		return "", f.sqlErr
	}
	return f.sqlResult, nil
}

func (f *fakeAIClient) AnalyzeData(ctx context.Context, records []map[string]any, analysisContext string) (*AnalysisResult, error) {
	f.analyzeCalls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if f.analyzeResult != nil {
		return f.analyzeResult, nil
	}
	return &AnalysisResult{
		Insights:        []string{"revenue is trending up"},
		Recommendations: []string{"expand the north region"},
		Confidence:      0.9,
	}, nil
}

func (f *fakeAIClient) GenerateReport(ctx context.Context, analysis *AnalysisResult, metadata map[string]any) (string, error) {
	f.reportCalls++
	if f.reportErr != nil {
		return "", f.reportErr
	}
	if f.reportResult != "" {
		return f.reportResult, nil
	}
	return "# Report", nil
}

// fakeBusinessDataRepo stores records in a slice.
type fakeBusinessDataRepo struct {
	created   []*types.BusinessData
	createErr error
	deleted   []uuid.UUID
}

func (f *fakeBusinessDataRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.BusinessData) ([]*types.BusinessData, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, records...)
	return records, nil
}

func (f *fakeBusinessDataRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.BusinessData, error) {
	var out []*types.BusinessData
	for _, record := range f.created {
		for _, id := range ids {
			if record.ID == id {
				out = append(out, record)
			}
		}
	}
	return out, nil
}

func (f *fakeBusinessDataRepo) List(ctx context.Context, tx *gorm.DB, source, dtype string, limit int) ([]*types.BusinessData, error) {
	return f.created, nil
}

func (f *fakeBusinessDataRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeVectorDataRepo struct {
	created       []*types.VectorData
	createErr     error
	searchMatches []*repos.SimilarMatch
	searchCalls   int
}

func (f *fakeVectorDataRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.VectorData) ([]*types.VectorData, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, records...)
	return records, nil
}

func (f *fakeVectorDataRepo) GetByBusinessDataIDs(ctx context.Context, tx *gorm.DB, businessDataIDs []uuid.UUID) ([]*types.VectorData, error) {
	return f.created, nil
}

func (f *fakeVectorDataRepo) SearchSimilar(ctx context.Context, tx *gorm.DB, embedding []float32, limit int) ([]*repos.SimilarMatch, error) {
	f.searchCalls++
	return f.searchMatches, nil
}

type fakeInsightRepo struct {
	created   []*types.Insight
	createErr error
}

func (f *fakeInsightRepo) Create(ctx context.Context, tx *gorm.DB, insights []*types.Insight) ([]*types.Insight, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, insights...)
	return insights, nil
}

func (f *fakeInsightRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Insight, error) {
	var out []*types.Insight
	for _, insight := range f.created {
		for _, id := range ids {
			if insight.ID == id {
				out = append(out, insight)
			}
		}
	}
	return out, nil
}

func (f *fakeInsightRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Insight, error) {
	return f.created, nil
}

// fakeActionRepo records status transitions so tests can assert the exact
// sequence the service requested.
type fakeActionRepo struct {
	created   []*types.Action
	completed []uuid.UUID
	failed    map[uuid.UUID]string
	createErr error
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{failed: map[uuid.UUID]string{}}
}

func (f *fakeActionRepo) Create(ctx context.Context, tx *gorm.DB, actions []*types.Action) ([]*types.Action, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, actions...)
	return actions, nil
}

func (f *fakeActionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Action, error) {
	var out []*types.Action
	for _, action := range f.created {
		for _, id := range ids {
			if action.ID == id {
				out = append(out, action)
			}
		}
	}
	return out, nil
}

func (f *fakeActionRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Action, error) {
	return f.created, nil
}

func (f *fakeActionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, executedAt time.Time) error {
	if _, alreadyFailed := f.failed[id]; alreadyFailed {
		return fmt.Errorf("action %s is not pending", id)
	}
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeActionRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errorMessage string) error {
	f.failed[id] = errorMessage
	return nil
}

type fakeQueryRepo struct {
	rows    []map[string]any
	columns []string
	err     error
	lastSQL string
}

func (f *fakeQueryRepo) Execute(ctx context.Context, tx *gorm.DB, sqlText string) ([]map[string]any, []string, error) {
	f.lastSQL = sqlText
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.rows, f.columns, nil
}

// fakeSlackService records what was sent.
type fakeSlackService struct {
	sendOK         bool
	insightReports []*types.Insight
	alerts         []DataAlert
	messages       []SlackMessage
}

func (f *fakeSlackService) SendMessage(ctx context.Context, msg SlackMessage) bool {
	f.messages = append(f.messages, msg)
	return f.sendOK
}

func (f *fakeSlackService) SendInsightReport(ctx context.Context, insight *types.Insight) bool {
	f.insightReports = append(f.insightReports, insight)
	return f.sendOK
}

func (f *fakeSlackService) SendAlert(ctx context.Context, alert DataAlert) bool {
	f.alerts = append(f.alerts, alert)
	return f.sendOK
}
