package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// IngestResult reports the two independent outcomes of one ingestion: the
// primary record always exists when err is nil; the embedding side effect may
// have failed on its own, in which case EmbeddingErr says why.
type IngestResult struct {
	ID              uuid.UUID `json:"id"`
	EmbeddingStored bool      `json:"embedding_stored"`
	EmbeddingErr    string    `json:"embedding_error,omitempty"`
}

type DataService interface {
	Ingest(ctx context.Context, source, dtype string, content json.RawMessage, metadata json.RawMessage) (*IngestResult, error)
	List(ctx context.Context, source, dtype string, limit int) ([]*types.BusinessData, error)
	Delete(ctx context.Context, ids []uuid.UUID) error
	SearchSimilar(ctx context.Context, query string, limit int) ([]*repos.SimilarMatch, error)
}

type dataService struct {
	db           *gorm.DB
	log          *logger.Logger
	businessRepo repos.BusinessDataRepo
	vectorRepo   repos.VectorDataRepo
	aiClient     AIClient
}

func NewDataService(db *gorm.DB, log *logger.Logger, businessRepo repos.BusinessDataRepo, vectorRepo repos.VectorDataRepo, aiClient AIClient) DataService {
	serviceLog := log.With("service", "DataService")
	return &dataService{
		db:           db,
		log:          serviceLog,
		businessRepo: businessRepo,
		vectorRepo:   vectorRepo,
		aiClient:     aiClient,
	}
}

func (ds *dataService) Ingest(ctx context.Context, source, dtype string, content json.RawMessage, metadata json.RawMessage) (*IngestResult, error) {
	if source == "" || dtype == "" || len(content) == 0 {
		return nil, apierr.Validation("source, type and content are required")
	}
	if dtype != types.DataTypeStructured && dtype != types.DataTypeUnstructured {
		return nil, apierr.Validation("type must be structured or unstructured")
	}
	if !json.Valid(content) {
		return nil, apierr.Validation("content must be valid JSON")
	}

	record := &types.BusinessData{
		ID:      uuid.New(),
		Source:  source,
		Type:    dtype,
		Content: datatypes.JSON(content),
	}
	if len(metadata) > 0 {
		record.Metadata = datatypes.JSON(metadata)
	}

	if _, err := ds.businessRepo.Create(ctx, nil, []*types.BusinessData{record}); err != nil {
		return nil, apierr.Database(err)
	}

	result := &IngestResult{ID: record.ID}

	// Embedding is best-effort: a provider outage must never lose the
	// primary record.
	if text, ok := unstructuredText(dtype, content); ok {
		embedding, err := ds.aiClient.Embed(ctx, text)
		if err != nil {
			ds.log.Warn("Failed to generate embedding", "business_data_id", record.ID, "error", err)
			result.EmbeddingErr = err.Error()
			return result, nil
		}
		vector := &types.VectorData{
			ID:             uuid.New(),
			Content:        text,
			Embedding:      pgvector.NewVector(embedding),
			Metadata:       record.Metadata,
			BusinessDataID: record.ID,
		}
		if _, err := ds.vectorRepo.Create(ctx, nil, []*types.VectorData{vector}); err != nil {
			ds.log.Warn("Failed to store embedding", "business_data_id", record.ID, "error", err)
			result.EmbeddingErr = err.Error()
			return result, nil
		}
		result.EmbeddingStored = true
	}

	return result, nil
}

// unstructuredText reports whether the record should be embedded and returns
// the raw text. Only unstructured records whose content is a JSON string
// qualify.
func unstructuredText(dtype string, content json.RawMessage) (string, bool) {
	if dtype != types.DataTypeUnstructured {
		return "", false
	}
	var text string
	if err := json.Unmarshal(content, &text); err != nil {
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

func (ds *dataService) List(ctx context.Context, source, dtype string, limit int) ([]*types.BusinessData, error) {
	records, err := ds.businessRepo.List(ctx, nil, source, dtype, limit)
	if err != nil {
		return nil, apierr.Database(err)
	}
	return records, nil
}

func (ds *dataService) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apierr.Validation("at least one id is required")
	}
	if err := ds.businessRepo.DeleteByIDs(ctx, nil, ids); err != nil {
		return apierr.Database(err)
	}
	return nil
}

func (ds *dataService) SearchSimilar(ctx context.Context, query string, limit int) ([]*repos.SimilarMatch, error) {
	if query == "" {
		return nil, apierr.Validation("query is required")
	}
	embedding, err := ds.aiClient.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	matches, err := ds.vectorRepo.SearchSimilar(ctx, nil, embedding, limit)
	if err != nil {
		return nil, apierr.Database(err)
	}
	return matches, nil
}
