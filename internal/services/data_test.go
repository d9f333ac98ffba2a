package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

func TestDataService_IngestStructuredSkipsEmbedding(t *testing.T) {
	ai := &fakeAIClient{}
	businessRepo := &fakeBusinessDataRepo{}
	vectorRepo := &fakeVectorDataRepo{}
	svc := NewDataService(nil, testLogger(t), businessRepo, vectorRepo, ai)

	result, err := svc.Ingest(context.Background(), "crm", types.DataTypeStructured, json.RawMessage(`{"amount": 42}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.embedCalls != 0 {
		t.Fatalf("structured data must not be embedded, got %d calls", ai.embedCalls)
	}
	if result.EmbeddingStored {
		t.Fatalf("expected no stored embedding")
	}
	if len(businessRepo.created) != 1 {
		t.Fatalf("expected one stored record, got %d", len(businessRepo.created))
	}
}

func TestDataService_IngestUnstructuredEmbedsExactlyOnce(t *testing.T) {
	ai := &fakeAIClient{}
	businessRepo := &fakeBusinessDataRepo{}
	vectorRepo := &fakeVectorDataRepo{}
	svc := NewDataService(nil, testLogger(t), businessRepo, vectorRepo, ai)

	result, err := svc.Ingest(context.Background(), "notes", types.DataTypeUnstructured, json.RawMessage(`"customer likes the product"`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.embedCalls != 1 {
		t.Fatalf("expected exactly one embed call, got %d", ai.embedCalls)
	}
	if !result.EmbeddingStored || result.EmbeddingErr != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(vectorRepo.created) != 1 {
		t.Fatalf("expected one vector record, got %d", len(vectorRepo.created))
	}
	if vectorRepo.created[0].Content != "customer likes the product" {
		t.Fatalf("unexpected vector content: %q", vectorRepo.created[0].Content)
	}
}

func TestDataService_IngestSurvivesEmbeddingFailure(t *testing.T) {
	ai := &fakeAIClient{embedErr: fmt.Errorf("provider down")}
	businessRepo := &fakeBusinessDataRepo{}
	vectorRepo := &fakeVectorDataRepo{}
	svc := NewDataService(nil, testLogger(t), businessRepo, vectorRepo, ai)

	result, err := svc.Ingest(context.Background(), "notes", types.DataTypeUnstructured, json.RawMessage(`"some text"`), nil)
	if err != nil {
		t.Fatalf("ingestion must succeed despite embedding failure: %v", err)
	}
	if result.EmbeddingStored {
		t.Fatalf("expected embedding not stored")
	}
	if result.EmbeddingErr == "" {
		t.Fatalf("expected the embedding failure to be reported")
	}
	if len(businessRepo.created) != 1 {
		t.Fatalf("primary record must still be stored")
	}
}

func TestDataService_IngestValidation(t *testing.T) {
	svc := NewDataService(nil, testLogger(t), &fakeBusinessDataRepo{}, &fakeVectorDataRepo{}, &fakeAIClient{})

	cases := []struct {
		name    string
		source  string
		dtype   string
		content json.RawMessage
	}{
		{"missing source", "", types.DataTypeStructured, json.RawMessage(`{}`)},
		{"missing content", "crm", types.DataTypeStructured, nil},
		{"bad type", "crm", "fancy", json.RawMessage(`{}`)},
		{"invalid json", "crm", types.DataTypeStructured, json.RawMessage(`{broken`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tc.source, tc.dtype, tc.content, nil)
			apiErr, ok := apierr.From(err)
			if !ok || apiErr.Code != apierr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDataService_SearchSimilarEmbedsQuery(t *testing.T) {
	ai := &fakeAIClient{}
	vectorRepo := &fakeVectorDataRepo{
		searchMatches: []*repos.SimilarMatch{{Content: "match", Distance: 0.2}},
	}
	svc := NewDataService(nil, testLogger(t), &fakeBusinessDataRepo{}, vectorRepo, ai)

	matches, err := svc.SearchSimilar(context.Background(), "happy customers", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.embedCalls != 1 || vectorRepo.searchCalls != 1 {
		t.Fatalf("expected one embed and one search, got %d/%d", ai.embedCalls, vectorRepo.searchCalls)
	}
	if len(matches) != 1 || matches[0].Content != "match" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestDataService_DeleteRequiresIDs(t *testing.T) {
	svc := NewDataService(nil, testLogger(t), &fakeBusinessDataRepo{}, &fakeVectorDataRepo{}, &fakeAIClient{})

	err := svc.Delete(context.Background(), nil)
	apiErr, ok := apierr.From(err)
	if !ok || apiErr.Code != apierr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDataService_DeleteScopesToRequestedIDs(t *testing.T) {
	businessRepo := &fakeBusinessDataRepo{}
	svc := NewDataService(nil, testLogger(t), businessRepo, &fakeVectorDataRepo{}, &fakeAIClient{})

	keep := uuid.New()
	remove := []uuid.UUID{uuid.New(), uuid.New()}
	if err := svc.Delete(context.Background(), remove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(businessRepo.deleted) != 2 {
		t.Fatalf("expected two deletions, got %d", len(businessRepo.deleted))
	}
	for _, id := range businessRepo.deleted {
		if id == keep {
			t.Fatalf("unrelated record was deleted")
		}
		if id != remove[0] && id != remove[1] {
			t.Fatalf("unexpected id deleted: %s", id)
		}
	}
}
