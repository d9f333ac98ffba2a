package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
)

func newTestAIClient(t *testing.T, handler http.HandlerFunc) AIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	client, err := NewAIClient(testLogger(t))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestNewAIClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewAIClient(testLogger(t))
	apiErr, ok := apierr.From(err)
	if !ok || apiErr.Code != apierr.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAIClient_Embed(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq embeddingsRequest
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{0.5, -0.25}, "index": 0}},
		})
	})

	vec, err := client.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/embeddings" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "text-embedding-3-small" || len(gotReq.Input) != 1 || gotReq.Input[0] != "hello" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if len(vec) != 2 || vec[0] != 0.5 || vec[1] != -0.25 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestAIClient_EmbedProviderErrorIsAdapterError(t *testing.T) {
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.Embed(context.Background(), "hello")
	apiErr, ok := apierr.From(err)
	if !ok || apiErr.Code != apierr.CodeAdapter {
		t.Fatalf("expected adapter error, got %v", err)
	}
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestAIClient_GenerateSQLStripsFences(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bare", "SELECT 1", "SELECT 1"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"plain fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"padded", "  SELECT 1  ", "SELECT 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(chatResponse(tc.content))
			})
			got, err := client.GenerateSQL(context.Background(), "count rows", "schema")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAIClient_GenerateSQLPromptCarriesQuestionAndSchema(t *testing.T) {
	var gotReq chatCompletionRequest
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chatResponse("SELECT 1"))
	})

	if _, err := client.GenerateSQL(context.Background(), "total revenue?", "TABLE sales"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(gotReq.Messages))
	}
	prompt := gotReq.Messages[0].Content
	if !strings.Contains(prompt, "total revenue?") || !strings.Contains(prompt, "TABLE sales") {
		t.Fatalf("prompt missing inputs: %q", prompt)
	}
	if gotReq.Temperature != 0.1 {
		t.Fatalf("unexpected temperature: %v", gotReq.Temperature)
	}
}

func TestAIClient_AnalyzeDataDecodesJSON(t *testing.T) {
	var gotReq chatCompletionRequest
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chatResponse(`{
			"insights": ["sales rose"],
			"recommendations": ["hire more"],
			"confidence": 0.85,
			"charts": [{"type":"bar","title":"Sales","data":[],"xAxis":"month","yAxis":"revenue"}]
		}`))
	})

	result, err := client.AnalyzeData(context.Background(), []map[string]any{{"revenue": 100}}, "test context")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", gotReq.ResponseFormat)
	}
	if len(result.Insights) != 1 || result.Insights[0] != "sales rose" {
		t.Fatalf("unexpected insights: %v", result.Insights)
	}
	if result.Confidence != 0.85 {
		t.Fatalf("unexpected confidence: %v", result.Confidence)
	}
	if len(result.Charts) != 1 || result.Charts[0].Type != "bar" {
		t.Fatalf("unexpected charts: %+v", result.Charts)
	}
}

func TestAIClient_AnalyzeDataRejectsMalformedJSON(t *testing.T) {
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("not json at all"))
	})

	_, err := client.AnalyzeData(context.Background(), []map[string]any{{"a": 1}}, "ctx")
	apiErr, ok := apierr.From(err)
	if !ok || apiErr.Code != apierr.CodeAdapter {
		t.Fatalf("expected adapter error, got %v", err)
	}
}

func TestAIClient_GenerateReportReturnsMarkdown(t *testing.T) {
	client := newTestAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("# Executive Summary\nAll good."))
	})

	report, err := client.GenerateReport(context.Background(), &AnalysisResult{Confidence: 0.9}, map[string]any{"dataSize": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(report, "# Executive Summary") {
		t.Fatalf("unexpected report: %q", report)
	}
}
