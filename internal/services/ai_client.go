package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
)

// ChartConfig is a chart suggestion returned by the analysis model.
type ChartConfig struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Data  []any  `json:"data"`
	XAxis string `json:"xAxis,omitempty"`
	YAxis string `json:"yAxis,omitempty"`
}

// AnalysisResult is the structured payload of one analysis call. Confidence
// is a 0-1 fraction.
type AnalysisResult struct {
	Insights        []string      `json:"insights"`
	Recommendations []string      `json:"recommendations"`
	Confidence      float64       `json:"confidence"`
	Charts          []ChartConfig `json:"charts,omitempty"`
}

// AIClient wraps the provider's embedding, text-to-SQL, analysis and report
// calls. Every operation is a single request/response; provider failures
// surface as adapter errors and are never retried here.
type AIClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	GenerateSQL(ctx context.Context, question, schema string) (string, error)
	AnalyzeData(ctx context.Context, records []map[string]any, analysisContext string) (*AnalysisResult, error)
	GenerateReport(ctx context.Context, analysis *AnalysisResult, metadata map[string]any) (string, error)
}

type aiClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	httpClient *http.Client
}

func NewAIClient(log *logger.Logger) (AIClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, apierr.Configuration("missing OPENAI_API_KEY")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4-turbo-preview"
	}

	embed := os.Getenv("OPENAI_EMBED_MODEL")
	if embed == "" {
		embed = "text-embedding-3-small"
	}

	timeoutSec := 60
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &aiClient{
		log:        log.With("service", "AIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		embedModel: embed,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type aiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *aiHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (c *aiClient) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &aiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
	}
	return nil
}

// ---- Embeddings ----

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *aiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embeddingsRequest{
		Model: c.embedModel,
		Input: []string{text},
	}
	var resp embeddingsResponse
	if err := c.do(ctx, "POST", "/v1/embeddings", req, &resp); err != nil {
		return nil, apierr.Adapter(fmt.Errorf("embedding call failed: %w", err))
	}
	if len(resp.Data) == 0 {
		return nil, apierr.Adapter(fmt.Errorf("embedding response contained no data"))
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, f := range resp.Data[0].Embedding {
		vec[i] = float32(f)
	}
	return vec, nil
}

// ---- Chat completions ----

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *aiClient) complete(ctx context.Context, prompt string, temperature float64, jsonMode bool) (string, error) {
	req := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}
	if jsonMode {
		req.ResponseFormat = map[string]any{"type": "json_object"}
	}
	var resp chatCompletionResponse
	if err := c.do(ctx, "POST", "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *aiClient) GenerateSQL(ctx context.Context, question, schema string) (string, error) {
	prompt := fmt.Sprintf(`
Given the following database schema:
%s

Generate a SQL query to answer this question: %s

Return only the SQL query without any explanations.
`, schema, question)

	out, err := c.complete(ctx, prompt, 0.1, false)
	if err != nil {
		return "", apierr.Adapter(fmt.Errorf("sql generation failed: %w", err))
	}
	return stripSQLFences(out), nil
}

// stripSQLFences removes markdown code fences the model sometimes wraps
// around generated SQL.
func stripSQLFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func (c *aiClient) AnalyzeData(ctx context.Context, records []map[string]any, analysisContext string) (*AnalysisResult, error) {
	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	prompt := fmt.Sprintf(`
Analyze the following business data and provide insights:

Context: %s
Data: %s

Please provide:
1. Key insights (3-5 bullet points)
2. Actionable recommendations (3-5 bullet points)
3. Confidence score (0-1)
4. Suggested chart types and configurations

Format your response as JSON with the following structure:
{
  "insights": ["insight1", "insight2", ...],
  "recommendations": ["rec1", "rec2", ...],
  "confidence": 0.85,
  "charts": [
    {
      "type": "bar",
      "title": "Chart Title",
      "data": [...],
      "xAxis": "field1",
      "yAxis": "field2"
    }
  ]
}
`, analysisContext, string(encoded))

	out, err := c.complete(ctx, prompt, 0.3, true)
	if err != nil {
		return nil, apierr.Adapter(fmt.Errorf("analysis call failed: %w", err))
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, apierr.Adapter(fmt.Errorf("failed to parse analysis JSON: %w; text=%s", err, out))
	}
	return &result, nil
}

func (c *aiClient) GenerateReport(ctx context.Context, analysis *AnalysisResult, metadata map[string]any) (string, error) {
	encodedAnalysis, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}
	encodedMeta, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	prompt := fmt.Sprintf(`
Generate a comprehensive business intelligence report based on these insights:

Insights: %s
Metadata: %s

Create a well-formatted markdown report with:
1. Executive Summary
2. Key Findings
3. Recommendations
4. Data Sources
5. Methodology Notes

Keep it professional and actionable.
`, string(encodedAnalysis), string(encodedMeta))

	out, err := c.complete(ctx, prompt, 0.4, false)
	if err != nil {
		return "", apierr.Adapter(fmt.Errorf("report generation failed: %w", err))
	}
	return out, nil
}
