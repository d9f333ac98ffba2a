package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// DataAlert is the generic alert shape. Severity is info, warning or error.
type DataAlert struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// SlackMessage is the provider wire shape for chat.postMessage.
type SlackMessage struct {
	Channel     string `json:"channel"`
	Text        string `json:"text"`
	Attachments []any  `json:"attachments,omitempty"`
	Blocks      []any  `json:"blocks,omitempty"`
}

// SlackService posts to the chat provider. Every operation reports success as
// a boolean; network and provider failures are logged and mapped to false,
// never returned as errors.
type SlackService interface {
	SendMessage(ctx context.Context, msg SlackMessage) bool
	SendInsightReport(ctx context.Context, insight *types.Insight) bool
	SendAlert(ctx context.Context, alert DataAlert) bool
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
	BaseURL   string
	Timeout   time.Duration
}

func SlackConfigFromEnv() SlackConfig {
	baseURL := strings.TrimSpace(os.Getenv("SLACK_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://slack.com"
	}
	return SlackConfig{
		BotToken:  strings.TrimSpace(os.Getenv("SLACK_BOT_TOKEN")),
		ChannelID: strings.TrimSpace(os.Getenv("SLACK_CHANNEL_ID")),
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Timeout:   30 * time.Second,
	}
}

type slackService struct {
	log        *logger.Logger
	cfg        SlackConfig
	httpClient *http.Client
}

func NewSlackService(log *logger.Logger, cfg SlackConfig) SlackService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &slackService{
		log:        log.With("service", "SlackService"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *slackService) SendMessage(ctx context.Context, msg SlackMessage) bool {
	if msg.Channel == "" {
		msg.Channel = s.cfg.ChannelID
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(msg); err != nil {
		s.log.Warn("Slack message encode failed", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.BaseURL+"/api/chat.postMessage", &buf)
	if err != nil {
		s.log.Warn("Slack request build failed", "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.BotToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("Slack message failed", "error", err)
		return false
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		s.log.Warn("Slack response read failed", "error", readErr)
		return false
	}

	var result postMessageResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		s.log.Warn("Slack response decode failed", "error", err, "body", string(raw))
		return false
	}
	if !result.OK {
		s.log.Warn("Slack rejected message", "provider_error", result.Error)
	}
	return result.OK
}

func (s *slackService) SendInsightReport(ctx context.Context, insight *types.Insight) bool {
	if insight == nil {
		return false
	}

	blocks := []any{
		map[string]any{
			"type": "header",
			"text": map[string]any{
				"type": "plain_text",
				"text": "🧠 New AI Insight Generated",
			},
		},
		map[string]any{
			"type": "section",
			"fields": []any{
				map[string]any{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Title:*\n%s", insight.Title),
				},
				map[string]any{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Confidence:*\n%d%%", int(math.Round(insight.ConfidenceScore*100))),
				},
			},
		},
	}

	var payload struct {
		Insights        []string `json:"insights"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(insight.Insights, &payload); err != nil {
		s.log.Debug("Insight payload not in expected shape", "error", err)
	}
	if len(payload.Insights) > 0 {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("*Key Insights:*\n%s", bulletList(payload.Insights, 3)),
			},
		})
	}
	if len(payload.Recommendations) > 0 {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("*Recommendations:*\n%s", bulletList(payload.Recommendations, 3)),
			},
		})
	}

	return s.SendMessage(ctx, SlackMessage{
		Channel: s.cfg.ChannelID,
		Text:    "New AI Insight Generated",
		Blocks:  blocks,
	})
}

func (s *slackService) SendAlert(ctx context.Context, alert DataAlert) bool {
	var color, emoji string
	switch alert.Severity {
	case "error":
		color, emoji = "#FF0000", "🚨"
	case "warning":
		color, emoji = "#FFA500", "⚠️"
	default:
		color, emoji = "#00FF00", "ℹ️"
	}

	return s.SendMessage(ctx, SlackMessage{
		Channel: s.cfg.ChannelID,
		Text:    fmt.Sprintf("%s %s", emoji, alert.Title),
		Attachments: []any{
			map[string]any{
				"color": color,
				"fields": []any{
					map[string]any{
						"title": alert.Title,
						"value": alert.Message,
						"short": false,
					},
				},
				"footer": "LucidBI Alert System",
				"ts":     time.Now().Unix(),
			},
		},
	})
}

func bulletList(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}
