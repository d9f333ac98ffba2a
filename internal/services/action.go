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

// ActionHandler executes one action type. A false result marks the action
// failed with the given reason; handlers do not return errors.
type ActionHandler func(ctx context.Context, action *types.Action) (ok bool, reason string)

type ActionService interface {
	Create(ctx context.Context, actionType string, config json.RawMessage, insightID *uuid.UUID, scheduledAt *time.Time) (*types.Action, error)
	List(ctx context.Context) ([]*types.Action, error)
	// Register installs a handler for an action type. New types plug in
	// here instead of growing a conditional.
	Register(actionType string, handler ActionHandler)
}

type actionService struct {
	db           *gorm.DB
	log          *logger.Logger
	actionRepo   repos.ActionRepo
	insightRepo  repos.InsightRepo
	slackService SlackService
	handlers     map[string]ActionHandler
}

func NewActionService(db *gorm.DB, log *logger.Logger, actionRepo repos.ActionRepo, insightRepo repos.InsightRepo, slackService SlackService) ActionService {
	serviceLog := log.With("service", "ActionService")
	as := &actionService{
		db:           db,
		log:          serviceLog,
		actionRepo:   actionRepo,
		insightRepo:  insightRepo,
		slackService: slackService,
		handlers:     map[string]ActionHandler{},
	}
	as.Register(types.ActionTypeSlackReport, as.handleSlackReport)
	as.Register(types.ActionTypeAlert, as.handleAlert)
	as.Register(types.ActionTypeDashboardUpdate, as.handleDashboardUpdate)
	as.Register(types.ActionTypeEmail, as.handleEmail)
	return as
}

func (as *actionService) Register(actionType string, handler ActionHandler) {
	as.handlers[actionType] = handler
}

func (as *actionService) Create(ctx context.Context, actionType string, config json.RawMessage, insightID *uuid.UUID, scheduledAt *time.Time) (*types.Action, error) {
	if actionType == "" || len(config) == 0 {
		return nil, apierr.Validation("type and config are required")
	}
	if !json.Valid(config) {
		return nil, apierr.Validation("config must be valid JSON")
	}

	action := &types.Action{
		ID:          uuid.New(),
		Type:        actionType,
		Config:      datatypes.JSON(config),
		Status:      types.ActionStatusPending,
		InsightID:   insightID,
		ScheduledAt: scheduledAt,
	}
	if _, err := as.actionRepo.Create(ctx, nil, []*types.Action{action}); err != nil {
		return nil, apierr.Database(err)
	}

	// Scheduled actions stay pending; nothing revisits them yet.
	if scheduledAt != nil {
		return action, nil
	}

	ok, reason := as.execute(ctx, action)
	if ok {
		executedAt := time.Now()
		if err := as.actionRepo.MarkCompleted(ctx, nil, action.ID, executedAt); err != nil {
			return nil, apierr.Database(err)
		}
		action.Status = types.ActionStatusCompleted
		action.ExecutedAt = &executedAt
	} else {
		if reason == "" {
			reason = "Execution failed"
		}
		if err := as.actionRepo.MarkFailed(ctx, nil, action.ID, reason); err != nil {
			return nil, apierr.Database(err)
		}
		action.Status = types.ActionStatusFailed
		action.ErrorMessage = reason
	}
	return action, nil
}

func (as *actionService) execute(ctx context.Context, action *types.Action) (bool, string) {
	handler, found := as.handlers[action.Type]
	if !found {
		as.log.Warn("Unknown action type", "type", action.Type)
		return false, fmt.Sprintf("unknown action type %q", action.Type)
	}
	return handler(ctx, action)
}

func (as *actionService) handleSlackReport(ctx context.Context, action *types.Action) (bool, string) {
	if action.InsightID == nil {
		return false, "slack_report requires an insight_id"
	}
	found, err := as.insightRepo.GetByIDs(ctx, nil, []uuid.UUID{*action.InsightID})
	if err != nil {
		return false, fmt.Sprintf("failed to load insight: %v", err)
	}
	if len(found) == 0 || found[0] == nil {
		return false, fmt.Sprintf("insight %s not found", action.InsightID)
	}
	if !as.slackService.SendInsightReport(ctx, found[0]) {
		return false, "slack delivery failed"
	}
	return true, ""
}

func (as *actionService) handleAlert(ctx context.Context, action *types.Action) (bool, string) {
	alert := DataAlert{
		Title:    "LucidBI Alert",
		Message:  "Alert triggered",
		Severity: "info",
	}
	var cfg struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Severity string `json:"severity"`
	}
	if err := json.Unmarshal(action.Config, &cfg); err == nil {
		if cfg.Title != "" {
			alert.Title = cfg.Title
		}
		if cfg.Message != "" {
			alert.Message = cfg.Message
		}
		if cfg.Severity != "" {
			alert.Severity = cfg.Severity
		}
	}
	if !as.slackService.SendAlert(ctx, alert) {
		return false, "slack delivery failed"
	}
	return true, ""
}

func (as *actionService) handleDashboardUpdate(ctx context.Context, action *types.Action) (bool, string) {
	// Accepted stub
	as.log.Info("Dashboard update requested", "config", string(action.Config))
	return true, ""
}

func (as *actionService) handleEmail(ctx context.Context, action *types.Action) (bool, string) {
	// Accepted stub
	as.log.Info("Email requested", "config", string(action.Config))
	return true, ""
}

func (as *actionService) List(ctx context.Context) ([]*types.Action, error) {
	actions, err := as.actionRepo.List(ctx, nil, 50)
	if err != nil {
		return nil, apierr.Database(err)
	}
	return actions, nil
}
