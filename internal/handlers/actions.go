package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

type ActionsHandler struct {
	log           *logger.Logger
	actionService services.ActionService
}

func NewActionsHandler(log *logger.Logger, actionService services.ActionService) *ActionsHandler {
	return &ActionsHandler{log: log.With("handler", "ActionsHandler"), actionService: actionService}
}

func (ah *ActionsHandler) Create(c *gin.Context) {
	var req struct {
		Type        string          `json:"type"`
		Config      json.RawMessage `json:"config"`
		InsightID   string          `json:"insightId"`
		ScheduledAt string          `json:"scheduledAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var insightID *uuid.UUID
	if req.InsightID != "" {
		id, err := uuid.Parse(req.InsightID)
		if err != nil {
			respondBadRequest(c, "invalid insight id")
			return
		}
		insightID = &id
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			respondBadRequest(c, "scheduledAt must be RFC3339")
			return
		}
		scheduledAt = &at
	}

	action, err := ah.actionService.Create(c.Request.Context(), req.Type, req.Config, insightID, scheduledAt)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	respondCreated(c, action)
}

func (ah *ActionsHandler) List(c *gin.Context) {
	actions, err := ah.actionService.List(c.Request.Context())
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	respondOK(c, actions)
}
