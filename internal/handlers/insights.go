package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

type InsightsHandler struct {
	log            *logger.Logger
	insightService services.InsightService
}

func NewInsightsHandler(log *logger.Logger, insightService services.InsightService) *InsightsHandler {
	return &InsightsHandler{log: log.With("handler", "InsightsHandler"), insightService: insightService}
}

func (ih *InsightsHandler) Generate(c *gin.Context) {
	var req struct {
		Data    []map[string]any `json:"data"`
		Context string           `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	generated, err := ih.insightService.Generate(c.Request.Context(), req.Data, req.Context)
	if err != nil {
		respondError(c, ih.log, err)
		return
	}
	respondCreated(c, generated)
}

func (ih *InsightsHandler) List(c *gin.Context) {
	insights, err := ih.insightService.List(c.Request.Context())
	if err != nil {
		respondError(c, ih.log, err)
		return
	}
	respondOK(c, insights)
}

func (ih *InsightsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid insight id")
		return
	}
	insight, err := ih.insightService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, ih.log, err)
		return
	}
	respondOK(c, insight)
}
