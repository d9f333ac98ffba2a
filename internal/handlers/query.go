package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

type QueryHandler struct {
	log          *logger.Logger
	queryService services.QueryService
}

func NewQueryHandler(log *logger.Logger, queryService services.QueryService) *QueryHandler {
	return &QueryHandler{log: log.With("handler", "QueryHandler"), queryService: queryService}
}

func (qh *QueryHandler) Execute(c *gin.Context) {
	var req struct {
		Query           string `json:"query"`
		NaturalLanguage string `json:"naturalLanguage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	result, err := qh.queryService.Execute(c.Request.Context(), req.Query, req.NaturalLanguage)
	if err != nil {
		respondError(c, qh.log, err)
		return
	}
	respondOK(c, result)
}

func (qh *QueryHandler) SampleQueries(c *gin.Context) {
	respondOK(c, gin.H{"sampleQueries": qh.queryService.SampleQueries()})
}
