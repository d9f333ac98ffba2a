package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

type DataHandler struct {
	log         *logger.Logger
	dataService services.DataService
}

func NewDataHandler(log *logger.Logger, dataService services.DataService) *DataHandler {
	return &DataHandler{log: log.With("handler", "DataHandler"), dataService: dataService}
}

func (dh *DataHandler) Ingest(c *gin.Context) {
	var req struct {
		Source   string          `json:"source"`
		Type     string          `json:"type"`
		Content  json.RawMessage `json:"content"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	result, err := dh.dataService.Ingest(c.Request.Context(), req.Source, req.Type, req.Content, req.Metadata)
	if err != nil {
		respondError(c, dh.log, err)
		return
	}
	respondCreated(c, result)
}

func (dh *DataHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := dh.dataService.List(c.Request.Context(), c.Query("source"), c.Query("type"), limit)
	if err != nil {
		respondError(c, dh.log, err)
		return
	}
	respondOK(c, records)
}

func (dh *DataHandler) Delete(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(c, "invalid id: "+raw)
			return
		}
		ids = append(ids, id)
	}
	if err := dh.dataService.Delete(c.Request.Context(), ids); err != nil {
		respondError(c, dh.log, err)
		return
	}
	respondMessage(c, nil, "Data deleted successfully")
}

func (dh *DataHandler) Search(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	matches, err := dh.dataService.SearchSimilar(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		respondError(c, dh.log, err)
		return
	}
	respondOK(c, matches)
}
