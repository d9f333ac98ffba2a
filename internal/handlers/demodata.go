package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

type DemoDataHandler struct {
	log             *logger.Logger
	demoDataService services.DemoDataService
}

func NewDemoDataHandler(log *logger.Logger, demoDataService services.DemoDataService) *DemoDataHandler {
	return &DemoDataHandler{log: log.With("handler", "DemoDataHandler"), demoDataService: demoDataService}
}

func (dh *DemoDataHandler) Load(c *gin.Context) {
	var req struct {
		Dataset string `json:"dataset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	result, err := dh.demoDataService.Load(c.Request.Context(), req.Dataset)
	if err != nil {
		respondError(c, dh.log, err)
		return
	}
	respondMessage(c, result, result.Message)
}

func (dh *DemoDataHandler) Describe(c *gin.Context) {
	respondOK(c, dh.demoDataService.Describe())
}
