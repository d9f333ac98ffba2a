package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
)

// Every API response uses the same envelope: {success, data?, error?, message?}.

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "message": message})
}

// genericMessages replace internal error text on the wire. Driver errors and
// provider response bodies never reach the client.
var genericMessages = map[string]string{
	apierr.CodeDatabase:      "Database operation failed",
	apierr.CodeAdapter:       "AI service request failed",
	apierr.CodeConfiguration: "Server configuration error",
}

// respondError maps an error to the envelope. Validation, auth and conflict
// errors carry their message and status to the client; everything else is
// logged here and collapsed to a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	if apiErr, ok := apierr.From(err); ok {
		switch apiErr.Code {
		case apierr.CodeValidation, apierr.CodeAuth, apierr.CodeConflict:
			c.JSON(apiErr.Status, gin.H{"success": false, "error": err.Error()})
			return
		default:
			message, known := genericMessages[apiErr.Code]
			if !known {
				message = "Internal server error"
			}
			if log != nil {
				log.Error("Request failed", "path", c.FullPath(), "code", apiErr.Code, "error", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": message})
			return
		}
	}
	if log != nil {
		log.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
