package handlers

import (
	"net/http"
	"strings"
	"time"

	hcommon "gcli2api-go/internal/handlers/common"
	"gcli2api-go/internal/gemini"
	"gcli2api-go/internal/utils"
	"github.com/gin-gonic/gin"
)

// ListModelsOpenAI implements GET /v1/models.
func (d *Deps) ListModelsOpenAI(c *gin.Context) {
	items := make([]gin.H, 0, len(gemini.KnownModels))
	for _, id := range gemini.KnownModels {
		items = append(items, gin.H{
			"id":       id,
			"object":   "model",
			"owned_by": "google",
		})
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": items})
}

// GetModelOpenAI implements GET /v1/models/:id.
func (d *Deps) GetModelOpenAI(c *gin.Context) {
	id := c.Param("id")
	if strings.TrimSpace(id) == "" {
		hcommon.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "missing model id")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "object": "model", "owned_by": "google"})
}

// ListModelsGemini implements GET /v1beta/models.
func (d *Deps) ListModelsGemini(c *gin.Context) {
	items := make([]gin.H, 0, len(gemini.KnownModels))
	for _, id := range gemini.KnownModels {
		items = append(items, gin.H{
			"name":                       "models/" + id,
			"baseModelId":                id,
			"supportedGenerationMethods": []string{"generateContent", "streamGenerateContent", "countTokens"},
		})
	}
	c.JSON(http.StatusOK, gin.H{"models": items})
}

// Health implements GET /health — a liveness probe that reports whether at
// least one credential is currently usable.
func (d *Deps) Health(c *gin.Context) {
	count := 0
	if d.Credentials != nil {
		count = d.Credentials.UsableCount()
	}
	status := http.StatusOK
	if count == 0 {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":      "ok",
		"credentials": count,
		"server_time": d.displayTime(),
	})
}

// displayTime formats the current time in the operator's configured display
// timezone, falling back to UTC if none was set or it fails to resolve.
func (d *Deps) displayTime() string {
	tz := ""
	if d.Config != nil {
		tz = d.Config.Security.DisplayTimezone
	}
	loc, err := utils.ParseLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format(time.RFC3339)
}

// Root implements GET / with a minimal service banner.
func (d *Deps) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "gcli2api-go", "status": "running"})
}
