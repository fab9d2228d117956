package handlers

import (
	"encoding/json"
	"net/http"

	hcommon "gcli2api-go/internal/handlers/common"
	"gcli2api-go/internal/sse"
	"gcli2api-go/internal/translator"
	"github.com/gin-gonic/gin"
)

// ChatCompletions implements POST /v1/chat/completions.
func (d *Deps) ChatCompletions(c *gin.Context) {
	var req translator.OpenAIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_request_error", "malformed request body: "+err.Error())
		return
	}
	if req.Model == "" || len(req.Messages) == 0 {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_request_error", "model and messages are required")
		return
	}

	greq := translator.OpenAIToGemini(&req)
	d.sanitizeTools(greq)

	prepared, err := d.prepare(c.Request.Context())
	if err != nil {
		hcommon.AbortWithError(c, http.StatusServiceUnavailable, "no_credentials_available", err.Error())
		return
	}
	snap := prepared.cred.Clone()

	if req.Stream {
		d.streamOpenAI(c, req.Model, snap.AccessToken, prepared.projectID, greq)
		return
	}

	body, err := d.Upstream.CallCodeAssist(c.Request.Context(), snap.AccessToken, prepared.projectID, "generateContent", greq)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}

	var resp struct {
		Response *json.RawMessage `json:"response"`
	}
	_ = json.Unmarshal(body, &resp)
	payload := body
	if resp.Response != nil {
		payload = *resp.Response
	}

	gresp, err := decodeGeminiResponse(payload)
	if err != nil {
		hcommon.AbortWithError(c, http.StatusBadGateway, "malformed_upstream_content", err.Error())
		return
	}

	c.JSON(http.StatusOK, translator.GeminiToOpenAI(req.Model, gresp))
}

func (d *Deps) streamOpenAI(c *gin.Context, model, accessToken, projectID string, greq any) {
	upstreamResp, err := d.Upstream.StreamCodeAssist(c.Request.Context(), accessToken, projectID, "streamGenerateContent", greq)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}
	defer upstreamResp.Body.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	flusher, _ := c.Writer.(http.Flusher)

	reader := sse.NewReader(upstreamResp.Body)
	state := translator.NewOpenAIStreamState(model)

	for {
		chunk, err := reader.Next()
		if err != nil {
			break
		}
		for _, out := range state.OnChunk(chunk) {
			_ = hcommon.SSEWriteData(c.Writer, flusher, out)
		}
	}
	_ = hcommon.SSEWriteDone(c.Writer, flusher)
}
