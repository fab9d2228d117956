package handlers

import (
	"encoding/json"
	"net/http"

	hcommon "gcli2api-go/internal/handlers/common"
	"gcli2api-go/internal/gemini"
	"gcli2api-go/internal/sse"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// GenerateContent implements POST /v1beta/models/{model}:generateContent.
func (d *Deps) GenerateContent(c *gin.Context) {
	model := c.Param("model")

	var greq gemini.Request
	if err := c.ShouldBindJSON(&greq); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: "+err.Error())
		return
	}
	d.sanitizeTools(&greq)

	prepared, err := d.prepare(c.Request.Context())
	if err != nil {
		hcommon.AbortWithError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	snap := prepared.cred.Clone()

	body, err := d.Upstream.CallCodeAssist(c.Request.Context(), snap.AccessToken, prepared.projectID, model+":generateContent", greq)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}

	gresp, err := decodeGeminiResponse(body)
	if err != nil {
		hcommon.AbortWithError(c, http.StatusBadGateway, "internal", err.Error())
		return
	}
	c.JSON(http.StatusOK, gresp)
}

// StreamGenerateContent implements POST /v1beta/models/{model}:streamGenerateContent.
func (d *Deps) StreamGenerateContent(c *gin.Context) {
	model := c.Param("model")

	var greq gemini.Request
	if err := c.ShouldBindJSON(&greq); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: "+err.Error())
		return
	}
	d.sanitizeTools(&greq)

	prepared, err := d.prepare(c.Request.Context())
	if err != nil {
		hcommon.AbortWithError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	snap := prepared.cred.Clone()

	upstreamResp, err := d.Upstream.StreamCodeAssist(c.Request.Context(), snap.AccessToken, prepared.projectID, model+":streamGenerateContent", greq)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}
	defer upstreamResp.Body.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	flusher, _ := c.Writer.(http.Flusher)

	reader := sse.NewReader(upstreamResp.Body)
	for {
		chunk, err := reader.Next()
		if err != nil {
			break
		}
		_ = hcommon.SSEWriteData(c.Writer, flusher, chunk)
	}
}

// CountTokens implements POST /v1beta/models/{model}:countTokens. Code Assist
// exposes the same RPC name, so the request is forwarded mostly unmodified —
// the one exception is the "model" field, which the native Gemini wire
// format only carries in the URL path. It's stamped into the raw payload via
// a targeted JSON patch rather than decode-mutate-reencode, so any field the
// caller sent that the canonical request type doesn't model survives
// untouched.
func (d *Deps) CountTokens(c *gin.Context) {
	model := c.Param("model")

	raw, err := c.GetRawData()
	if err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: "+err.Error())
		return
	}
	if !gjson.ValidBytes(raw) {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: invalid JSON")
		return
	}
	if !gjson.GetBytes(raw, "model").Exists() {
		patched, err := sjson.SetBytes(raw, "model", "models/"+model)
		if err != nil {
			hcommon.AbortWithError(c, http.StatusInternalServerError, "internal", "failed to prepare request: "+err.Error())
			return
		}
		raw = patched
	}

	prepared, err := d.prepare(c.Request.Context())
	if err != nil {
		hcommon.AbortWithError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	}
	snap := prepared.cred.Clone()

	body, err := d.Upstream.CallCodeAssist(c.Request.Context(), snap.AccessToken, prepared.projectID, model+":countTokens", json.RawMessage(raw))
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// EmbedContent implements POST /v1beta/models/{model}:embedContent against
// the public Gemini API (API-key authenticated, no credential rotation).
func (d *Deps) EmbedContent(c *gin.Context) {
	model := c.Param("model")

	var req gemini.EmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: "+err.Error())
		return
	}
	if req.Model == "" {
		req.Model = "models/" + model
	}

	body, err := d.Upstream.EmbedContent(c.Request.Context(), model, req)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// BatchEmbedContents implements POST /v1beta/models/{model}:batchEmbedContents.
func (d *Deps) BatchEmbedContents(c *gin.Context) {
	model := c.Param("model")

	var req gemini.BatchEmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_argument", "malformed request body: "+err.Error())
		return
	}

	body, err := d.Upstream.BatchEmbedContents(c.Request.Context(), model, req)
	if err != nil {
		hcommon.AbortWithAPIError(c, asAPIError(err))
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
