package handlers

import (
	"encoding/json"
	"net/http"

	hcommon "gcli2api-go/internal/handlers/common"
	"gcli2api-go/internal/gemini"
	"gcli2api-go/internal/translator"
	"github.com/gin-gonic/gin"
)

// Embeddings implements POST /v1/embeddings, fanning out to the public
// Gemini embedContent/batchEmbedContents RPCs (API-key authenticated).
func (d *Deps) Embeddings(c *gin.Context) {
	var req translator.OpenAIEmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_request_error", "malformed request body: "+err.Error())
		return
	}
	if req.Model == "" {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_request_error", "model is required")
		return
	}

	inputs, err := req.Inputs()
	if err != nil || len(inputs) == 0 {
		hcommon.AbortWithError(c, http.StatusUnprocessableEntity, "invalid_request_error", "input must be a string or array of strings")
		return
	}

	var vectors [][]float64
	if len(inputs) == 1 {
		greq := translator.EmbeddingToGemini(req.Model, inputs[0])
		body, err := d.Upstream.EmbedContent(c.Request.Context(), req.Model, greq)
		if err != nil {
			hcommon.AbortWithAPIError(c, asAPIError(err))
			return
		}
		var gresp gemini.EmbedResponse
		if err := json.Unmarshal(body, &gresp); err != nil {
			hcommon.AbortWithError(c, http.StatusBadGateway, "malformed_upstream_content", err.Error())
			return
		}
		vectors = [][]float64{gresp.Embedding.Values}
	} else {
		batch := gemini.BatchEmbedRequest{Requests: make([]gemini.EmbedRequest, len(inputs))}
		for i, in := range inputs {
			batch.Requests[i] = translator.EmbeddingToGemini(req.Model, in)
		}
		body, err := d.Upstream.BatchEmbedContents(c.Request.Context(), req.Model, batch)
		if err != nil {
			hcommon.AbortWithAPIError(c, asAPIError(err))
			return
		}
		var gresp gemini.BatchEmbedResponse
		if err := json.Unmarshal(body, &gresp); err != nil {
			hcommon.AbortWithError(c, http.StatusBadGateway, "malformed_upstream_content", err.Error())
			return
		}
		vectors = make([][]float64, len(gresp.Embeddings))
		for i, e := range gresp.Embeddings {
			vectors[i] = e.Values
		}
	}

	c.JSON(http.StatusOK, translator.GeminiEmbeddingsToOpenAI(req.Model, vectors))
}
