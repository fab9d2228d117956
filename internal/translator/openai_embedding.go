package translator

import (
	"encoding/json"

	"gcli2api-go/internal/gemini"
)

// OpenAIEmbeddingRequest is an OpenAI /v1/embeddings request body. Input is
// either a single string or an array of strings.
type OpenAIEmbeddingRequest struct {
	Model string          `json:"model"`
	Input json.RawMessage `json:"input"`
}

// Inputs resolves Input's dual shape into a slice of strings.
func (r *OpenAIEmbeddingRequest) Inputs() ([]string, error) {
	var single string
	if err := json.Unmarshal(r.Input, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(r.Input, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// OpenAIEmbeddingData is one vector in an /v1/embeddings response.
type OpenAIEmbeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// OpenAIEmbeddingResponse is a /v1/embeddings response body.
type OpenAIEmbeddingResponse struct {
	Object string                 `json:"object"`
	Data   []OpenAIEmbeddingData  `json:"data"`
	Model  string                 `json:"model"`
	Usage  OpenAIEmbeddingUsage   `json:"usage"`
}

// OpenAIEmbeddingUsage reports token accounting for an embeddings call.
// Gemini's embedContent does not return usage, so both fields are left at 0.
type OpenAIEmbeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// EmbeddingToGemini builds one public-Gemini EmbedRequest per input string.
func EmbeddingToGemini(model, input string) gemini.EmbedRequest {
	return gemini.EmbedRequest{
		Model:   "models/" + model,
		Content: gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: input}}},
	}
}

// GeminiEmbeddingsToOpenAI assembles the OpenAI-shaped response from the
// embeddings collected for each input, in request order.
func GeminiEmbeddingsToOpenAI(model string, embeddings [][]float64) *OpenAIEmbeddingResponse {
	data := make([]OpenAIEmbeddingData, len(embeddings))
	for i, vec := range embeddings {
		data[i] = OpenAIEmbeddingData{Object: "embedding", Index: i, Embedding: vec}
	}
	return &OpenAIEmbeddingResponse{
		Object: "list",
		Data:   data,
		Model:  model,
	}
}
