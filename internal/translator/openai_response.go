package translator

import (
	"encoding/json"
	"time"

	"gcli2api-go/internal/gemini"
	"github.com/google/uuid"
)

// GeminiToOpenAI converts a full, non-streaming Gemini response into an
// OpenAI chat completion response. Every candidate is expanded into one
// choice per run of consecutive text Parts and one per functionCall Part, so
// a model that returns interleaved text and tool calls in a single candidate
// still surfaces as distinct choices; only the last choice of a candidate
// carries its finish_reason. This is richer than OpenAI's own
// one-choice-per-candidate convention, but a strict generalization a client
// only sees if the upstream model actually does it.
func GeminiToOpenAI(model string, resp *gemini.Response) *OpenAIChatResponse {
	out := &OpenAIChatResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
	}
	if resp.ResponseID != "" {
		out.ID = "chatcmpl-" + resp.ResponseID
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}

	idx := 0
	for _, cand := range resp.Candidates {
		for _, choice := range expandCandidate(cand) {
			choice.Index = idx
			out.Choices = append(out.Choices, choice)
			idx++
		}
	}

	if resp.UsageMetadata != nil {
		out.Usage = &OpenAIUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}
	return out
}

// expandCandidate splits a candidate's parts into one choice per text run /
// functionCall, leaving FinishReason empty on every choice except the last —
// only the final produced choice for a candidate actually finished it.
func expandCandidate(cand gemini.Candidate) []OpenAIChoice {
	var choices []OpenAIChoice
	var textBuf string
	var lastHasToolUse bool
	flushText := func() {
		if textBuf == "" {
			return
		}
		choices = append(choices, OpenAIChoice{
			Message: OpenAIRespMsg{Role: "assistant", Content: textBuf},
		})
		textBuf = ""
		lastHasToolUse = false
	}

	for _, p := range cand.Content.Parts {
		switch p.Kind {
		case gemini.PartKindText:
			textBuf += p.Text
		case gemini.PartKindFunctionCall:
			flushText()
			args, _ := json.Marshal(p.FunctionCall.Args)
			choices = append(choices, OpenAIChoice{
				Message: OpenAIRespMsg{
					Role: "assistant",
					ToolCalls: []OpenAIToolCall{{
						ID:   "call_" + uuid.NewString(),
						Type: "function",
						Function: struct {
							Name      string `json:"name"`
							Arguments string `json:"arguments"`
						}{Name: p.FunctionCall.Name, Arguments: string(args)},
					}},
				},
			})
			lastHasToolUse = true
		}
	}
	flushText()

	if len(choices) == 0 {
		choices = append(choices, OpenAIChoice{
			Message: OpenAIRespMsg{Role: "assistant", Content: ""},
		})
		lastHasToolUse = false
	}

	choices[len(choices)-1].FinishReason = OpenAIFinishReason(cand.FinishReason, lastHasToolUse)
	return choices
}

// OpenAIStreamState accumulates the first chunk's metadata (response ID,
// model label) so every subsequent chunk in the stream reuses it, matching
// the Formatter Context contract shared by every streaming surface.
type OpenAIStreamState struct {
	ID           string
	Model        string
	metadataSeen bool
}

// NewOpenAIStreamState constructs a state pre-seeded with a fallback model
// label, used until the first upstream chunk supplies its own.
func NewOpenAIStreamState(fallbackModel string) *OpenAIStreamState {
	return &OpenAIStreamState{ID: "chatcmpl-" + uuid.NewString(), Model: fallbackModel}
}

// OnChunk converts one Gemini SSE chunk into zero or more OpenAI stream
// chunks (one per expanded choice, mirroring GeminiToOpenAI's non-streaming
// behavior). A nil resp signals end-of-stream and yields no chunks — callers
// emit the `[DONE]` sentinel themselves once OnChunk(nil) returns.
func (s *OpenAIStreamState) OnChunk(resp *gemini.Response) []OpenAIChatChunk {
	if resp == nil {
		return nil
	}
	if !s.metadataSeen {
		if resp.ResponseID != "" {
			s.ID = "chatcmpl-" + resp.ResponseID
		}
		if resp.ModelVersion != "" {
			s.Model = resp.ModelVersion
		}
		s.metadataSeen = true
	}

	var chunks []OpenAIChatChunk
	idx := 0
	for _, cand := range resp.Candidates {
		for _, choice := range expandCandidate(cand) {
			finish := choice.FinishReason
			chunk := OpenAIChatChunk{
				ID:      s.ID,
				Object:  "chat.completion.chunk",
				Created: time.Now().Unix(),
				Model:   s.Model,
				Choices: []OpenAIStreamChoice{{
					Index: idx,
					Delta: OpenAIRespMsg{
						Role:      "assistant",
						Content:   choice.Message.Content,
						ToolCalls: choice.Message.ToolCalls,
					},
					FinishReason: &finish,
				}},
			}
			chunks = append(chunks, chunk)
			idx++
		}
	}

	if resp.UsageMetadata != nil {
		chunks = append(chunks, OpenAIChatChunk{
			ID:      s.ID,
			Object:  "chat.completion.chunk",
			Created: time.Now().Unix(),
			Model:   s.Model,
			Choices: []OpenAIStreamChoice{},
			Usage: &OpenAIUsage{
				PromptTokens:     resp.UsageMetadata.PromptTokenCount,
				CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
				TotalTokens:      resp.UsageMetadata.TotalTokenCount,
			},
		})
	}

	return chunks
}
