package translator

import (
	"encoding/json"

	"gcli2api-go/internal/gemini"
	"github.com/google/uuid"
)

// GeminiToClaude converts a full, non-streaming Gemini response into a
// Claude /v1/messages response.
func GeminiToClaude(model string, resp *gemini.Response) *ClaudeResponse {
	out := &ClaudeResponse{
		ID:    "msg_" + uuid.NewString(),
		Type:  "message",
		Role:  "assistant",
		Model: model,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}

	var hasToolUse bool
	finishReason := ""
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		finishReason = cand.FinishReason
		for _, p := range cand.Content.Parts {
			switch p.Kind {
			case gemini.PartKindText:
				out.Content = append(out.Content, ClaudeContentBlock{Type: "text", Text: p.Text})
			case gemini.PartKindFunctionCall:
				hasToolUse = true
				input, _ := json.Marshal(p.FunctionCall.Args)
				out.Content = append(out.Content, ClaudeContentBlock{
					Type:  "tool_use",
					ID:    "toolu_" + uuid.NewString(),
					Name:  p.FunctionCall.Name,
					Input: input,
				})
			}
		}
	}
	out.StopReason = ClaudeStopReason(finishReason, hasToolUse)

	if resp.UsageMetadata != nil {
		out.Usage = ClaudeUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	return out
}

// ClaudeEvent is one SSE frame of a Claude stream: an `event: <Name>` line
// followed by `data: <Data>`.
type ClaudeEvent struct {
	Name string
	Data any
}

// ClaudeStreamer is the stateful SSE state machine required to emit Claude's
// strict event grammar:
//
//	message_start (content_block_start (content_block_delta)+ content_block_stop)* message_delta message_stop
//
// One Streamer exists per request; OnChunk must be called with every
// upstream chunk in order, and Finish must be called exactly once after the
// upstream stream ends.
type ClaudeStreamer struct {
	responseID string
	model      string
	started    bool
	blockIndex int
	blockOpen  bool
	blockType  string
	finished   bool
	sentDelta  bool
}

// NewClaudeStreamer constructs a Streamer seeded with a fallback model label.
func NewClaudeStreamer(fallbackModel string) *ClaudeStreamer {
	return &ClaudeStreamer{model: fallbackModel}
}

// OnChunk advances the state machine with one upstream Gemini chunk and
// returns the Claude SSE events it produces. A nil resp is a no-op; call
// Finish to close out the stream instead.
func (s *ClaudeStreamer) OnChunk(resp *gemini.Response) []ClaudeEvent {
	if resp == nil || s.finished {
		return nil
	}

	var events []ClaudeEvent
	if !s.started {
		s.responseID = "msg_" + uuid.NewString()
		if resp.ResponseID != "" {
			s.responseID = "msg_" + resp.ResponseID
		}
		if resp.ModelVersion != "" {
			s.model = resp.ModelVersion
		}
		events = append(events, ClaudeEvent{Name: "message_start", Data: map[string]any{
			"type": "message_start",
			"message": map[string]any{
				"id":      s.responseID,
				"type":    "message",
				"role":    "assistant",
				"model":   s.model,
				"content": []any{},
				"usage":   map[string]any{"input_tokens": 0, "output_tokens": 0},
			},
		}})
		s.started = true
	}

	hasToolUse := false
	finishReason := ""
	for _, cand := range resp.Candidates {
		finishReason = cand.FinishReason
		for _, p := range cand.Content.Parts {
			switch p.Kind {
			case gemini.PartKindText:
				events = append(events, s.ensureBlock("text", nil)...)
				events = append(events, ClaudeEvent{Name: "content_block_delta", Data: map[string]any{
					"type":  "content_block_delta",
					"index": s.blockIndex,
					"delta": map[string]any{"type": "text_delta", "text": p.Text},
				}})
			case gemini.PartKindFunctionCall:
				hasToolUse = true
				input, _ := json.Marshal(p.FunctionCall.Args)
				toolID := "toolu_" + uuid.NewString()
				events = append(events, s.ensureBlock("tool_use", map[string]any{
					"type":  "tool_use",
					"id":    toolID,
					"name":  p.FunctionCall.Name,
					"input": map[string]any{},
				})...)
				events = append(events, ClaudeEvent{Name: "content_block_delta", Data: map[string]any{
					"type":  "content_block_delta",
					"index": s.blockIndex,
					"delta": map[string]any{"type": "input_json_delta", "partial_json": string(input)},
				}})
			}
		}
	}

	if finishReason != "" {
		events = append(events, s.closeBlock()...)
		events = append(events, ClaudeEvent{Name: "message_delta", Data: map[string]any{
			"type":  "message_delta",
			"delta": map[string]any{"stop_reason": ClaudeStopReason(finishReason, hasToolUse)},
			"usage": usagePayload(resp.UsageMetadata),
		}})
		s.sentDelta = true
	}

	return events
}

// Finish closes any open content block and emits message_stop, preceded by a
// message_delta if OnChunk never saw a terminal chunk (the upstream stream
// ended abruptly, or its only terminal chunk was dropped). Every stream must
// end message_delta message_stop regardless of how it got there. Safe to call
// multiple times; only the first call has an effect.
func (s *ClaudeStreamer) Finish() []ClaudeEvent {
	if s.finished {
		return nil
	}
	s.finished = true
	events := s.closeBlock()
	if !s.sentDelta {
		events = append(events, ClaudeEvent{Name: "message_delta", Data: map[string]any{
			"type":  "message_delta",
			"delta": map[string]any{"stop_reason": ClaudeStopReason("", false)},
			"usage": usagePayload(nil),
		}})
	}
	events = append(events, ClaudeEvent{Name: "message_stop", Data: map[string]any{"type": "message_stop"}})
	return events
}

func (s *ClaudeStreamer) ensureBlock(blockType string, startPayload map[string]any) []ClaudeEvent {
	if s.blockOpen && s.blockType == blockType {
		return nil
	}
	var events []ClaudeEvent
	opening := s.blockOpen
	if opening {
		events = append(events, s.closeBlock()...)
	}
	if opening || s.blockType != "" {
		s.blockIndex++
	}

	if startPayload == nil {
		startPayload = map[string]any{"type": blockType, "text": ""}
	}
	events = append(events, ClaudeEvent{Name: "content_block_start", Data: map[string]any{
		"type":          "content_block_start",
		"index":         s.blockIndex,
		"content_block": startPayload,
	}})
	s.blockOpen = true
	s.blockType = blockType
	return events
}

func (s *ClaudeStreamer) closeBlock() []ClaudeEvent {
	if !s.blockOpen {
		return nil
	}
	s.blockOpen = false
	return []ClaudeEvent{{Name: "content_block_stop", Data: map[string]any{
		"type":  "content_block_stop",
		"index": s.blockIndex,
	}}}
}

func usagePayload(u *gemini.UsageMetadata) map[string]any {
	if u == nil {
		return map[string]any{"output_tokens": 0}
	}
	return map[string]any{"output_tokens": u.CandidatesTokenCount}
}
