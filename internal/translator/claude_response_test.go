package translator

import (
	"testing"

	"gcli2api-go/internal/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiToClaudeTextResponse(t *testing.T) {
	resp := &gemini.Response{
		Candidates: []gemini.Candidate{{
			Content:      gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: "hello"}}},
			FinishReason: "STOP",
		}},
		UsageMetadata: &gemini.UsageMetadata{PromptTokenCount: 4, CandidatesTokenCount: 1},
	}
	out := GeminiToClaude("claude-3-5-sonnet", resp)
	assert.Equal(t, "message", out.Type)
	assert.Equal(t, "assistant", out.Role)
	require.Len(t, out.Content, 1)
	assert.Equal(t, "text", out.Content[0].Type)
	assert.Equal(t, "hello", out.Content[0].Text)
	assert.Equal(t, "end_turn", out.StopReason)
	assert.Equal(t, 4, out.Usage.InputTokens)
}

func TestGeminiToClaudeToolUseStopReason(t *testing.T) {
	resp := &gemini.Response{
		Candidates: []gemini.Candidate{{
			Content: gemini.Content{Parts: []gemini.Part{
				{Kind: gemini.PartKindFunctionCall, FunctionCall: &gemini.FunctionCall{Name: "get_weather", Args: map[string]any{"city": "nyc"}}},
			}},
			FinishReason: "STOP",
		}},
	}
	out := GeminiToClaude("claude-3-5-sonnet", resp)
	require.Len(t, out.Content, 1)
	assert.Equal(t, "tool_use", out.Content[0].Type)
	assert.Equal(t, "get_weather", out.Content[0].Name)
	assert.Equal(t, "tool_use", out.StopReason)
}

func TestClaudeStreamerEventGrammar(t *testing.T) {
	s := NewClaudeStreamer("claude-3-5-sonnet")

	events := s.OnChunk(&gemini.Response{
		ResponseID: "r1",
		Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: "hi"}}}}},
	})
	require.Len(t, events, 3)
	assert.Equal(t, "message_start", events[0].Name)
	assert.Equal(t, "content_block_start", events[1].Name)
	assert.Equal(t, "content_block_delta", events[2].Name)

	events = s.OnChunk(&gemini.Response{
		Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: " there"}}}, FinishReason: "STOP"}},
		UsageMetadata: &gemini.UsageMetadata{CandidatesTokenCount: 2},
	})
	// Same block type stays open: one delta, then close + message_delta.
	require.Len(t, events, 3)
	assert.Equal(t, "content_block_delta", events[0].Name)
	assert.Equal(t, "content_block_stop", events[1].Name)
	assert.Equal(t, "message_delta", events[2].Name)

	final := s.Finish()
	require.Len(t, final, 1)
	assert.Equal(t, "message_stop", final[0].Name)

	assert.Nil(t, s.Finish(), "Finish must be idempotent")
}

func TestClaudeStreamerSwitchesBlockTypeOnToolCall(t *testing.T) {
	s := NewClaudeStreamer("claude-3-5-sonnet")
	s.OnChunk(&gemini.Response{Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: "checking"}}}}}})

	events := s.OnChunk(&gemini.Response{
		Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{
			{Kind: gemini.PartKindFunctionCall, FunctionCall: &gemini.FunctionCall{Name: "get_weather", Args: map[string]any{}}},
		}}}},
	})
	// Switching block type must close the previous block before opening a new
	// one, and the new block must get its own index rather than reusing the
	// closed block's.
	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, "content_block_stop", events[0].Name)
	closeData := events[0].Data.(map[string]any)
	assert.Equal(t, "content_block_start", events[1].Name)
	startData := events[1].Data.(map[string]any)
	assert.NotEqual(t, closeData["index"], startData["index"])
	assert.Equal(t, "content_block_delta", events[2].Name)
}

func TestClaudeStreamerNilChunkIsNoOp(t *testing.T) {
	s := NewClaudeStreamer("m")
	assert.Nil(t, s.OnChunk(nil))
}

func TestClaudeStreamerFinishEmitsMessageDeltaWhenStreamEndsWithoutTerminalChunk(t *testing.T) {
	s := NewClaudeStreamer("claude-3-5-sonnet")
	s.OnChunk(&gemini.Response{
		ResponseID: "r1",
		Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: "hi"}}}}},
	})

	// The upstream stream ends here with no finishReason/usageMetadata ever
	// delivered. Finish must still produce the mandatory
	// "... message_delta message_stop" tail.
	final := s.Finish()
	require.Len(t, final, 3)
	assert.Equal(t, "content_block_stop", final[0].Name)
	assert.Equal(t, "message_delta", final[1].Name)
	assert.Equal(t, "message_stop", final[2].Name)

	assert.Nil(t, s.Finish(), "Finish must be idempotent")
}
