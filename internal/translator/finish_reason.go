package translator

import "gcli2api-go/internal/gemini"

// OpenAIFinishReason maps a Gemini finishReason onto OpenAI's vocabulary.
func OpenAIFinishReason(reason string, hasToolCall bool) string {
	if hasToolCall {
		return "tool_calls"
	}
	switch reason {
	case "STOP", "":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION":
		return "content_filter"
	default:
		return "stop"
	}
}

// ClaudeStopReason maps a Gemini finishReason onto Claude's vocabulary.
// "stop_sequence" is reserved for hitting a configured stop string, which
// Gemini has no equivalent signal for — SAFETY/RECITATION and any other
// unrecognized reason map to "stop" instead.
func ClaudeStopReason(reason string, hasToolUse bool) string {
	if hasToolUse {
		return "tool_use"
	}
	switch reason {
	case "STOP", "":
		return "end_turn"
	case "MAX_TOKENS":
		return "max_tokens"
	default:
		return "stop"
	}
}

func candidateHasFunctionCall(c gemini.Candidate) bool {
	for _, p := range c.Content.Parts {
		if p.Kind == gemini.PartKindFunctionCall {
			return true
		}
	}
	return false
}
