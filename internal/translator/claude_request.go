package translator

import (
	"encoding/json"

	"gcli2api-go/internal/gemini"
)

// ClaudeToGemini converts an Anthropic /v1/messages request into the
// canonical Gemini request. A message is remapped to the "function" role the
// moment any of its content blocks is a tool_result, matching Claude's
// convention of folding tool results into a user-role message.
func ClaudeToGemini(req *ClaudeRequest) *gemini.Request {
	out := &gemini.Request{}

	if sys := claudeSystemParts(req.System); len(sys) > 0 {
		out.SystemInstruction = &gemini.Content{Role: "system", Parts: sys}
	}

	for _, msg := range req.Messages {
		out.Contents = append(out.Contents, claudeMessageToContent(msg))
	}

	cfg := &gemini.GenerationConfig{}
	has := false
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = &req.MaxTokens
		has = true
	}
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
		has = true
	}
	if req.TopP != nil {
		cfg.TopP = req.TopP
		has = true
	}
	if len(req.StopSeqs) > 0 {
		cfg.StopSequences = req.StopSeqs
		has = true
	}
	if has {
		out.GenerationConfig = cfg
	}

	if len(req.Tools) > 0 {
		decls := make([]gemini.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, gemini.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			})
		}
		out.Tools = []gemini.Tool{{FunctionDeclarations: decls}}
	}

	return out
}

func claudeSystemParts(raw json.RawMessage) []gemini.Part {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []gemini.Part{{Kind: gemini.PartKindText, Text: s}}
	}
	var blocks []ClaudeContentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var parts []gemini.Part
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, gemini.Part{Kind: gemini.PartKindText, Text: b.Text})
			}
		}
		return parts
	}
	return nil
}

func claudeMessageToContent(msg ClaudeMessage) gemini.Content {
	role := "user"
	if msg.Role == "assistant" {
		role = "model"
	}

	var s string
	if err := json.Unmarshal(msg.Content, &s); err == nil {
		if role == "model" {
			role = "model"
		}
		if s == "" {
			return gemini.Content{Role: role}
		}
		return gemini.Content{Role: role, Parts: []gemini.Part{{Kind: gemini.PartKindText, Text: s}}}
	}

	var blocks []ClaudeContentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return gemini.Content{Role: role}
	}

	var parts []gemini.Part
	hasToolResult := false
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, gemini.Part{Kind: gemini.PartKindText, Text: b.Text})
			}
		case "image":
			if b.Source != nil {
				parts = append(parts, gemini.Part{
					Kind:       gemini.PartKindInlineData,
					InlineData: &gemini.Blob{MIMEType: b.Source.MediaType, Data: b.Source.Data},
				})
			}
		case "tool_use":
			var args map[string]any
			_ = json.Unmarshal(b.Input, &args)
			parts = append(parts, gemini.Part{
				Kind:         gemini.PartKindFunctionCall,
				FunctionCall: &gemini.FunctionCall{Name: b.Name, Args: args},
			})
		case "tool_result":
			hasToolResult = true
			var result any
			if err := json.Unmarshal(b.Content, &result); err != nil {
				result = string(b.Content)
			}
			parts = append(parts, gemini.Part{
				Kind: gemini.PartKindFunctionResponse,
				FunctionResponse: &gemini.FunctionResponse{
					Name:     b.ToolUseID,
					Response: map[string]any{"result": result},
				},
			})
		}
	}

	if hasToolResult {
		role = "function"
	}
	return gemini.Content{Role: role, Parts: parts}
}
