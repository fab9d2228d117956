package translator

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"gcli2api-go/internal/gemini"
)

// OpenAIToGemini converts an OpenAI chat request into the canonical Gemini
// request. System messages are collected into SystemInstruction; everything
// else becomes a Content turn, with OpenAI's "assistant"/"user"/"tool" roles
// remapped to Gemini's "model"/"user"/"function".
func OpenAIToGemini(req *OpenAIChatRequest) *gemini.Request {
	out := &gemini.Request{}

	var systemParts []gemini.Part
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			systemParts = append(systemParts, textParts(msg.Content)...)
			continue
		}
		out.Contents = append(out.Contents, messageToContent(msg))
	}
	if len(systemParts) > 0 {
		out.SystemInstruction = &gemini.Content{Role: "system", Parts: systemParts}
	}

	out.GenerationConfig = buildGenerationConfig(req)

	if len(req.Tools) > 0 {
		out.Tools = []gemini.Tool{{FunctionDeclarations: toolsToDeclarations(req.Tools)}}
	}
	if cfg := toolChoiceToConfig(req.ToolChoice); cfg != nil {
		out.ToolConfig = cfg
	}

	return out
}

func messageToContent(msg OpenAIMessage) gemini.Content {
	role := "user"
	switch msg.Role {
	case "assistant":
		role = "model"
	case "tool":
		role = "function"
	}

	var parts []gemini.Part
	if msg.Role == "tool" {
		var result any
		if err := json.Unmarshal(msg.Content, &result); err != nil {
			result = string(msg.Content)
		}
		parts = append(parts, gemini.Part{
			Kind: gemini.PartKindFunctionResponse,
			FunctionResponse: &gemini.FunctionResponse{
				Name:     msg.Name,
				Response: map[string]any{"result": result},
			},
		})
	} else {
		parts = append(parts, contentParts(msg.Content)...)
		for _, tc := range msg.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
			parts = append(parts, gemini.Part{
				Kind:         gemini.PartKindFunctionCall,
				FunctionCall: &gemini.FunctionCall{Name: tc.Function.Name, Args: args},
			})
		}
	}

	return gemini.Content{Role: role, Parts: parts}
}

// textParts resolves a system-message's string-or-array content to plain
// text Parts (image parts make no sense in a system instruction).
func textParts(raw json.RawMessage) []gemini.Part {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []gemini.Part{{Kind: gemini.PartKindText, Text: s}}
	}
	var arr []OpenAIContentPart
	if err := json.Unmarshal(raw, &arr); err == nil {
		var parts []gemini.Part
		for _, p := range arr {
			if p.Type == "text" && p.Text != "" {
				parts = append(parts, gemini.Part{Kind: gemini.PartKindText, Text: p.Text})
			}
		}
		return parts
	}
	return nil
}

// contentParts resolves a message's string-or-array content, additionally
// handling image_url data-URI parts as inline binary data.
func contentParts(raw json.RawMessage) []gemini.Part {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []gemini.Part{{Kind: gemini.PartKindText, Text: s}}
	}
	var arr []OpenAIContentPart
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	var parts []gemini.Part
	for _, p := range arr {
		switch p.Type {
		case "text":
			if p.Text != "" {
				parts = append(parts, gemini.Part{Kind: gemini.PartKindText, Text: p.Text})
			}
		case "image_url":
			if p.ImageURL == nil {
				continue
			}
			mime, data, ok := parseDataURI(p.ImageURL.URL)
			if !ok {
				continue
			}
			parts = append(parts, gemini.Part{
				Kind:        gemini.PartKindInlineData,
				InlineData:  &gemini.Blob{MIMEType: mime, Data: data},
			})
		}
	}
	return parts
}

// parseDataURI validates and splits a "data:<mime>;base64,<data>" URI.
func parseDataURI(uri string) (mime, data string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", false
	}
	rest := strings.TrimPrefix(uri, "data:")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", "", false
	}
	mime = rest[:semi]
	data = rest[semi+len(";base64,"):]
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return "", "", false
	}
	return mime, data, true
}

func buildGenerationConfig(req *OpenAIChatRequest) *gemini.GenerationConfig {
	cfg := &gemini.GenerationConfig{}
	has := false
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
		has = true
	}
	if req.TopP != nil {
		cfg.TopP = req.TopP
		has = true
	}
	if req.MaxTokens != nil {
		cfg.MaxOutputTokens = req.MaxTokens
		has = true
	}
	if req.N != nil && *req.N > 1 {
		cfg.CandidateCount = req.N
		has = true
	}
	if stops := stopSequences(req.Stop); len(stops) > 0 {
		cfg.StopSequences = stops
		has = true
	}
	if !has {
		return nil
	}
	return cfg
}

func stopSequences(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	return nil
}

func toolsToDeclarations(tools []OpenAITool) []gemini.FunctionDeclaration {
	out := make([]gemini.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		if t.Type != "" && t.Type != "function" {
			continue
		}
		out = append(out, gemini.FunctionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  t.Function.Parameters,
		})
	}
	return out
}

func toolChoiceToConfig(raw json.RawMessage) *gemini.ToolConfig {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "none":
			return &gemini.ToolConfig{FunctionCallingConfig: &gemini.FunctionCallingConfig{Mode: gemini.FunctionCallingNone}}
		case "required":
			return &gemini.ToolConfig{FunctionCallingConfig: &gemini.FunctionCallingConfig{Mode: gemini.FunctionCallingAny}}
		case "auto":
			return &gemini.ToolConfig{FunctionCallingConfig: &gemini.FunctionCallingConfig{Mode: gemini.FunctionCallingAuto}}
		}
		return nil
	}
	var named struct {
		Type     string `json:"type"`
		Function struct {
			Name string `json:"name"`
		} `json:"function"`
	}
	if err := json.Unmarshal(raw, &named); err == nil && named.Function.Name != "" {
		return &gemini.ToolConfig{FunctionCallingConfig: &gemini.FunctionCallingConfig{
			Mode:                 gemini.FunctionCallingAny,
			AllowedFunctionNames: []string{named.Function.Name},
		}}
	}
	return nil
}
