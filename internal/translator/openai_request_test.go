package translator

import (
	"encoding/json"
	"testing"

	"gcli2api-go/internal/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIToGeminiBasicTurn(t *testing.T) {
	req := &OpenAIChatRequest{
		Model: "gpt-4o",
		Messages: []OpenAIMessage{
			{Role: "system", Content: json.RawMessage(`"be concise"`)},
			{Role: "user", Content: json.RawMessage(`"hello"`)},
		},
	}
	out := OpenAIToGemini(req)

	require.NotNil(t, out.SystemInstruction)
	require.Len(t, out.SystemInstruction.Parts, 1)
	assert.Equal(t, "be concise", out.SystemInstruction.Parts[0].Text)

	require.Len(t, out.Contents, 1)
	assert.Equal(t, "user", out.Contents[0].Role)
	assert.Equal(t, "hello", out.Contents[0].Parts[0].Text)
}

func TestOpenAIToGeminiRoleMapping(t *testing.T) {
	req := &OpenAIChatRequest{
		Messages: []OpenAIMessage{
			{Role: "assistant", Content: json.RawMessage(`"hi there"`)},
			{Role: "tool", Name: "lookup", Content: json.RawMessage(`"42"`)},
		},
	}
	out := OpenAIToGemini(req)
	require.Len(t, out.Contents, 2)
	assert.Equal(t, "model", out.Contents[0].Role)
	assert.Equal(t, "function", out.Contents[1].Role)
	assert.Equal(t, gemini.PartKindFunctionResponse, out.Contents[1].Parts[0].Kind)
}

func TestOpenAIToGeminiImageDataURI(t *testing.T) {
	content := `[{"type":"text","text":"what is this"},{"type":"image_url","image_url":{"url":"data:image/png;base64,QUJD"}}]`
	req := &OpenAIChatRequest{
		Messages: []OpenAIMessage{{Role: "user", Content: json.RawMessage(content)}},
	}
	out := OpenAIToGemini(req)
	require.Len(t, out.Contents, 1)
	parts := out.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, gemini.PartKindText, parts[0].Kind)
	assert.Equal(t, gemini.PartKindInlineData, parts[1].Kind)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, "QUJD", parts[1].InlineData.Data)
}

func TestOpenAIToGeminiToolsAndToolChoice(t *testing.T) {
	req := &OpenAIChatRequest{
		Tools: []OpenAITool{{
			Type: "function",
			Function: struct {
				Name        string         `json:"name"`
				Description string         `json:"description,omitempty"`
				Parameters  map[string]any `json:"parameters,omitempty"`
			}{Name: "get_weather", Parameters: map[string]any{"type": "object"}},
		}},
		ToolChoice: json.RawMessage(`"required"`),
	}
	out := OpenAIToGemini(req)
	require.Len(t, out.Tools, 1)
	assert.Equal(t, "get_weather", out.Tools[0].FunctionDeclarations[0].Name)
	require.NotNil(t, out.ToolConfig)
	assert.Equal(t, gemini.FunctionCallingAny, out.ToolConfig.FunctionCallingConfig.Mode)
}

func TestOpenAIToGeminiNamedToolChoice(t *testing.T) {
	req := &OpenAIChatRequest{
		ToolChoice: json.RawMessage(`{"type":"function","function":{"name":"get_weather"}}`),
	}
	out := OpenAIToGemini(req)
	require.NotNil(t, out.ToolConfig)
	assert.Equal(t, []string{"get_weather"}, out.ToolConfig.FunctionCallingConfig.AllowedFunctionNames)
}

func TestOpenAIToGeminiGenerationConfig(t *testing.T) {
	temp := 0.7
	maxTok := 256
	req := &OpenAIChatRequest{
		Temperature: &temp,
		MaxTokens:   &maxTok,
		Stop:        json.RawMessage(`["STOP1","STOP2"]`),
	}
	out := OpenAIToGemini(req)
	require.NotNil(t, out.GenerationConfig)
	assert.Equal(t, &temp, out.GenerationConfig.Temperature)
	assert.Equal(t, &maxTok, out.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, []string{"STOP1", "STOP2"}, out.GenerationConfig.StopSequences)
}

func TestOpenAIToGeminiNoGenerationConfigWhenEmpty(t *testing.T) {
	out := OpenAIToGemini(&OpenAIChatRequest{})
	assert.Nil(t, out.GenerationConfig)
}
