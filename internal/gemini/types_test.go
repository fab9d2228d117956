package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartMarshalText(t *testing.T) {
	p := Part{Kind: PartKindText, Text: "hello"}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, string(raw))
}

func TestPartUnmarshalDetectsKind(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind string
	}{
		{"text", `{"text":"hi"}`, PartKindText},
		{"functionCall", `{"functionCall":{"name":"foo","args":{"a":1}}}`, PartKindFunctionCall},
		{"functionResponse", `{"functionResponse":{"name":"foo","response":{"ok":true}}}`, PartKindFunctionResponse},
		{"inlineData", `{"inlineData":{"mimeType":"image/png","data":"AAAA"}}`, PartKindInlineData},
		{"fileData", `{"fileData":{"fileUri":"gs://bucket/f"}}`, PartKindFileData},
		{"executableCode", `{"executableCode":{"language":"PYTHON","code":"print(1)"}}`, PartKindExecutableCode},
		{"codeExecutionResult", `{"codeExecutionResult":{"outcome":"OK"}}`, PartKindCodeExecResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Part
			require.NoError(t, json.Unmarshal([]byte(tt.json), &p))
			assert.Equal(t, tt.kind, p.Kind)
			assert.NotNil(t, p.Raw)
		})
	}
}

func TestPartRoundTripPreservesRaw(t *testing.T) {
	original := `{"functionCall":{"name":"lookup","args":{"q":"weather"}}}`
	var p Part
	require.NoError(t, json.Unmarshal([]byte(original), &p))
	require.Equal(t, PartKindFunctionCall, p.Kind)
	require.Equal(t, "lookup", p.FunctionCall.Name)
	assert.JSONEq(t, original, string(p.Raw))
}

func TestRequestMarshalOmitsEmptyFields(t *testing.T) {
	req := Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Kind: PartKindText, Text: "hi"}}}},
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "contents")
	assert.NotContains(t, decoded, "systemInstruction")
	assert.NotContains(t, decoded, "tools")
	assert.NotContains(t, decoded, "generationConfig")
}

func TestResponseUnmarshalCandidates(t *testing.T) {
	raw := []byte(`{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "hi"}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
	}`)
	var resp Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "STOP", resp.Candidates[0].FinishReason)
	assert.Equal(t, "hi", resp.Candidates[0].Content.Parts[0].Text)
	require.NotNil(t, resp.UsageMetadata)
	assert.Equal(t, 5, resp.UsageMetadata.TotalTokenCount)
}
