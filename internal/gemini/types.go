// Package gemini holds the canonical, protocol-neutral representation of a
// Gemini generateContent request/response that every inbound surface
// (OpenAI, Claude, native) is translated into and out of.
package gemini

import "encoding/json"

// Part is a tagged union of the content fragments Gemini understands. Exactly
// one of Text/InlineData/FunctionCall/FunctionResponse/FileData/ExecutableCode/
// CodeExecutionResult is populated, selected by Kind. Raw preserves an
// unrecognized variant byte-for-byte so the native surface round-trips
// anything it doesn't itself need to interpret.
type Part struct {
	Kind string `json:"-"`

	Text                string               `json:"text,omitempty"`
	InlineData          *Blob                `json:"inlineData,omitempty"`
	FunctionCall        *FunctionCall        `json:"functionCall,omitempty"`
	FunctionResponse    *FunctionResponse    `json:"functionResponse,omitempty"`
	FileData            *FileData            `json:"fileData,omitempty"`
	ExecutableCode      *ExecutableCode      `json:"executableCode,omitempty"`
	CodeExecutionResult *CodeExecutionResult `json:"codeExecutionResult,omitempty"`

	Thought bool `json:"thought,omitempty"`

	Raw json.RawMessage `json:"-"`
}

const (
	PartKindText             = "text"
	PartKindInlineData       = "inlineData"
	PartKindFunctionCall     = "functionCall"
	PartKindFunctionResponse = "functionResponse"
	PartKindFileData         = "fileData"
	PartKindExecutableCode   = "executableCode"
	PartKindCodeExecResult   = "codeExecutionResult"
)

// Blob is inline binary content, base64-encoded on the wire.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FunctionCall is a model-issued tool invocation request.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries a tool's result back to the model.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// FileData references a previously uploaded file by URI.
type FileData struct {
	MIMEType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri"`
}

// ExecutableCode is code the model wants executed.
type ExecutableCode struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// CodeExecutionResult is the outcome of running ExecutableCode.
type CodeExecutionResult struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output,omitempty"`
}

// MarshalJSON emits only the populated arm, falling back to Raw for unknown
// variants.
func (p Part) MarshalJSON() ([]byte, error) {
	type alias Part
	if p.Raw != nil && p.Kind == "" {
		return p.Raw, nil
	}
	return json.Marshal(alias(p))
}

// UnmarshalJSON detects which arm is populated and sets Kind accordingly,
// keeping Raw as a full-fidelity copy.
func (p *Part) UnmarshalJSON(data []byte) error {
	type alias Part
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Part(a)
	p.Raw = append(json.RawMessage(nil), data...)
	switch {
	case p.FunctionCall != nil:
		p.Kind = PartKindFunctionCall
	case p.FunctionResponse != nil:
		p.Kind = PartKindFunctionResponse
	case p.InlineData != nil:
		p.Kind = PartKindInlineData
	case p.FileData != nil:
		p.Kind = PartKindFileData
	case p.ExecutableCode != nil:
		p.Kind = PartKindExecutableCode
	case p.CodeExecutionResult != nil:
		p.Kind = PartKindCodeExecResult
	case p.Text != "":
		p.Kind = PartKindText
	}
	return nil
}

// Content is one turn of the conversation: a role and its parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// SafetySetting adjusts Gemini's content-safety thresholds for one category.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GenerationConfig mirrors Gemini's generationConfig object.
type GenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             *float64 `json:"topK,omitempty"`
	CandidateCount   *int     `json:"candidateCount,omitempty"`
	MaxOutputTokens  *int     `json:"maxOutputTokens,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

// FunctionDeclaration describes one callable tool.
type FunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Tool groups function declarations the model may call.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// FunctionCallingMode selects how eagerly the model should call tools.
type FunctionCallingMode string

const (
	FunctionCallingAuto FunctionCallingMode = "AUTO"
	FunctionCallingAny  FunctionCallingMode = "ANY"
	FunctionCallingNone FunctionCallingMode = "NONE"
)

// ToolConfig constrains tool-calling behavior.
type ToolConfig struct {
	FunctionCallingConfig *FunctionCallingConfig `json:"functionCallingConfig,omitempty"`
}

// FunctionCallingConfig is the body of ToolConfig.
type FunctionCallingConfig struct {
	Mode                 FunctionCallingMode `json:"mode,omitempty"`
	AllowedFunctionNames []string            `json:"allowedFunctionNames,omitempty"`
}

// Request is the canonical generateContent request body.
type Request struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"toolConfig,omitempty"`
	SafetySettings    []SafetySetting   `json:"safetySettings,omitempty"`
}

// Candidate is one generated response alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	Index        int     `json:"index,omitempty"`
}

// UsageMetadata reports token accounting for a response.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// Response is the canonical generateContent response body (or one SSE chunk
// of a streaming response).
type Response struct {
	ResponseID    string         `json:"responseId,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
	Candidates    []Candidate    `json:"candidates,omitempty"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}
