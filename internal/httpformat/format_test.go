package httpformat

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "gcli2api-go/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestDetectFromPath(t *testing.T) {
	tests := []struct {
		path string
		want apperrors.ErrorFormat
	}{
		{"/v1/messages", apperrors.FormatClaude},
		{"/v1beta/models/gemini-2.5-pro:generateContent", apperrors.FormatGemini},
		{"/v1internal/onboardUser", apperrors.FormatGemini},
		{"/v1/chat/completions", apperrors.FormatOpenAI},
		{"/v1/embeddings", apperrors.FormatOpenAI},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFromPath(tt.path), tt.path)
	}
}

func TestDetectFromRequestHandlesNil(t *testing.T) {
	assert.Equal(t, apperrors.FormatOpenAI, DetectFromRequest(nil))
}

func TestDetectFromRequestUsesURLPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", nil)
	assert.Equal(t, apperrors.FormatClaude, DetectFromRequest(req))
}

func TestDetectFromContextHandlesNil(t *testing.T) {
	assert.Equal(t, apperrors.FormatOpenAI, DetectFromContext(nil))
}
