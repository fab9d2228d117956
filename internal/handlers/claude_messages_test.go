package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesNonStreaming(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1internal:generateContent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hi claude"}]},"finishReason":"STOP"}]}`))
	}))
	defer upstreamSrv.Close()

	deps := testDeps(upstreamSrv)
	c, w := newTestContext(http.MethodPost, "/v1/messages",
		`{"model":"claude-3-5-sonnet","max_tokens":256,"messages":[{"role":"user","content":"hi"}]}`)

	deps.Messages(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hi claude")
	assert.Contains(t, w.Body.String(), `"type":"message"`)
}

func TestMessagesRejectsMissingFields(t *testing.T) {
	deps := testDeps(httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	c, w := newTestContext(http.MethodPost, "/v1/messages", `{"messages":[]}`)

	deps.Messages(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMessagesStreamingEmitsEventGrammar(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"hi\"}]},\"finishReason\":\"STOP\"}],\"usageMetadata\":{\"candidatesTokenCount\":1}}\n\n"))
	}))
	defer upstreamSrv.Close()

	deps := testDeps(upstreamSrv)
	c, w := newTestContext(http.MethodPost, "/v1/messages",
		`{"model":"claude-3-5-sonnet","max_tokens":256,"messages":[{"role":"user","content":"hi"}],"stream":true}`)

	deps.Messages(c)

	body := w.Body.String()
	assert.Contains(t, body, "event: message_start")
	assert.Contains(t, body, "event: content_block_start")
	assert.Contains(t, body, "event: message_stop")
}
