// Package upstream talks to Google's Cloud Code Assist endpoint (all Gemini
// generation/onboarding calls) and the public Gemini API (embeddings only).
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gcli2api-go/internal/constants"
	apperrors "gcli2api-go/internal/errors"
)

// Client is a thin, header-aware HTTP client for the two upstream surfaces.
type Client struct {
	CodeAssistBase string
	GeminiBase     string
	EmbeddingKey   string
	HTTP           *http.Client
}

// NewClient constructs a Client with the given endpoint bases and timeout.
// The transport pool is sized from the base (non-high-throughput) profile:
// this gateway fans requests out to one upstream host pair, not the
// thousands-of-backends case the high-throughput profile is tuned for.
func NewClient(codeAssistBase, geminiBase, embeddingKey string, timeout time.Duration) *Client {
	tc := constants.GetBaseTransportConfig()
	transport := &http.Transport{
		MaxIdleConns:        tc.MaxIdleConns,
		MaxIdleConnsPerHost: tc.MaxIdleConnsPerHost,
		IdleConnTimeout:     tc.IdleConnTimeout,
	}
	return &Client{
		CodeAssistBase: strings.TrimRight(codeAssistBase, "/"),
		GeminiBase:     strings.TrimRight(geminiBase, "/"),
		EmbeddingKey:   embeddingKey,
		HTTP:           &http.Client{Timeout: timeout, Transport: transport},
	}
}

// CallCodeAssist invokes one v1internal:<action> RPC against Code Assist and
// returns the raw response body. Use StreamCodeAssist for SSE endpoints.
func (c *Client) CallCodeAssist(ctx context.Context, accessToken, projectID, action string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: marshal payload: %w", err)
	}

	url := c.CodeAssistBase + "/v1internal:" + action
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	c.applyHeaders(req, accessToken, projectID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperrors.MapNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.MapHTTPError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// StreamCodeAssist invokes a streaming v1internal:<action> RPC (?alt=sse) and
// returns the live response for the caller to read SSE frames from. The
// caller owns closing the body.
func (c *Client) StreamCodeAssist(ctx context.Context, accessToken, projectID, action string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: marshal payload: %w", err)
	}

	url := c.CodeAssistBase + "/v1internal:" + action + "?alt=sse"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	c.applyHeaders(req, accessToken, projectID)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperrors.MapNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apperrors.MapHTTPError(resp.StatusCode, respBody)
	}
	return resp, nil
}

// EmbedContent calls the public Gemini API for a single embedding. It is the
// one surface that authenticates with a plain API key instead of an OAuth
// bearer token.
func (c *Client) EmbedContent(ctx context.Context, model string, payload any) ([]byte, error) {
	return c.callPublicGemini(ctx, model, "embedContent", payload)
}

// BatchEmbedContents calls the public Gemini API for multiple embeddings.
func (c *Client) BatchEmbedContents(ctx context.Context, model string, payload any) ([]byte, error) {
	return c.callPublicGemini(ctx, model, "batchEmbedContents", payload)
}

func (c *Client) callPublicGemini(ctx context.Context, model, action string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:%s?key=%s", c.GeminiBase, model, action, c.EmbeddingKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperrors.MapNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.MapHTTPError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) applyHeaders(req *http.Request, accessToken, projectID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", UserAgent())
	if projectID != "" {
		req.Header.Set("X-Goog-User-Project", projectID)
	}
}

// NewClientMetadata builds the ClientMetadata body every Code Assist call
// carries, per the real Gemini CLI's own payload shape.
func NewClientMetadata(projectID string) map[string]any {
	return map[string]any{
		"ideType":     "IDE_UNSPECIFIED",
		"platform":    PlatformString(),
		"pluginType":  "GEMINI",
		"duetProject": projectID,
	}
}
