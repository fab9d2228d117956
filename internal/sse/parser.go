// Package sse parses Server-Sent Events frames from Google's upstream
// streaming responses into canonical gemini.Response chunks.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gcli2api-go/internal/gemini"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Reader lazily yields decoded gemini.Response chunks from an upstream SSE
// body. Each upstream `data:` line is JSON-decoded as one of three shapes,
// chosen by its top-level keys in this order:
//  1. `{"response": <Response>, "usageMetadata": ...}` — the sibling
//     usageMetadata (if present) is merged onto the inner response;
//  2. the line has "candidates" and is itself a Response object;
//  3. the line has only `{"usageMetadata": ...}` — emitted as a usage-only
//     Response.
//
// A line with none of those keys is decoded as a Response with no candidates.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps body (which the caller remains responsible for closing).
func NewReader(body io.Reader) *Reader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next decoded chunk, or io.EOF when the stream ends
// cleanly. A `data:` line that fails to parse under any of the three
// strategies is logged and skipped rather than ending the stream — only a
// scanner-level error (a transport fault, an over-long line) or a clean EOF
// is terminal.
func (r *Reader) Next() (*gemini.Response, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		frame, err := parseFrame([]byte(payload))
		if err != nil {
			log.WithError(err).Warn("sse: skipping unparseable frame")
			continue
		}
		return frame, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// parseFrame inspects the frame's top-level keys with gjson before
// committing to one of the three typed decode strategies, so a malformed
// "response" sub-object doesn't fall through and get silently misread as a
// usage-only frame.
func parseFrame(payload []byte) (*gemini.Response, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("sse: invalid JSON frame: %s", string(payload))
	}
	top := gjson.ParseBytes(payload)

	// {"response": {...}, "usageMetadata": {...}}
	if respField := top.Get("response"); respField.Exists() {
		var wrapped struct {
			Response      *gemini.Response      `json:"response"`
			UsageMetadata *gemini.UsageMetadata `json:"usageMetadata"`
		}
		if err := json.Unmarshal(payload, &wrapped); err != nil {
			return nil, fmt.Errorf("sse: malformed wrapped response frame: %w", err)
		}
		if wrapped.UsageMetadata != nil && wrapped.Response.UsageMetadata == nil {
			wrapped.Response.UsageMetadata = wrapped.UsageMetadata
		}
		return wrapped.Response, nil
	}

	// a direct Response object — has "candidates" at the top level
	if top.Get("candidates").Exists() {
		var direct gemini.Response
		if err := json.Unmarshal(payload, &direct); err != nil {
			return nil, fmt.Errorf("sse: malformed candidates frame: %w", err)
		}
		return &direct, nil
	}

	if usage := top.Get("usageMetadata"); usage.Exists() {
		var usageOnly struct {
			UsageMetadata *gemini.UsageMetadata `json:"usageMetadata"`
		}
		if err := json.Unmarshal(payload, &usageOnly); err != nil {
			return nil, fmt.Errorf("sse: malformed usage-only frame: %w", err)
		}
		return &gemini.Response{UsageMetadata: usageOnly.UsageMetadata}, nil
	}

	// Fall through: an empty keep-alive frame or an unrecognized shape that
	// still decodes as a Response with zero candidates.
	var fallback gemini.Response
	if err := json.Unmarshal(payload, &fallback); err == nil {
		return &fallback, nil
	}

	return nil, fmt.Errorf("sse: unrecognized frame shape: %s", string(payload))
}
