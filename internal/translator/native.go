package translator

import (
	"encoding/json"
	"fmt"

	"gcli2api-go/internal/gemini"
)

// DecodeNativeRequest validates a native Gemini generateContent request body
// by round-tripping it through the canonical type. Unknown fields are not
// rejected (they're silently dropped), but malformed required fields
// surface as an error the caller turns into a 422.
func DecodeNativeRequest(body []byte) (*gemini.Request, error) {
	var req gemini.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("native: invalid request body: %w", err)
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("native: contents must not be empty")
	}
	return &req, nil
}
