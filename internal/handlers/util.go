package handlers

import (
	"encoding/json"
	"fmt"

	apperrors "gcli2api-go/internal/errors"
	"gcli2api-go/internal/gemini"
	"gcli2api-go/internal/metrics"
)

// decodeGeminiResponse parses a non-streaming upstream body into the
// canonical Response, accepting either a bare Response object or one wrapped
// under a top-level "response" key (Code Assist uses the latter).
func decodeGeminiResponse(body []byte) (*gemini.Response, error) {
	var direct gemini.Response
	if err := json.Unmarshal(body, &direct); err == nil && len(direct.Candidates) > 0 {
		return &direct, nil
	}
	var wrapped struct {
		Response *gemini.Response `json:"response"`
		Result   *gemini.Response `json:"result"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Response != nil {
			return wrapped.Response, nil
		}
		if wrapped.Result != nil {
			return wrapped.Result, nil
		}
	}
	return nil, fmt.Errorf("unrecognized upstream response shape")
}

// asAPIError coerces any error into an *apperrors.APIError, preserving one
// produced by the upstream package and falling back to a generic 502 for
// anything else (e.g. a transport-level failure not already classified).
func asAPIError(err error) *apperrors.APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*apperrors.APIError); ok {
		metrics.UpstreamErrorsTotal.WithLabelValues(apiErr.Code).Inc()
		return apiErr
	}
	metrics.UpstreamErrorsTotal.WithLabelValues("unclassified").Inc()
	return apperrors.New(502, "upstream_error", "api_error", err.Error())
}
