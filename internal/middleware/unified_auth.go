package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	apperrors "gcli2api-go/internal/errors"
	"gcli2api-go/internal/httpformat"
	"github.com/gin-gonic/gin"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// RequiredKey is the expected password (if empty, auth is disabled)
	RequiredKey string
	// AllowMultipleSources is not consulted: every supported header/query
	// location is always checked
	AllowMultipleSources bool
	// CustomValidator is an optional function for custom validation logic
	CustomValidator func(key string) bool
}

// UnifiedAuth provides flexible authentication middleware supporting:
//   - ?key=<password>
//   - x-goog-api-key: <password>
//   - x-api-key: <password>
//   - Authorization: Bearer <password>
//   - Authorization: Basic base64(user:<password>) — only the password half is checked
func UnifiedAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.RequiredKey == "" && cfg.CustomValidator == nil {
			c.Next()
			return
		}

		providedKey, isBasic := extractCredential(c)

		if providedKey == "" {
			respondUnauthorized(c, "API key not provided", isBasic)
			return
		}

		if cfg.CustomValidator != nil {
			if !cfg.CustomValidator(providedKey) {
				respondUnauthorized(c, "Invalid API key", isBasic)
				return
			}
			c.Set("api_key", providedKey)
			c.Next()
			return
		}

		if cfg.RequiredKey != "" && providedKey != cfg.RequiredKey {
			respondUnauthorized(c, "Invalid API key", isBasic)
			return
		}

		c.Set("api_key", providedKey)
		c.Next()
	}
}

// extractCredential checks, in order, query ?key=, x-goog-api-key, x-api-key,
// Authorization: Bearer, and Authorization: Basic. It returns the credential
// found and whether it came from a Basic header (so a 401 can echo the
// WWW-Authenticate challenge the client expects).
func extractCredential(c *gin.Context) (key string, isBasic bool) {
	if v := c.Query("key"); v != "" {
		return v, false
	}
	if v := c.GetHeader("x-goog-api-key"); v != "" {
		return v, false
	}
	if v := c.GetHeader("x-api-key"); v != "" {
		return v, false
	}
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	switch {
	case strings.HasPrefix(strings.ToLower(auth), "bearer "):
		return strings.TrimSpace(auth[len("bearer "):]), false
	case strings.HasPrefix(strings.ToLower(auth), "basic "):
		raw := strings.TrimSpace(auth[len("basic "):])
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", true
		}
		parts := strings.SplitN(string(decoded), ":", 2)
		if len(parts) == 2 {
			return parts[1], true
		}
		return parts[0], true
	default:
		return auth, false
	}
}

func respondUnauthorized(c *gin.Context, message string, isBasic bool) {
	if isBasic {
		c.Writer.Header().Set("WWW-Authenticate", "Basic")
	}
	err := apperrors.New(http.StatusUnauthorized, "invalid_api_key", "invalid_request_error", message)
	format := httpformat.DetectFromContext(c)
	payload, marshalErr := err.ToJSON(format)
	if marshalErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": err.Message, "type": err.Type, "code": err.Code},
		})
		c.Abort()
		return
	}
	c.Data(http.StatusUnauthorized, "application/json", payload)
	c.Abort()
}

// MultiKeyAuth validates against a list of allowed keys.
func MultiKeyAuth(allowedKeys []string) gin.HandlerFunc {
	keySet := make(map[string]bool, len(allowedKeys))
	for _, k := range allowedKeys {
		if k != "" {
			keySet[k] = true
		}
	}
	if len(keySet) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return UnifiedAuth(AuthConfig{
		AllowMultipleSources: true,
		CustomValidator:      func(key string) bool { return keySet[key] },
	})
}
