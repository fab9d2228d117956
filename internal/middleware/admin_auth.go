package middleware

import (
	"net/http"
	"strings"

	"gcli2api-go/internal/adminauth"
	apperrors "gcli2api-go/internal/errors"
	"gcli2api-go/internal/httpformat"
	"github.com/gin-gonic/gin"
)

// AdminAuth gates the debug introspection endpoint behind a signed,
// short-lived token minted via POST /v1/debug/token. If no admin secret is
// configured the endpoint is disabled entirely rather than left open.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			respondAdminError(c, http.StatusServiceUnavailable, "debug_disabled", "debug introspection is not configured")
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			respondAdminError(c, http.StatusUnauthorized, "missing_token", "expected Authorization: Bearer <debug token>")
			return
		}
		token := strings.TrimSpace(auth[len("bearer "):])

		if err := adminauth.Verify(secret, token); err != nil {
			respondAdminError(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}
		c.Next()
	}
}

func respondAdminError(c *gin.Context, status int, code, message string) {
	err := apperrors.New(status, code, "invalid_request_error", message)
	format := httpformat.DetectFromContext(c)
	payload, marshalErr := err.ToJSON(format)
	if marshalErr != nil {
		c.JSON(status, gin.H{"error": gin.H{"message": message, "code": code}})
		c.Abort()
		return
	}
	c.Data(status, "application/json", payload)
	c.Abort()
}
