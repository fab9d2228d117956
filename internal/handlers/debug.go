package handlers

import (
	"net/http"
	"time"

	"gcli2api-go/internal/adminauth"
	hcommon "gcli2api-go/internal/handlers/common"
	"github.com/gin-gonic/gin"
)

// debugTokenTTL bounds how long a minted debug token stays valid. Short
// enough that a leaked token is useless quickly, long enough to cover one
// interactive debugging session.
const debugTokenTTL = 10 * time.Minute

// IssueDebugToken implements POST /v1/debug/token. It sits behind the normal
// inbound-key auth group, so only a caller that already holds the gateway's
// API key can mint a short-lived token for the separately-gated /debug
// endpoint.
func (d *Deps) IssueDebugToken(c *gin.Context) {
	secret := ""
	if d.Config != nil {
		secret = d.Config.Security.AdminSecret
	}
	token, err := adminauth.Issue(secret, debugTokenTTL)
	if err != nil {
		hcommon.AbortWithError(c, http.StatusServiceUnavailable, "debug_disabled", "debug introspection is not configured")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(debugTokenTTL.Seconds()),
	})
}

// DebugInfo implements GET /debug, gated by middleware.AdminAuth. It reports
// internal pool state that would be noisy or sensitive on the public /health
// probe: per-credential validity, expiry, onboarding state and project ID.
func (d *Deps) DebugInfo(c *gin.Context) {
	var creds []gin.H
	if d.Credentials != nil {
		for _, cred := range d.Credentials.All() {
			snap := cred.Clone()
			creds = append(creds, gin.H{
				"id":        snap.ID,
				"valid":     cred.IsValid(),
				"expired":   cred.IsExpired(),
				"onboarded": snap.Onboarded,
				"project_id": snap.ProjectID,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"server_time": d.displayTime(),
		"credentials": creds,
	})
}
