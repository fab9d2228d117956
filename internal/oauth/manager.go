// Package oauth performs the refresh_token grant against Google's OAuth2
// token endpoint. Minting new credentials via the interactive
// authorization-code + PKCE consent flow is out of scope here: credentials
// arrive already minted (see internal/credential).
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// PermanentError indicates the refresh token itself is no longer usable
// (revoked, expired, or the grant was otherwise rejected for good) and the
// owning credential should be taken out of rotation for good.
type PermanentError struct {
	Status int
	Reason string
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("oauth: permanent refresh failure (%d): %s", e.Status, e.Reason)
}

var permanentOAuthErrors = map[string]bool{
	"invalid_grant":  true,
	"unauthorized_client": true,
	"access_denied":  true,
}

// Manager refreshes OAuth access tokens using the refresh_token grant.
type Manager struct {
	tokenURL   string
	httpClient *http.Client
	now        func() time.Time
}

// NewManager constructs a Manager pointed at tokenURL (falls back to Google's
// default token endpoint when empty).
func NewManager(tokenURL string, httpClient *http.Client) *Manager {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Manager{tokenURL: tokenURL, httpClient: httpClient, now: time.Now}
}

// Refresh exchanges a refresh token for a new access token. A non-nil
// *PermanentError means the refresh token is dead and the credential should
// be invalidated; any other error is treated as transient (network blip,
// upstream 5xx) and the credential stays in rotation for a later retry.
func (m *Manager) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*RefreshResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, &PermanentError{Reason: "no refresh token available"}
	}

	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauth: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var tok TokenResponse
	_ = json.Unmarshal(body, &tok)

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest && permanentOAuthErrors[tok.Error] {
			return nil, &PermanentError{Status: resp.StatusCode, Reason: firstNonEmpty(tok.ErrorDescription, tok.Error)}
		}
		return nil, fmt.Errorf("oauth: refresh failed with status %d: %s", resp.StatusCode, string(body))
	}

	result := &RefreshResult{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if tok.ExpiresIn > 0 {
		result.ExpiresAt = m.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
