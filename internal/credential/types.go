// Package credential implements the pool of Google OAuth credentials used to
// call the upstream Code Assist and Gemini APIs, and the round-robin rotator
// that selects among them.
package credential

import (
	"sync"
	"time"
)

// Credential is a single OAuth-backed identity the gateway can use upstream.
// All mutable fields are guarded by mu; callers outside this package should
// only ever see a Clone().
type Credential struct {
	ID           string
	Email        string
	ProjectID    string
	ClientID     string
	ClientSecret string
	TokenURI     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Onboarded    bool
	Source       string

	valid bool
	mu    sync.RWMutex
}

// NewCredential constructs a Credential starting in the valid state.
func NewCredential(id string) *Credential {
	return &Credential{ID: id, valid: true}
}

// IsExpired reports whether the access token needs a refresh, leaving a small
// safety margin so an in-flight request doesn't race token expiry.
func (c *Credential) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Add(30 * time.Second).After(c.ExpiresAt)
}

// IsValid reports whether the credential is still usable (not permanently
// invalidated by a prior refresh failure).
func (c *Credential) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

// MarkInvalid permanently removes the credential from rotation. Used when a
// refresh attempt fails with a permanent error (e.g. revoked/invalid_grant).
func (c *Credential) MarkInvalid(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	_ = reason
}

// ApplyRefresh stores a freshly minted access token and expiry.
func (c *Credential) ApplyRefresh(accessToken string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AccessToken = accessToken
	c.ExpiresAt = expiresAt
}

// MarkOnboarded records that the onboarding coordinator has finished the
// project-discovery + tier-onboarding flow for this credential.
func (c *Credential) MarkOnboarded(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ProjectID = projectID
	c.Onboarded = true
}

// Clone returns a snapshot copy safe for callers to read without holding the
// internal lock.
func (c *Credential) Clone() *Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Credential{
		ID:           c.ID,
		Email:        c.Email,
		ProjectID:    c.ProjectID,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURI:     c.TokenURI,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt,
		Onboarded:    c.Onboarded,
		Source:       c.Source,
		valid:        c.valid,
	}
}
