package credential

import (
	"context"
	"fmt"
	"sync"

	"gcli2api-go/internal/metrics"
	"gcli2api-go/internal/oauth"
	log "github.com/sirupsen/logrus"
)

// Refresher refreshes an OAuth access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*oauth.RefreshResult, error)
}

// Manager owns the credential pool and the round-robin rotation cursor.
// Exactly one mutex guards the cursor and the slice itself; individual
// Credential fields are separately guarded (see types.go) so a refresh in
// flight never blocks an unrelated credential's selection.
type Manager struct {
	mu    sync.Mutex
	creds []*Credential
	cur   int

	refresher Refresher
}

// NewManager constructs a Manager over the given credentials.
func NewManager(creds []*Credential, refresher Refresher) *Manager {
	m := &Manager{creds: creds, refresher: refresher}
	metrics.CredentialsUsable.Set(float64(m.UsableCount()))
	return m
}

// UsableCount returns the number of credentials that have not been
// permanently invalidated (regardless of whether their access token happens
// to be expired right now — that's recoverable via refresh).
func (m *Manager) UsableCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countValidLocked()
}

func (m *Manager) countValidLocked() int {
	n := 0
	for _, c := range m.creds {
		if c.IsValid() {
			n++
		}
	}
	return n
}

// Count returns the number of credentials in the pool (valid or not).
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creds)
}

// All returns a snapshot of every credential in the pool.
func (m *Manager) All() []*Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Credential, len(m.creds))
	copy(out, m.creds)
	return out
}

// Add appends a newly discovered credential to the pool (used by the
// directory watcher when a new file appears).
func (m *Manager) Add(c *Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.creds {
		if existing.ID == c.ID {
			return
		}
	}
	m.creds = append(m.creds, c)
	metrics.CredentialsUsable.Set(float64(m.countValidLocked()))
}

// ErrNoCredentialsAvailable is returned when every credential in the pool is
// invalid or could not be refreshed.
var ErrNoCredentialsAvailable = fmt.Errorf("credential: no valid credentials available")

// Next returns the next usable credential, refreshing its access token first
// if it has expired. It walks the pool at most once starting from the
// rotation cursor: valid-and-fresh credentials are returned immediately;
// expired ones are refreshed in place; a refresh that fails permanently
// invalidates the credential and the loop continues to the next one. A
// transient refresh failure is logged and also skipped for this call (the
// credential stays in rotation for a future attempt).
func (m *Manager) Next(ctx context.Context) (*Credential, error) {
	m.mu.Lock()
	n := len(m.creds)
	if n == 0 {
		m.mu.Unlock()
		return nil, ErrNoCredentialsAvailable
	}
	start := m.cur
	m.mu.Unlock()

	for i := 0; i < n; i++ {
		m.mu.Lock()
		idx := (start + i) % len(m.creds)
		cred := m.creds[idx]
		m.mu.Unlock()

		if !cred.IsValid() {
			continue
		}

		if cred.IsExpired() {
			if err := m.refresh(ctx, cred); err != nil {
				if _, permanent := err.(*oauth.PermanentError); permanent {
					log.WithField("credential", cred.ID).WithError(err).Warn("credential permanently invalidated")
					cred.MarkInvalid(err.Error())
					metrics.CredentialsUsable.Set(float64(m.UsableCount()))
				} else {
					log.WithField("credential", cred.ID).WithError(err).Warn("transient refresh failure, skipping for this request")
				}
				continue
			}
		}

		m.mu.Lock()
		m.cur = (idx + 1) % len(m.creds)
		m.mu.Unlock()
		return cred, nil
	}

	return nil, ErrNoCredentialsAvailable
}

func (m *Manager) refresh(ctx context.Context, cred *Credential) error {
	snap := cred.Clone()
	result, err := m.refresher.Refresh(ctx, snap.ClientID, snap.ClientSecret, snap.RefreshToken)
	if err != nil {
		return err
	}
	cred.ApplyRefresh(result.AccessToken, result.ExpiresAt)
	if result.RefreshToken != "" {
		cred.mu.Lock()
		cred.RefreshToken = result.RefreshToken
		cred.mu.Unlock()
	}
	return nil
}
