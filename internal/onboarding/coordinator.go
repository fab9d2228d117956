// Package onboarding discovers a credential's Cloud Code Assist project and
// completes tier onboarding, memoizing the result per credential so the
// two-step flow only ever runs once per credential lifetime.
package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gcli2api-go/internal/gemini"
	log "github.com/sirupsen/logrus"
)

const (
	fallbackTier  = "legacy-tier"
	maxPollAttempts = 5
	basePollDelay   = time.Second
)

// Caller is the subset of the upstream client onboarding needs.
type Caller interface {
	CallCodeAssist(ctx context.Context, accessToken, projectID, action string, payload any) ([]byte, error)
}

// Coordinator runs the onboarding flow for credentials, memoizing per
// credential ID so concurrent requests on an already-onboarded credential
// never repeat the network round-trips.
type Coordinator struct {
	caller Caller

	mu   sync.Mutex
	once map[string]*sync.Once
	err  map[string]error
}

// New constructs a Coordinator backed by caller.
func New(caller Caller) *Coordinator {
	return &Coordinator{
		caller: caller,
		once:   make(map[string]*sync.Once),
		err:    make(map[string]error),
	}
}

// Prepare ensures credential has a project ID and has completed tier
// onboarding, running the flow at most once per credential ID. accessToken is
// the credential's current (already refreshed) bearer token. existingProjectID
// is whatever project ID the credential record already carries, if any — when
// non-empty, project ID discovery is skipped entirely and the flow goes
// straight to tier onboarding with that ID. The returned projectID is also
// written back into the credential via markOnboarded.
func (co *Coordinator) Prepare(ctx context.Context, credID, accessToken, existingProjectID string, markOnboarded func(projectID string)) (string, error) {
	co.mu.Lock()
	once, ok := co.once[credID]
	if !ok {
		once = &sync.Once{}
		co.once[credID] = once
	}
	co.mu.Unlock()

	var projectID string
	once.Do(func() {
		projectID, co.err[credID] = co.run(ctx, accessToken, existingProjectID)
		if co.err[credID] == nil && markOnboarded != nil {
			markOnboarded(projectID)
		}
	})

	co.mu.Lock()
	err := co.err[credID]
	co.mu.Unlock()

	if err != nil {
		// Allow a later call to retry after a failure instead of caching it
		// forever — reset the Once so the next Prepare call re-runs the flow.
		co.mu.Lock()
		co.once[credID] = &sync.Once{}
		co.mu.Unlock()
		return "", err
	}
	return projectID, nil
}

func (co *Coordinator) run(ctx context.Context, accessToken, existingProjectID string) (string, error) {
	projectID, currentTier, allowedTiers, err := co.fetchProjectAndTier(ctx, accessToken, existingProjectID)
	if err != nil {
		return "", fmt.Errorf("onboarding: fetch project: %w", err)
	}
	if currentTier != "" {
		return projectID, nil
	}
	return co.performOnboarding(ctx, accessToken, projectID, allowedTiers)
}

// fetchProjectAndTier calls loadCodeAssist to learn the current tier (and,
// when existingProjectID is empty, to discover the project ID too). When the
// credential already carries a project ID, it's passed straight through to
// the call instead of being rediscovered, and the response's own
// cloudaicompanionProject field is ignored in favor of it.
func (co *Coordinator) fetchProjectAndTier(ctx context.Context, accessToken, existingProjectID string) (projectID, currentTier string, allowedTiers []gemini.Tier, err error) {
	req := gemini.LoadCodeAssistRequest{Metadata: clientMetadata(existingProjectID)}
	raw, err := co.caller.CallCodeAssist(ctx, accessToken, existingProjectID, "loadCodeAssist", req)
	if err != nil {
		return "", "", nil, err
	}
	var resp gemini.LoadCodeAssistResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", "", nil, fmt.Errorf("decode loadCodeAssist response: %w", err)
	}
	if resp.CurrentTier != nil {
		currentTier = resp.CurrentTier.ID
	}
	projectID = existingProjectID
	if projectID == "" {
		projectID = resp.CloudaicompanionProject
	}
	return projectID, currentTier, resp.AllowedTiers, nil
}

func (co *Coordinator) performOnboarding(ctx context.Context, accessToken, projectID string, allowedTiers []gemini.Tier) (string, error) {
	tierID := fallbackTier
	for _, t := range allowedTiers {
		if t.IsDefault {
			tierID = t.ID
			break
		}
	}

	req := gemini.OnboardUserRequest{
		TierID:                  tierID,
		CloudaicompanionProject: projectID,
		Metadata:                clientMetadata(projectID),
	}

	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		raw, err := co.caller.CallCodeAssist(ctx, accessToken, projectID, "onboardUser", req)
		if err != nil {
			return "", err
		}
		var resp gemini.OnboardUserResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode onboardUser response: %w", err)
		}
		if resp.Done {
			if resp.Response != nil && resp.Response.CloudaicompanionProject.ID != "" {
				return resp.Response.CloudaicompanionProject.ID, nil
			}
			return projectID, nil
		}

		delay := time.Duration(float64(basePollDelay) * pow2(attempt)) + time.Duration(rand.Float64()*float64(time.Second))
		log.WithField("attempt", attempt).Debug("onboarding: operation not done yet, backing off")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", fmt.Errorf("onboarding: exceeded %d poll attempts without completion", maxPollAttempts)
}

func pow2(n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= 2
	}
	return result
}

func clientMetadata(projectID string) gemini.ClientMetadata {
	return gemini.ClientMetadata{
		IDEType:     "IDE_UNSPECIFIED",
		Platform:    "PLATFORM_UNSPECIFIED",
		PluginType:  "GEMINI",
		DuetProject: projectID,
	}
}
