// Package handlers implements the three inbound HTTP surfaces (OpenAI,
// Claude, native Gemini) plus the shared chat/embedding orchestration that
// every surface funnels through.
package handlers

import (
	"context"
	"fmt"

	"gcli2api-go/internal/config"
	"gcli2api-go/internal/credential"
	"gcli2api-go/internal/gemini"
	"gcli2api-go/internal/onboarding"
	"gcli2api-go/internal/translator"
	"gcli2api-go/internal/upstream"
)

// Deps bundles every collaborator a handler needs. One Deps is constructed
// at startup and shared across all requests.
type Deps struct {
	Config      *config.Config
	Credentials *credential.Manager
	Onboarding  *onboarding.Coordinator
	Upstream    *upstream.Client
	Sanitizer   *translator.SchemaSanitizer
}

// preparedCredential is a credential that has been rotated-to, refreshed if
// necessary, and onboarded — ready to authenticate an upstream call.
type preparedCredential struct {
	cred      *credential.Credential
	projectID string
}

// prepare rotates to the next usable credential and ensures it has completed
// onboarding, returning the access token and project ID to use for this
// request's upstream calls.
func (d *Deps) prepare(ctx context.Context) (*preparedCredential, error) {
	cred, err := d.Credentials.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("no credentials available: %w", err)
	}

	snap := cred.Clone()
	projectID := snap.ProjectID
	if !snap.Onboarded {
		projectID, err = d.Onboarding.Prepare(ctx, snap.ID, snap.AccessToken, snap.ProjectID, func(pid string) {
			cred.MarkOnboarded(pid)
		})
		if err != nil {
			return nil, fmt.Errorf("onboarding: %w", err)
		}
	}

	return &preparedCredential{cred: cred, projectID: projectID}, nil
}

func (d *Deps) sanitizeTools(req *gemini.Request) {
	if d.Sanitizer == nil || req == nil || len(req.Tools) == 0 {
		return
	}
	req.Tools = d.Sanitizer.SanitizeTools(req.Tools)
}
