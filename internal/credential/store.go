package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// fileCredential is the on-disk / env-var JSON shape for one credential,
// matching the field names Google's own `gcloud auth` / gemini-cli adc.json
// files use.
type fileCredential struct {
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	AccessToken  string    `json:"access_token,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	ExpiresAt    time.Time `json:"expiry,omitempty"`
}

// LoadFromEnvJSON parses a JSON array of credential objects, such as the
// CREDENTIALS_JSON environment variable.
func LoadFromEnvJSON(raw string) ([]*Credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var entries []fileCredential
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("credential: parse CREDENTIALS_JSON: %w", err)
	}
	out := make([]*Credential, 0, len(entries))
	for i, e := range entries {
		out = append(out, fromFileCredential(fmt.Sprintf("env-%d", i), e))
	}
	return out, nil
}

// LoadFromDir scans dir for oauth_creds_*.json files, returning one
// Credential per file, sorted by filename for deterministic rotation order.
func LoadFromDir(dir string) ([]*Credential, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("credential: read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "oauth_creds_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]*Credential, 0, len(names))
	for _, name := range names {
		c, err := loadOne(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func loadOne(path string) (*Credential, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credential: read %s: %w", path, err)
	}
	var fc fileCredential
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("credential: parse %s: %w", path, err)
	}
	c := fromFileCredential(filepath.Base(path), fc)
	c.Source = path
	return c, nil
}

func fromFileCredential(id string, fc fileCredential) *Credential {
	c := NewCredential(id)
	c.ClientID = fc.ClientID
	c.ClientSecret = fc.ClientSecret
	c.RefreshToken = fc.RefreshToken
	c.TokenURI = fc.TokenURI
	c.AccessToken = fc.AccessToken
	c.ProjectID = fc.ProjectID
	c.Email = fc.Email
	c.ExpiresAt = fc.ExpiresAt
	return c
}
