package gemini

// LoadCodeAssistRequest is the body sent to v1internal:loadCodeAssist.
type LoadCodeAssistRequest struct {
	CloudaicompanionProject string         `json:"cloudaicompanionProject,omitempty"`
	Metadata                ClientMetadata `json:"metadata"`
}

// ClientMetadata identifies the calling client to Code Assist, mirroring the
// fields the real Gemini CLI sends.
type ClientMetadata struct {
	IDEType     string `json:"ideType"`
	Platform    string `json:"platform"`
	PluginType  string `json:"pluginType"`
	DuetProject string `json:"duetProject,omitempty"`
}

// Tier describes one onboarding tier option.
type Tier struct {
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// LoadCodeAssistResponse is the body returned by v1internal:loadCodeAssist.
type LoadCodeAssistResponse struct {
	CloudaicompanionProject string `json:"cloudaicompanionProject,omitempty"`
	CurrentTier             *Tier  `json:"currentTier,omitempty"`
	AllowedTiers            []Tier `json:"allowedTiers,omitempty"`
}

// OnboardUserRequest is the body sent to v1internal:onboardUser.
type OnboardUserRequest struct {
	TierID                  string         `json:"tierId"`
	CloudaicompanionProject string         `json:"cloudaicompanionProject,omitempty"`
	Metadata                ClientMetadata `json:"metadata"`
}

// OnboardUserResponse is the long-running-operation envelope returned by
// v1internal:onboardUser.
type OnboardUserResponse struct {
	Done     bool `json:"done"`
	Response *struct {
		CloudaicompanionProject struct {
			ID string `json:"id"`
		} `json:"cloudaicompanionProject"`
	} `json:"response,omitempty"`
}
