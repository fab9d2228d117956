package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gcli2api-go/internal/credential"
	"github.com/stretchr/testify/assert"
)

func TestListModelsOpenAI(t *testing.T) {
	deps := &Deps{}
	c, w := newTestContext(http.MethodGet, "/v1/models", "")

	deps.ListModelsOpenAI(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"object":"list"`)
	assert.Contains(t, w.Body.String(), "gemini-2.5-pro")
}

func TestGetModelOpenAIRejectsEmptyID(t *testing.T) {
	deps := &Deps{}
	c, w := newTestContext(http.MethodGet, "/v1/models/", "")

	deps.GetModelOpenAI(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListModelsGemini(t *testing.T) {
	deps := &Deps{}
	c, w := newTestContext(http.MethodGet, "/v1beta/models", "")

	deps.ListModelsGemini(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "models/gemini-2.5-pro")
}

func TestHealthReportsCredentialCount(t *testing.T) {
	mgr := credential.NewManager([]*credential.Credential{credential.NewCredential("a")}, nil)
	deps := &Deps{Credentials: mgr}
	c, w := newTestContext(http.MethodGet, "/health", "")

	deps.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"credentials":1`)
	assert.Contains(t, w.Body.String(), `"server_time"`)
}

func TestHealthReports503WhenNoCredentials(t *testing.T) {
	mgr := credential.NewManager(nil, nil)
	deps := &Deps{Credentials: mgr}
	c, w := newTestContext(http.MethodGet, "/health", "")

	deps.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRootBanner(t *testing.T) {
	deps := &Deps{}
	c, w := newTestContext(http.MethodGet, "/", "")

	deps.Root(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}
