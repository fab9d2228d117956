package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"gcli2api-go/internal/credential"
	"gcli2api-go/internal/oauth"
	"gcli2api-go/internal/onboarding"
	"gcli2api-go/internal/translator"
	"gcli2api-go/internal/upstream"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// unusedRefresher satisfies credential.Refresher but is never actually
// invoked in these tests since every test credential starts already fresh.
type unusedRefresher struct{}

func (unusedRefresher) Refresh(context.Context, string, string, string) (*oauth.RefreshResult, error) {
	panic("refresh should not be called for a pre-refreshed test credential")
}

// testDeps wires Deps to a fake upstream server so handlers can be exercised
// end-to-end without talking to Google.
func testDeps(upstreamSrv *httptest.Server) *Deps {
	cred := credential.NewCredential("test-cred")
	cred.ApplyRefresh("access-token", time.Now().Add(time.Hour))
	cred.MarkOnboarded("test-project")

	mgr := credential.NewManager([]*credential.Credential{cred}, unusedRefresher{})

	client := &upstream.Client{
		CodeAssistBase: upstreamSrv.URL,
		GeminiBase:     upstreamSrv.URL,
		EmbeddingKey:   "test-key",
		HTTP:           upstreamSrv.Client(),
	}

	return &Deps{
		Credentials: mgr,
		Onboarding:  onboarding.New(client),
		Upstream:    client,
		Sanitizer:   translator.NewSchemaSanitizer(nil),
	}
}

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}
