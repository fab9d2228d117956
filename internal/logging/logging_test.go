package logging

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gcli2api-go/internal/config"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDebugUsesTextFormatterAndDebugLevel(t *testing.T) {
	cfg := &config.Config{Security: config.Security{Debug: true}}
	require.NoError(t, Setup(cfg))

	_, ok := log.StandardLogger().Formatter.(*log.TextFormatter)
	assert.True(t, ok)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestSetupProductionUsesJSONFormatterAndInfoLevel(t *testing.T) {
	cfg := &config.Config{Security: config.Security{Debug: false}}
	require.NoError(t, Setup(cfg))

	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, ok)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestSetupWritesToConfiguredLogFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "nested", "gateway.log")
	cfg := &config.Config{Security: config.Security{LogFile: logFile}}

	require.NoError(t, Setup(cfg))
	log.Info("hello from test")

	require.NoError(t, Setup(&config.Config{}))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestWithReqMergesExtrasAndFallsBackToURLPath(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/models", nil)
	c.Set("request_id", "req-123")

	entry := WithReq(c, log.Fields{"extra": "value"})

	assert.Equal(t, "req-123", entry.Data["request_id"])
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/v1/models", entry.Data["path"])
	assert.Equal(t, "value", entry.Data["extra"])
}

func TestWithReqHandlesNilContext(t *testing.T) {
	entry := WithReq(nil, log.Fields{"k": "v"})
	assert.Equal(t, "v", entry.Data["k"])
}

func TestDurationMS(t *testing.T) {
	assert.Equal(t, int64(1500), DurationMS(1500*time.Millisecond))
}

func TestErrorKindClassification(t *testing.T) {
	assert.Equal(t, "network_error", ErrorKind(0, true))
	assert.Equal(t, "upstream_429", ErrorKind(429, true))
	assert.Equal(t, "upstream_401", ErrorKind(401, true))
	assert.Equal(t, "upstream_5xx", ErrorKind(502, true))
	assert.Equal(t, "upstream_4xx", ErrorKind(404, true))
	assert.Equal(t, "ok", ErrorKind(200, false))
	assert.Equal(t, "error", ErrorKind(200, true))
}
