package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingsSingleInput(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/embedding-001:embedContent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer upstreamSrv.Close()

	deps := testDeps(upstreamSrv)
	c, w := newTestContext(http.MethodPost, "/v1/embeddings", `{"model":"embedding-001","input":"hello"}`)

	deps.Embeddings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"list"`)
	assert.Contains(t, w.Body.String(), "0.2")
}

func TestEmbeddingsMultiInputUsesBatch(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/embedding-001:batchEmbedContents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.1]},{"values":[0.2]}]}`))
	}))
	defer upstreamSrv.Close()

	deps := testDeps(upstreamSrv)
	c, w := newTestContext(http.MethodPost, "/v1/embeddings", `{"model":"embedding-001","input":["a","b"]}`)

	deps.Embeddings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0.1")
	assert.Contains(t, w.Body.String(), "0.2")
}

func TestEmbeddingsRejectsMissingModel(t *testing.T) {
	deps := testDeps(httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	c, w := newTestContext(http.MethodPost, "/v1/embeddings", `{"input":"hello"}`)

	deps.Embeddings(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEmbeddingsRejectsInvalidInputShape(t *testing.T) {
	deps := testDeps(httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	c, w := newTestContext(http.MethodPost, "/v1/embeddings", `{"model":"embedding-001","input":42}`)

	deps.Embeddings(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
