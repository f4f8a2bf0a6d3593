package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treematch/pkg/cache"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/observability"
	"github.com/matzehuels/treematch/pkg/pipeline"
)

const (
	// r(x(a, b), c)
	tree1JSON = `{"nodes":[{"id":"r"},{"id":"x"},{"id":"a"},{"id":"b"},{"id":"c"}],
		"edges":[{"from":"r","to":"x"},{"from":"x","to":"a"},{"from":"x","to":"b"},{"from":"r","to":"c"}]}`
	// r(a, b, c)
	tree2JSON = `{"nodes":[{"id":"r"},{"id":"a"},{"id":"b"},{"id":"c"}],
		"edges":[{"from":"r","to":"a"},{"from":"r","to":"b"},{"from":"r","to":"c"}]}`
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(c, nil, logger)
	srv := httptest.NewServer(New(runner, logger, cfg).Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = runner.Close()
		observability.Reset()
	})
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func compareBody(extra string) string {
	return `{"tree1":` + tree1JSON + `,"tree2":` + tree2JSON + extra + `}`
}

func TestEmbedding(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := post(t, srv, "/v1/embedding", compareBody(`,"verify":true`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var got compareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 4.0, got.Value)
	assert.Equal(t, pipeline.ModeEmbedding, got.Mode)
	assert.Len(t, got.Pairs, 4)
	assert.Len(t, got.Subtree1.Nodes, 4)
	assert.False(t, got.CacheHit)
	assert.Equal(t, resp.Header.Get(RequestIDHeader), got.RequestID)

	again := post(t, srv, "/v1/embedding", compareBody(""))
	require.Equal(t, http.StatusOK, again.StatusCode)
	var cached compareResponse
	require.NoError(t, json.NewDecoder(again.Body).Decode(&cached))
	assert.True(t, cached.CacheHit)
	assert.Equal(t, got.Pairs, cached.Pairs)
}

func TestIsomorphism(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := post(t, srv, "/v1/isomorphism", compareBody(`,"strategy":"iter","token_kind":"number"`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got compareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2.0, got.Value)
	assert.Equal(t, "iter", got.Strategy)
	assert.Equal(t, "number", got.TokenKind)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/embedding", strings.NewReader(compareBody("")))
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "client-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "client-42", resp.Header.Get(RequestIDHeader))
	var got compareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "client-42", got.RequestID)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Config{MaxNodes: 4})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "/v1/embedding", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "/v1/embedding", `{"tree3":{}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing tree", "/v1/embedding", `{"tree1":` + tree2JSON + `}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too many nodes", "/v1/embedding", compareBody(""), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown strategy", "/v1/isomorphism", `{"tree1":` + tree2JSON + `,"tree2":` + tree2JSON + `,"strategy":"quantum"}`,
			http.StatusBadRequest, errors.ErrCodeUnknownImplementation},
		{"cycle", "/v1/embedding", `{"tree1":{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a"}]},"tree2":` + tree2JSON + `}`,
			http.StatusBadRequest, errors.ErrCodeUnsupportedGraphType},
		{"empty tree", "/v1/embedding", `{"tree1":{"nodes":[],"edges":[]},"tree2":` + tree2JSON + `}`,
			http.StatusUnprocessableEntity, errors.ErrCodePointlessComparison},
		{"duplicate node", "/v1/embedding", `{"tree1":{"nodes":[{"id":"a"},{"id":"a"}]},"tree2":` + tree2JSON + `}`,
			http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown route", "/v1/alignment", compareBody(""), http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestPaths(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := post(t, srv, "/v1/paths", `{"paths1":["root/suffix1"],"paths2":["root/suffix2"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got pathsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []string{"root"}, got.Paths1)
	assert.Equal(t, []string{"root"}, got.Paths2)
	assert.Equal(t, 1.0, got.Value)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got["status"])
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, Config{})
	post(t, srv, "/v1/embedding", compareBody(""))
	post(t, srv, "/v1/embedding", compareBody(""))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, want := range []string{
		`treematch_requests_total{code="200",route="/v1/embedding"} 2`,
		`treematch_solve_duration_seconds_count{mode="embedding"`,
		`treematch_cache_events_total{event="hit",key_type="result"} 1`,
		`treematch_cache_events_total{event="set",key_type="result"} 1`,
		"treematch_solves_in_flight 0",
	} {
		assert.True(t, bytes.Contains(data, []byte(want)), "metrics missing %q", want)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.New(errors.ErrCodeInvalidEncoding, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.New(errors.ErrCodePointlessComparison, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New(errors.ErrCodeInternal, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
