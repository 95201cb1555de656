package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/promptbox/internal/testutil"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Store == nil && cfg.DatabasePath == "" {
		cfg.Store = testutil.NewStore(t)
	}
	if cfg.Logger == nil {
		cfg.Logger = testutil.Logger()
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestNew_Defaults(t *testing.T) {
	srv := newTestServer(t, Config{})

	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
	assert.False(t, srv.IsRunning())
	assert.NotEmpty(t, srv.Endpoints().Endpoints())
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := New(Config{Logger: testutil.Logger()})
	assert.Error(t, err)
}

func TestServer_RequireInit(t *testing.T) {
	srv := newTestServer(t, Config{DatabasePath: t.TempDir() + "/never-opened.db"})
	h := srv.Handler()

	t.Run("health does not need the store", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store endpoints return 503", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/prompts", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "server not fully initialized", decodeError(t, rec))
	})

	t.Run("parse does not need the store", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/prompts/parse", `{"text":"{{a}}"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready reports not initialized", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_initialized")
	})
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t, Config{})
	h := srv.Handler()

	t.Run("generated when absent", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/health", "")
		assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
	})

	t.Run("echoes caller id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/health", "", "X-Request-ID", "abc-123")
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestServer_Recovery(t *testing.T) {
	srv := newTestServer(t, Config{})
	srv.engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := do(t, srv.Handler(), http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", decodeError(t, rec))

	// The server keeps serving after a panic.
	rec = do(t, srv.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t, Config{AllowOrigins: []string{"http://allowed.test"}})
	h := srv.Handler()

	preflight := func(origin string) *httptest.ResponseRecorder {
		return do(t, h, http.MethodOptions, "/api/prompts", "",
			"Origin", origin,
			"Access-Control-Request-Method", http.MethodPost,
		)
	}

	t.Run("allowed origin", func(t *testing.T) {
		rec := preflight("http://allowed.test")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		rec := preflight("http://evil.test")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list can change at runtime", func(t *testing.T) {
		srv.SetAllowedOrigins([]string{"http://evil.test/"})
		assert.Equal(t, http.StatusNoContent, preflight("http://evil.test").Code)
		assert.Equal(t, http.StatusForbidden, preflight("http://allowed.test").Code)

		srv.SetAllowedOrigins([]string{"*"})
		assert.Equal(t, http.StatusNoContent, preflight("http://anything.test").Code)
	})
}

func TestServer_ServesAPI(t *testing.T) {
	srv := newTestServer(t, Config{})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/prompts", `{"title":"Hi","body":"Hello {{name}}"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/prompts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"variables":["name"]`)

	rec = do(t, h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec))
}

func TestServer_Tracing(t *testing.T) {
	var spans bytes.Buffer
	srv := newTestServer(t, Config{Tracing: true, TraceWriter: &spans, Version: "test"})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, srv.tracing.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), "/api/health")
}
