package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/svcctx"
	"github.com/jackzampolin/promptbox/internal/testutil"
)

type testEnv struct {
	engine *gin.Engine
	store  *prompts.Store
}

// newTestEnv wires every endpoint to an empty in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewStore(t)
	services := &svcctx.Services{Store: store, Logger: testutil.Logger()}

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(svcctx.WithServices(c.Request.Context(), services))
		c.Next()
	})

	registry := api.NewRegistry()
	for _, ep := range All(Config{}) {
		registry.Register(ep)
	}
	registry.RegisterRoutes(engine, func(c *gin.Context) { c.Next() })

	return &testEnv{engine: engine, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

// createPrompt posts a prompt and returns the decoded response.
func (e *testEnv) createPrompt(t *testing.T, body string) prompts.Prompt {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/prompts", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[prompts.Prompt](t, rec)
}

func (e *testEnv) createFolder(t *testing.T, name string) prompts.Folder {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/folders", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[prompts.Folder](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[MessageResponse](t, rec).Message
}
