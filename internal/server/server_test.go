package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-enricher/internal/common/config"
	"campaign-enricher/internal/common/logger"
	"campaign-enricher/internal/enrichment"
	"campaign-enricher/internal/producers"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

// ==========================
// Test Helper Functions
// ==========================

const testBody = `{"context": {
	"ai_parse_user_input_": "### Confirmed Details\n- Location: Austin\n- Product: Running Shoes\n- Target: Female, 25-34",
	"parsed_follow_up_user_input": "{\"goals\": {\"total_sales\": 50000}}"
}}`

func setupTestServer(t *testing.T, ready ReadyFunc) *Server {
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	set := producers.NewSet(producers.Settings{}, producers.Backends{}, log)
	orch := enrichment.NewOrchestrator(set, enrichment.Config{ProducerTimeout: time.Second, TrendsTimeout: time.Second}, log)
	handler := ecd.NewHandler(&ecd.Config{Timeout: 5 * time.Second}, orch, log)

	return New(config.ServerConfig{MaxBodyBytes: 1 << 20}, handler, ready, log)
}

func doRequest(s *Server, method, path string, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type stubExecutor struct {
	output *ecd.Output
	err    error
}

func (s stubExecutor) Execute(context.Context, *ecd.Input) (*ecd.Output, error) {
	return s.output, s.err
}

// ==========================
// Enrichment Endpoints
// ==========================

func TestEnrich_Success(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", testBody, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Data enrichment complete", body["message"])
	assert.Len(t, body["enriched_data"].(map[string]interface{})["trends"], 3)

	confirmed := body["initialParse"].(map[string]interface{})["data"].(map[string]interface{})["confirmed"]
	assert.Equal(t, "Austin", confirmed.(map[string]interface{})["location"])
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestEnrich_EmptyBody(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data enrichment complete", decode(t, w)["message"])
}

func TestEnrich_InvalidBody(t *testing.T) {
	s := setupTestServer(t, nil)

	for _, body := range []string{"{oops", "null", "[]"} {
		t.Run(body, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", body, nil)
			require.Equal(t, http.StatusInternalServerError, w.Code)

			out := decode(t, w)
			assert.NotEmpty(t, out["error"])
			assert.Equal(t, map[string]interface{}{}, out["parsed_input"])
			assert.Equal(t, map[string]interface{}{}, out["enriched_data"])
		})
	}
}

func TestEnrich_BodyTooLarge(t *testing.T) {
	s := setupTestServer(t, nil)
	s.config.MaxBodyBytes = 16

	w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", testBody, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "too large")
}

func TestEvent(t *testing.T) {
	s := setupTestServer(t, nil)

	event, err := json.Marshal(map[string]interface{}{"body": testBody})
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"string body", string(event), http.StatusOK},
		{"no body", `{}`, http.StatusOK},
		{"null body", `{"body": null}`, http.StatusOK},
		{"body not a string", `{"body": {"context": {}}}`, http.StatusInternalServerError},
		{"body decodes to null", `{"body": "null"}`, http.StatusInternalServerError},
		{"event not json", `not json`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/api/v1/events", tt.body, map[string]string{"Content-Type": "application/json"})
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestExecute_NilOutput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(config.ServerConfig{}, stubExecutor{err: errors.New("boom")}, nil, logger.NewTestLogger(t))

	w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", "{}", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", decode(t, w)["error"])
}

// ==========================
// Middleware & Health Checks
// ==========================

func TestRequestID(t *testing.T) {
	var seen string
	s := New(config.ServerConfig{}, executorFunc(func(_ context.Context, in *ecd.Input) (*ecd.Output, error) {
		seen = in.RequestID
		return &ecd.Output{StatusCode: http.StatusOK, Response: gin.H{}}, nil
	}), nil, logger.NewTestLogger(t))

	w := doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", "{}", map[string]string{headerRequestID: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(headerRequestID))
	assert.Equal(t, "req-42", seen)
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doRequest(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestReady(t *testing.T) {
	s := setupTestServer(t, func(context.Context) error { return nil })
	w := doRequest(s, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s = setupTestServer(t, func(context.Context) error { return errors.New("redis: connection refused") })
	w = doRequest(s, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w)["error"], "redis")
}

func TestMetrics(t *testing.T) {
	s := setupTestServer(t, nil)
	doRequest(s, http.MethodPost, "/api/v1/campaigns/enrich", "{}", nil)

	w := doRequest(s, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "enrichment_requests_total")
}

func TestNoRoute(t *testing.T) {
	s := setupTestServer(t, nil)

	w := doRequest(s, http.MethodGet, "/api/v2/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_Shutdown(t *testing.T) {
	s := setupTestServer(t, nil)
	s.config.Host = "127.0.0.1"
	s.config.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type executorFunc func(context.Context, *ecd.Input) (*ecd.Output, error)

func (f executorFunc) Execute(ctx context.Context, in *ecd.Input) (*ecd.Output, error) {
	return f(ctx, in)
}
