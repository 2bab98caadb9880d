package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histogen/internal/config"
	apierrors "histogen/internal/errors"
	"histogen/internal/shared/testutil"
	"histogen/pkg/contracts"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })
	return app
}

func serve(app *Application, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, req)
	return w
}

func TestNewApplication(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)

	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Histogram)
	assert.NotNil(t, app.Services.Health)
	assert.Equal(t, cfg.Output.Dir, app.Paths.OutputDir)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)
	assert.NotNil(t, app.OTelProviders.PrometheusHTTP)
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	tests := []struct {
		name       string
		method     string
		target     string
		body       []byte
		wantStatus int
		wantType   string
	}{
		{name: "health", method: http.MethodGet, target: "/api/health", wantStatus: http.StatusOK, wantType: "application/json"},
		{name: "ready", method: http.MethodGet, target: "/api/health/ready", wantStatus: http.StatusOK, wantType: "application/json"},
		{name: "version", method: http.MethodGet, target: "/api/version", wantStatus: http.StatusOK, wantType: "application/json"},
		{name: "parse", method: http.MethodPost, target: "/api/v1/histograms/parse?format=csv", body: []byte(testutil.MinimalSAF), wantStatus: http.StatusOK, wantType: "text/csv; charset=utf-8"},
		{name: "summary", method: http.MethodPost, target: "/api/v1/histograms/summary", body: []byte(testutil.MinimalSAF), wantStatus: http.StatusOK, wantType: "application/json"},
		{name: "unknown route", method: http.MethodGet, target: "/api/nope", wantStatus: http.StatusNotFound, wantType: "application/json"},
		{name: "wrong method", method: http.MethodGet, target: "/api/v1/histograms/parse", wantStatus: http.StatusMethodNotAllowed, wantType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), tt.wantType)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, http.MethodGet, config.VersionEndpoint, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, contracts.Version, info.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := serve(app, http.MethodPost, "/api/v1/histograms/parse", []byte(testutil.MinimalSAF))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodGet, config.MetricsEndpoint, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "histogen_histograms_parsed")
	assert.Contains(t, w.Body.String(), "histogen_rows_emitted")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricsEnabled = false
	app := newTestApp(t, cfg)

	w := serve(app, http.MethodGet, config.MetricsEndpoint, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RPS = 0.001
	cfg.Security.RateLimit.Burst = 1
	app := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/api/health", nil).Code)

	w := serve(app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestBodyLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxBodyBytes = 32
	app := newTestApp(t, cfg)

	w := serve(app, http.MethodPost, "/api/v1/histograms/parse", []byte(testutil.MinimalSAF))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypePayloadTooLarge, problem["type"])
}

func TestCORS(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.EnableCORS = true
	cfg.Security.AllowedOrigins = []string{"http://example.test"}
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/histograms/parse", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, req)

	assert.Equal(t, "http://example.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Histogen-Rows")
}
