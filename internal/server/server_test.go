package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: []string{"*"}},
		Local: config.LocalConfig{
			Driver:         config.DriverSQLite,
			DSN:            "file:server_wiring?mode=memory&cache=shared",
			ConnectRetries: 1,
		},
		Breaker:  config.BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute, Interval: time.Minute},
		Liveness: config.LivenessConfig{Timeout: 30 * time.Second},
		History:  config.HistoryConfig{Backend: config.HistorySQL},
	}
}

func TestLocalOnlyWiring(t *testing.T) {
	s := New(testConfig())
	s.monitoring = monitoring.NewService()
	svc, err := s.initializeHubService()
	require.NoError(t, err)
	t.Cleanup(s.closeBackends)
	s.hubservice = svc
	s.setupEventHandlers()
	h := s.buildHandler()

	assert.Nil(t, s.redis, "no remote host configured")
	assert.Nil(t, s.influx)
	assert.False(t, svc.Telemetry.RemoteConfigured())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands/pump/on", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/device/command", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"has_command":true,"type":"pump","value":"ON"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
		body := rec.Body.String()
		return strings.Contains(body, `soilsense_commands_total{event="command.issued",kind="pump",source="operator"} 1`) &&
			strings.Contains(body, `soilsense_commands_total{event="command.delivered",kind="pump",source="local"} 1`)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHealthFollowsLocalStore(t *testing.T) {
	cfg := testConfig()
	cfg.Local.DSN = "file:server_health?mode=memory&cache=shared"
	s := New(cfg)
	s.monitoring = monitoring.NewService()
	svc, err := s.initializeHubService()
	require.NoError(t, err)
	s.hubservice = svc
	h := s.buildHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.localDB.Close())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "local store unreachable")
}

func TestInfluxHistorySelected(t *testing.T) {
	cfg := testConfig()
	cfg.Local.DSN = "file:server_influx?mode=memory&cache=shared"
	cfg.History = config.HistoryConfig{Backend: config.HistoryInflux}
	cfg.Influx = config.InfluxConfig{URL: "http://127.0.0.1:8086", Org: "farm", Bucket: "soil"}

	s := New(cfg)
	s.monitoring = monitoring.NewService()
	svc, err := s.initializeHubService()
	require.NoError(t, err)
	t.Cleanup(s.closeBackends)

	assert.NotNil(t, s.influx)
	assert.NotNil(t, svc.History)
}

func TestUnreachableLocalStoreFails(t *testing.T) {
	cfg := testConfig()
	cfg.Local.Driver = "mysql"

	s := New(cfg)
	s.monitoring = monitoring.NewService()
	_, err := s.initializeHubService()

	assert.Error(t, err)
}
