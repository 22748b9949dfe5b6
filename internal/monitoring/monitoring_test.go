package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	s := NewService()

	s.ObserveIngest(OutcomeSuccess, 10*time.Millisecond)
	s.ObserveIngest(OutcomeSuccess, 20*time.Millisecond)
	s.ObserveIngest(OutcomeFailure, time.Millisecond)
	s.RemoteFailure("read_state", errors.New("timeout"))
	s.RecordEvent("command.issued", map[string]string{"kind": "pump", "source": "operator"})
	s.SetDeviceOnline(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.ingestTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ingestTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.remoteFailures.WithLabelValues("read_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.commandsTotal.WithLabelValues("command.issued", "pump", "operator")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.deviceOnline))

	s.SetDeviceOnline(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.deviceOnline))
}

func TestHandlerExposesMetrics(t *testing.T) {
	s := NewService()
	s.ObserveIngest(OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `soilsense_ingest_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServicesDoNotShareRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewService()
		NewService()
	})
}
