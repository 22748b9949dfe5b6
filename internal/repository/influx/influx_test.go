package influx

import (
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointLineProtocol(t *testing.T) {
	reading, err := models.ParseDeviceReading([]byte(`{"soil_percent":[40,60],"pump_status":"ON","temperature":21.5}`))
	require.NoError(t, err)
	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	entry := models.NewHistoryEntry(reading.ToState(ts), ts)

	line := write.PointToLineProtocol(newPoint(entry), time.Second)

	assert.Contains(t, line, "soil_history,device=soilsense ")
	assert.Contains(t, line, "soil1=40i")
	assert.Contains(t, line, "soil2=60i")
	assert.NotContains(t, line, "soil3=")
	assert.Contains(t, line, "temperature=21.5")
	assert.Contains(t, line, `pump_status="ON"`)
	assert.Contains(t, line, `mode="AUTO"`)
	assert.NotContains(t, line, "humidity=", "absent readings are not written as zero")
	assert.Contains(t, line, "1792152000")
}

func TestEntryFromValues(t *testing.T) {
	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	entry := entryFromValues(map[string]interface{}{
		"soil_avg":    50.0,
		"soil1":       int64(40),
		"soil2":       int64(60),
		"humidity":    float64(55),
		"pump_status": "OFF",
		"mode":        "MANUAL",
	}, ts)

	assert.Equal(t, 50.0, entry.SoilAvg)
	require.NotNil(t, entry.Soil1)
	assert.Equal(t, 40, *entry.Soil1)
	assert.Nil(t, entry.Soil3)
	assert.Equal(t, 55.0, *entry.Humidity)
	assert.Nil(t, entry.Temperature)
	assert.Equal(t, "MANUAL", *entry.Mode)
	assert.True(t, entry.RecordedAt.Equal(ts))
}

func TestLatestQueryTargetsBucket(t *testing.T) {
	q := latestQuery("soil")
	assert.Contains(t, q, `from(bucket: "soil")`)
	assert.Contains(t, q, `r._measurement == "soil_history"`)
	assert.Contains(t, q, "limit(n: 1)")
}
