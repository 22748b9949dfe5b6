// FilePath: internal/repository/influx/influx.history.go
package influx

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
)

const (
	measurement = "soil_history"
	deviceTag   = "soilsense"
	lookback    = "-30d"
)

// HistoryRepo writes the reading log to an InfluxDB bucket instead of the
// local sensor_history table. Every entry lands in a single series; string
// values are stored as fields so a mode change does not split it.
type HistoryRepo struct {
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	bucket   string
}

func NewHistoryRepository(client influxdb2.Client, org, bucket string) *HistoryRepo {
	return &HistoryRepo{
		writeAPI: client.WriteAPIBlocking(org, bucket),
		queryAPI: client.QueryAPI(org),
		bucket:   bucket,
	}
}

func (r *HistoryRepo) Append(ctx context.Context, entry *models.HistoryEntry) error {
	if entry == nil {
		return errors.NewValidationError("history entry is required", nil)
	}
	if err := r.writeAPI.WritePoint(ctx, newPoint(entry)); err != nil {
		return errors.NewDatabaseError("failed to write history point", err)
	}
	return nil
}

func (r *HistoryRepo) Latest(ctx context.Context) (*models.HistoryEntry, error) {
	result, err := r.queryAPI.Query(ctx, latestQuery(r.bucket))
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query history", err)
	}
	defer result.Close()

	var entry *models.HistoryEntry
	if result.Next() {
		rec := result.Record()
		entry = entryFromValues(rec.Values(), rec.Time())
	}
	if result.Err() != nil {
		return nil, errors.NewDatabaseError("failed to read history", result.Err())
	}
	if entry == nil {
		return nil, errors.NewNotFoundError("no history recorded yet", repository.ErrNotFound)
	}
	return entry, nil
}

func latestQuery(bucket string) string {
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group()
  |> sort(columns: ["_time"], desc: true)
  |> limit(n: 1)`, bucket, lookback, measurement)
}

func newPoint(entry *models.HistoryEntry) *write.Point {
	fields := map[string]interface{}{
		"soil_avg": entry.SoilAvg,
	}
	for name, v := range map[string]*int{
		"soil1": entry.Soil1, "soil2": entry.Soil2, "soil3": entry.Soil3, "soil4": entry.Soil4,
	} {
		if v != nil {
			fields[name] = int64(*v)
		}
	}
	for name, v := range map[string]*float64{
		"temperature":      entry.Temperature,
		"humidity":         entry.Humidity,
		"battery_voltage":  entry.BatteryVoltage,
		"battery_percent":  entry.BatteryPercent,
		"current_consumed": entry.CurrentConsumed,
	} {
		if v != nil {
			fields[name] = *v
		}
	}
	if entry.PumpStatus != nil {
		fields["pump_status"] = *entry.PumpStatus
	}
	if entry.Mode != nil {
		fields["mode"] = *entry.Mode
	}

	ts := entry.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return influxdb2.NewPoint(measurement, map[string]string{"device": deviceTag}, fields, ts.UTC())
}

func entryFromValues(values map[string]interface{}, ts time.Time) *models.HistoryEntry {
	entry := &models.HistoryEntry{RecordedAt: ts.UTC()}
	if v, ok := toFloat(values["soil_avg"]); ok {
		entry.SoilAvg = v
	}
	for name, slot := range map[string]**int{
		"soil1": &entry.Soil1, "soil2": &entry.Soil2, "soil3": &entry.Soil3, "soil4": &entry.Soil4,
	} {
		if v, ok := toFloat(values[name]); ok {
			i := int(v)
			*slot = &i
		}
	}
	for name, slot := range map[string]**float64{
		"temperature":      &entry.Temperature,
		"humidity":         &entry.Humidity,
		"battery_voltage":  &entry.BatteryVoltage,
		"battery_percent":  &entry.BatteryPercent,
		"current_consumed": &entry.CurrentConsumed,
	} {
		if v, ok := toFloat(values[name]); ok {
			f := v
			*slot = &f
		}
	}
	if s, ok := values["pump_status"].(string); ok {
		entry.PumpStatus = &s
	}
	if s, ok := values["mode"].(string); ok {
		entry.Mode = &s
	}
	return entry
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

var _ repository.HistoryRepository = (*HistoryRepo)(nil)
