package models

import "time"

// HistoryEntry is an append-only snapshot of one ingested report.
type HistoryEntry struct {
	ID              int64     `json:"id" db:"id"`
	SoilAvg         float64   `json:"soil_avg" db:"soil_avg"`
	Soil1           *int      `json:"soil1" db:"soil1"`
	Soil2           *int      `json:"soil2" db:"soil2"`
	Soil3           *int      `json:"soil3" db:"soil3"`
	Soil4           *int      `json:"soil4" db:"soil4"`
	Temperature     *float64  `json:"temperature" db:"temperature"`
	Humidity        *float64  `json:"humidity" db:"humidity"`
	PumpStatus      *string   `json:"pump_status" db:"pump_status"`
	Mode            *string   `json:"mode" db:"mode"`
	BatteryVoltage  *float64  `json:"battery_voltage" db:"battery_voltage"`
	BatteryPercent  *float64  `json:"battery_percent" db:"battery_percent"`
	CurrentConsumed *float64  `json:"current_consumed" db:"current_consumed"`
	RecordedAt      time.Time `json:"recorded_at" db:"recorded_at"`
}

// NewHistoryEntry snapshots a state for the history log.
func NewHistoryEntry(state *DeviceState, recordedAt time.Time) *HistoryEntry {
	entry := &HistoryEntry{
		SoilAvg:         SoilAverage(state.SoilPercent),
		Temperature:     state.Temperature,
		Humidity:        state.Humidity,
		PumpStatus:      state.PumpStatus,
		Mode:            state.Mode,
		BatteryVoltage:  state.BatteryVoltage,
		BatteryPercent:  state.BatteryPercent,
		CurrentConsumed: state.CurrentConsumed,
		RecordedAt:      recordedAt.UTC(),
	}
	slots := []**int{&entry.Soil1, &entry.Soil2, &entry.Soil3, &entry.Soil4}
	for i, slot := range slots {
		if i < len(state.SoilPercent) {
			v := state.SoilPercent[i]
			*slot = &v
		}
	}
	return entry
}

// SoilAverage is the arithmetic mean of the channels, 0 when there are none.
func SoilAverage(channels []int) float64 {
	if len(channels) == 0 {
		return 0
	}
	sum := 0
	for _, c := range channels {
		sum += c
	}
	return float64(sum) / float64(len(channels))
}
