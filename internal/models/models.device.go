// FilePath: internal/models/models.device.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Defaults applied to a report when the device omits a field.
const (
	DefaultSoilStatus = "UNKNOWN"
	DefaultPumpStatus = "OFF"
	DefaultMode       = "AUTO"
)

// Source names the backend that served a snapshot.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// DeviceReading is one report as posted by the field device.
// The device has no clock; the server stamps it at ingest.
type DeviceReading struct {
	SoilPercent     SoilChannels
	SoilStatus      string
	PumpStatus      string
	Mode            string
	Temperature     *float64
	Humidity        *float64
	BatteryVoltage  *float64
	BatteryPercent  *float64
	CurrentConsumed *float64
	Power           JSON
}

// DeviceState is the single current-state record of the device.
// Online holds the flag recorded with the row; readers replace it with the
// value derived from Timestamp.
type DeviceState struct {
	SoilPercent     SoilChannels `json:"soil_percent" db:"soil_percent"`
	SoilStatus      *string      `json:"soil_status" db:"soil_status"`
	PumpStatus      *string      `json:"pump_status" db:"pump_status"`
	Mode            *string      `json:"mode" db:"mode"`
	Temperature     *float64     `json:"temperature" db:"temperature"`
	Humidity        *float64     `json:"humidity" db:"humidity"`
	BatteryVoltage  *float64     `json:"battery_voltage" db:"battery_voltage"`
	BatteryPercent  *float64     `json:"battery_percent" db:"battery_percent"`
	CurrentConsumed *float64     `json:"current_consumed" db:"current_consumed"`
	Power           JSON         `json:"power" db:"power_data"`
	Timestamp       *string      `json:"timestamp" db:"last_update"`
	Online          bool         `json:"online" db:"online"`
	Source          Source       `json:"source,omitempty" db:"-"`
}

// ParseDeviceReading decodes a report leniently: missing or wrong-typed
// fields take their defaults instead of failing the whole report. Only a body
// that is not a JSON object is rejected.
func ParseDeviceReading(body []byte) (*DeviceReading, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("decode device reading: %w", err)
		}
	}

	reading := &DeviceReading{
		SoilPercent:     parseChannels(fields["soil_percent"]),
		SoilStatus:      parseString(fields["soil_status"], DefaultSoilStatus),
		PumpStatus:      parseString(fields["pump_status"], DefaultPumpStatus),
		Mode:            parseString(fields["mode"], DefaultMode),
		Temperature:     parseNumber(fields["temperature"]),
		Humidity:        parseNumber(fields["humidity"]),
		BatteryVoltage:  parseNumber(fields["battery_voltage"]),
		BatteryPercent:  parseNumber(fields["battery_percent"]),
		CurrentConsumed: parseNumber(fields["current_consumed"]),
		Power:           parseObject(fields["power"]),
	}
	return reading, nil
}

// ToState builds the replacement state for a reading ingested at ts.
func (r *DeviceReading) ToState(ts time.Time) *DeviceState {
	stamp := ts.UTC().Format(time.RFC3339Nano)
	channels := make(SoilChannels, len(r.SoilPercent))
	copy(channels, r.SoilPercent)
	power := JSON{}
	for k, v := range r.Power {
		power[k] = v
	}
	return &DeviceState{
		SoilPercent:     channels,
		SoilStatus:      stringPtr(r.SoilStatus),
		PumpStatus:      stringPtr(r.PumpStatus),
		Mode:            stringPtr(r.Mode),
		Temperature:     r.Temperature,
		Humidity:        r.Humidity,
		BatteryVoltage:  r.BatteryVoltage,
		BatteryPercent:  r.BatteryPercent,
		CurrentConsumed: r.CurrentConsumed,
		Power:           power,
		Timestamp:       &stamp,
		Online:          true,
	}
}

// LastSeen returns the stored timestamp, or "" if the device never reported.
func (s *DeviceState) LastSeen() string {
	if s == nil || s.Timestamp == nil {
		return ""
	}
	return *s.Timestamp
}

func stringPtr(s string) *string {
	return &s
}

func parseString(raw json.RawMessage, def string) string {
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

func parseNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return &f
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f
		}
	}
	return nil
}

func parseChannels(raw json.RawMessage) SoilChannels {
	if len(raw) == 0 || string(raw) == "null" {
		return SoilChannels{0, 0, 0, 0}
	}
	var values []json.Number
	if err := json.Unmarshal(raw, &values); err != nil {
		return SoilChannels{0, 0, 0, 0}
	}
	channels := make(SoilChannels, 0, len(values))
	for _, v := range values {
		if i, err := v.Int64(); err == nil {
			channels = append(channels, int(i))
			continue
		}
		f, err := v.Float64()
		if err != nil {
			return SoilChannels{0, 0, 0, 0}
		}
		channels = append(channels, int(math.Round(f)))
	}
	return channels
}

func parseObject(raw json.RawMessage) JSON {
	obj := JSON{}
	if len(raw) == 0 {
		return obj
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return JSON{}
	}
	return obj
}
