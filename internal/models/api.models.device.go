package models

// CommandPayload is a command as delivered to the device.
type CommandPayload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// IngestResponse answers a device report. Command is omitted when nothing is pending.
type IngestResponse struct {
	Success bool            `json:"success"`
	Command *CommandPayload `json:"command,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// CommandPollResponse answers the dedicated command poll.
type CommandPollResponse struct {
	HasCommand bool   `json:"has_command"`
	Type       string `json:"type,omitempty"`
	Value      string `json:"value,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OperatorResponse answers operator command requests.
type OperatorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CommandRequest is the operator's intent, decoded from a form or JSON body.
type CommandRequest struct {
	Kind  string `json:"kind" schema:"kind"`
	Value string `json:"value" schema:"value"`
}

// RemoteDiagnostics describes the remote store as seen by the hub.
type RemoteDiagnostics struct {
	Configured   bool         `json:"configured"`
	BreakerState string       `json:"breaker_state,omitempty"`
	ReadOK       bool         `json:"read_ok"`
	ReadError    string       `json:"read_error,omitempty"`
	State        *DeviceState `json:"state,omitempty"`
}

// Source names used by the dashboard shipped with the device firmware.
const (
	LegacySourceRemote = "firebase"
	LegacySourceLocal  = "sqlite"
)

// LegacyStateResponse is the state view served at /api/data, keyed the way
// the firmware-era dashboard reads it.
type LegacyStateResponse struct {
	SoilPercent     SoilChannels `json:"soil_percent"`
	SoilStatus      *string      `json:"soil_status"`
	PumpStatus      *string      `json:"pump_status"`
	Mode            *string      `json:"mode"`
	Temperature     *float64     `json:"temperature"`
	Humidity        *float64     `json:"humidity"`
	BatteryVoltage  *float64     `json:"battery_voltage"`
	BatteryPercent  *float64     `json:"battery_percent"`
	CurrentConsumed *float64     `json:"current_consumed"`
	Power           JSON         `json:"power"`
	ESP32Online     bool         `json:"esp32_online"`
	LastUpdate      *string      `json:"last_update"`
	Source          string       `json:"source"`
}

// NewLegacyStateResponse maps a snapshot, whose Online is already derived,
// to the dashboard shape. Missing channels and power read as zeros and {}.
func NewLegacyStateResponse(s *DeviceState) *LegacyStateResponse {
	channels := s.SoilPercent
	if channels == nil {
		channels = SoilChannels{0, 0, 0, 0}
	}
	power := s.Power
	if power == nil {
		power = JSON{}
	}
	source := LegacySourceLocal
	if s.Source == SourceRemote {
		source = LegacySourceRemote
	}
	return &LegacyStateResponse{
		SoilPercent:     channels,
		SoilStatus:      s.SoilStatus,
		PumpStatus:      s.PumpStatus,
		Mode:            s.Mode,
		Temperature:     s.Temperature,
		Humidity:        s.Humidity,
		BatteryVoltage:  s.BatteryVoltage,
		BatteryPercent:  s.BatteryPercent,
		CurrentConsumed: s.CurrentConsumed,
		Power:           power,
		ESP32Online:     s.Online,
		LastUpdate:      s.Timestamp,
		Source:          source,
	}
}
