package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a wrapper around map[string]interface{} for database storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	raw, ok := rawColumn(value)
	if !ok || len(raw) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(raw, j)
}

// SoilChannels holds the per-channel soil moisture percentages, in sensor order.
type SoilChannels []int

// Value implements the driver.Valuer interface
func (s SoilChannels) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal([]int(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *SoilChannels) Scan(value interface{}) error {
	raw, ok := rawColumn(value)
	if !ok || len(raw) == 0 {
		*s = nil
		return nil
	}
	var channels []int
	if err := json.Unmarshal(raw, &channels); err != nil {
		return fmt.Errorf("scan soil channels: %w", err)
	}
	*s = channels
	return nil
}

// rawColumn normalizes TEXT columns, which drivers hand over either as
// string or []byte.
func rawColumn(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
