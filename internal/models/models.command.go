package models

import (
	"fmt"
	"strings"
	"time"
)

// CommandKind is the kind of operator command relayed to the device.
type CommandKind string

const (
	CommandMode CommandKind = "mode"
	CommandPump CommandKind = "pump"
)

// ParseCommandKind validates a kind supplied by an operator.
func ParseCommandKind(raw string) (CommandKind, error) {
	switch kind := CommandKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case CommandMode, CommandPump:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown command kind %q", raw)
	}
}

// PendingCommand is a command waiting for the device to pick it up.
// It moves from unexecuted to executed exactly once.
type PendingCommand struct {
	ID         int64       `json:"-" db:"id"`
	Kind       CommandKind `json:"type" db:"command_type"`
	Value      string      `json:"value" db:"value"`
	Executed   bool        `json:"executed" db:"executed"`
	CreatedAt  time.Time   `json:"timestamp" db:"created_at"`
	ExecutedAt *time.Time  `json:"executed_at,omitempty" db:"executed_at"`
}

// NewPendingCommand creates an unexecuted command. Values are upper-cased,
// so "manual" and "MANUAL" are the same instruction to the device.
func NewPendingCommand(kind CommandKind, value string, now time.Time) (*PendingCommand, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return nil, fmt.Errorf("command %s requires a value", kind)
	}
	return &PendingCommand{
		Kind:      kind,
		Value:     value,
		CreatedAt: now.UTC(),
	}, nil
}

// Payload returns the device-facing form of the command.
func (c *PendingCommand) Payload() *CommandPayload {
	if c == nil {
		return nil
	}
	return &CommandPayload{Type: string(c.Kind), Value: c.Value}
}
