// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/itsatony/soilsense/internal/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . TelemetryBackend,CommandBackend,HistoryRepository

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrSlotEmpty reports a command slot that has never held a command
	ErrSlotEmpty = errors.New("command slot empty")
)

// TelemetryBackend stores the single current device state.
// WriteState replaces the whole state atomically; ReadState returns one
// complete snapshot, or (nil, nil) when the backend holds none.
type TelemetryBackend interface {
	WriteState(ctx context.Context, state *models.DeviceState) error
	ReadState(ctx context.Context) (*models.DeviceState, error)
}

// CommandBackend holds commands waiting for the device.
// TakePending returns the next unexecuted command and marks it executed in
// the same atomic step; a caller losing a race gets (nil, nil). A slot
// backend returns ErrSlotEmpty when no command was ever stored, which is
// distinct from a slot holding an already executed command.
type CommandBackend interface {
	PutCommand(ctx context.Context, cmd *models.PendingCommand) error
	TakePending(ctx context.Context) (*models.PendingCommand, error)
}

// HistoryRepository is the append-only reading log.
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.HistoryEntry) error
	Latest(ctx context.Context) (*models.HistoryEntry, error)
}
