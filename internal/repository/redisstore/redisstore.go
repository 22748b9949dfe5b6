// FilePath: internal/repository/redisstore/redisstore.go
package redisstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const (
	stateKey   = "sensor_data"
	commandKey = "commands"
)

// Store is the remote backend. It holds the device state as one JSON
// document and the command mailbox as a single slot: a newer command
// replaces the previous one whether or not it was delivered.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewRemoteError("remote store unreachable", err)
	}
	return nil
}

func (s *Store) WriteState(ctx context.Context, state *models.DeviceState) error {
	if state == nil {
		return errors.NewValidationError("device state is required", nil)
	}
	doc := *state
	doc.Source = ""
	payload, err := json.Marshal(&doc)
	if err != nil {
		return errors.NewInternalError("failed to encode device state", err)
	}
	if err := s.client.Set(ctx, s.key(stateKey), payload, 0).Err(); err != nil {
		return errors.NewRemoteError("failed to write remote state", err)
	}
	return nil
}

// ReadState returns (nil, nil) when the remote has never received a report.
func (s *Store) ReadState(ctx context.Context) (*models.DeviceState, error) {
	raw, err := s.client.Get(ctx, s.key(stateKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewRemoteError("failed to read remote state", err)
	}
	state := &models.DeviceState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, errors.NewRemoteError("remote state is not valid JSON", err)
	}
	state.Source = models.SourceRemote
	return state, nil
}

// PutCommand overwrites the slot with a new unexecuted command.
func (s *Store) PutCommand(ctx context.Context, cmd *models.PendingCommand) error {
	if cmd == nil {
		return errors.NewValidationError("command is required", nil)
	}
	slot := *cmd
	slot.Executed = false
	slot.ExecutedAt = nil
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = s.now().UTC()
	}
	payload, err := json.Marshal(&slot)
	if err != nil {
		return errors.NewInternalError("failed to encode command", err)
	}
	if err := s.client.Set(ctx, s.key(commandKey), payload, 0).Err(); err != nil {
		return errors.NewRemoteError("failed to write remote command", err)
	}
	return nil
}

// TakePending claims the slot if it holds an unexecuted command. The read
// and the executed=true write run under WATCH, so when two pollers race the
// loser's transaction aborts and it reports no command. A missing key
// yields repository.ErrSlotEmpty.
func (s *Store) TakePending(ctx context.Context) (*models.PendingCommand, error) {
	key := s.key(commandKey)
	var (
		taken  *models.PendingCommand
		absent bool
	)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			absent = true
			return nil
		}
		if err != nil {
			return err
		}

		cmd := &models.PendingCommand{}
		if err := json.Unmarshal(raw, cmd); err != nil {
			return fmt.Errorf("decode command slot: %w", err)
		}
		if cmd.Executed {
			return nil
		}

		executedAt := s.now().UTC()
		cmd.Executed = true
		cmd.ExecutedAt = &executedAt
		updated, err := json.Marshal(cmd)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}
		taken = cmd
		return nil
	}, key)

	if stderrors.Is(err, redis.TxFailedErr) {
		nuts.L.Infof("[Redis] Command slot claimed by a concurrent poll")
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewRemoteError("failed to take remote command", err)
	}
	if absent {
		return nil, repository.ErrSlotEmpty
	}
	return taken, nil
}

// PeekCommand returns the slot as stored, executed or not.
func (s *Store) PeekCommand(ctx context.Context) (*models.PendingCommand, error) {
	raw, err := s.client.Get(ctx, s.key(commandKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewRemoteError("failed to read remote command", err)
	}
	cmd := &models.PendingCommand{}
	if err := json.Unmarshal(raw, cmd); err != nil {
		return nil, errors.NewRemoteError("remote command slot is not valid JSON", err)
	}
	return cmd, nil
}

var _ repository.TelemetryBackend = (*Store)(nil)
var _ repository.CommandBackend = (*Store)(nil)
