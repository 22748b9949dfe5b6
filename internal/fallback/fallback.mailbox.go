// FilePath: internal/fallback/fallback.mailbox.go
package fallback

import (
	"context"
	stderrors "errors"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Mailbox fronts the remote single-slot mailbox and the local FIFO queue.
//
// Issue writes every command to both. Take asks the remote first and only
// reaches the local queue when the remote is not configured, failed, or has
// never held a command, so a command issued while the remote was healthy
// leaves an unexecuted local twin behind as audit record. Delivery is at
// most once per backend; a command can be delivered once from each if the
// remote recovers between issue and the next poll.
type Mailbox struct {
	remote repository.CommandBackend
	local  repository.CommandBackend
	guard  *Guard
}

// NewMailbox builds the mailbox. remote may be nil when no remote is
// configured.
func NewMailbox(remote, local repository.CommandBackend, guard *Guard) *Mailbox {
	return &Mailbox{remote: remote, local: local, guard: guard}
}

// Issue stores cmd in both backends. It fails only when no backend
// accepted the command.
func (m *Mailbox) Issue(ctx context.Context, cmd *models.PendingCommand) error {
	remoteStored := false
	if m.remote != nil {
		remoteCopy := *cmd
		err := m.guard.Do(OpPutCommand, func() error {
			return m.remote.PutCommand(ctx, &remoteCopy)
		})
		if err != nil {
			nuts.L.Warnf("[Fallback] Remote command write failed, queued locally only: %v", err)
		} else {
			remoteStored = true
		}
	}

	if err := m.local.PutCommand(ctx, cmd); err != nil {
		if remoteStored {
			nuts.L.Errorf("[Fallback] Local command queue write failed, command held by remote only: %v", err)
			return nil
		}
		return err
	}
	return nil
}

// Take returns the next command for the device and marks it executed, or
// nil when there is none. Source reports the backend that delivered it.
func (m *Mailbox) Take(ctx context.Context) (*models.PendingCommand, models.Source, error) {
	if m.remote != nil {
		var (
			cmd   *models.PendingCommand
			empty bool
		)
		err := m.guard.Do(OpTakePending, func() error {
			var err error
			cmd, err = m.remote.TakePending(ctx)
			if stderrors.Is(err, repository.ErrSlotEmpty) {
				empty = true
				return nil
			}
			return err
		})
		switch {
		case err != nil:
			nuts.L.Warnf("[Fallback] Remote command take failed, polling local queue: %v", err)
		case empty:
			nuts.L.Infof("[Fallback] Remote command slot is empty, polling local queue")
		default:
			return cmd, models.SourceRemote, nil
		}
	}

	cmd, err := m.local.TakePending(ctx)
	if err != nil {
		if _, ok := errors.AsAPIError(err); !ok {
			err = errors.NewDatabaseError("failed to take local command", err)
		}
		return nil, models.SourceLocal, err
	}
	return cmd, models.SourceLocal, nil
}
