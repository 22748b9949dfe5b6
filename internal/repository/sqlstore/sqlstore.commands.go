// FilePath: internal/repository/sqlstore/sqlstore.commands.go
package sqlstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/itsatony/soilsense/internal/database"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CommandRepo is the local FIFO command log. Executed rows stay as audit trail.
type CommandRepo struct {
	BaseRepo
	mu  sync.Mutex
	now func() time.Time
}

func NewCommandRepository(db database.DB) *CommandRepo {
	return &CommandRepo{BaseRepo: BaseRepo{db: db}, now: time.Now}
}

// PutCommand appends a new unexecuted command and fills in its ID.
func (r *CommandRepo) PutCommand(ctx context.Context, cmd *models.PendingCommand) error {
	if cmd == nil {
		return errors.NewValidationError("command is required", nil)
	}
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = r.now().UTC()
	}
	query := r.rebind(`
		INSERT INTO pending_commands (command_type, value, created_at, executed)
		VALUES (?, ?, ?, 0)
		RETURNING id`)

	var id int64
	if err := r.db.GetDB().GetContext(ctx, &id, query, string(cmd.Kind), cmd.Value, cmd.CreatedAt.UTC()); err != nil {
		return errors.NewDatabaseError("failed to queue command", err)
	}
	cmd.ID = id
	cmd.Executed = false
	return nil
}

// TakePending claims the oldest unexecuted command. The update is
// conditioned on executed = 0, so of two racing takers only one gets the
// row; the other sees no pending command.
func (r *CommandRepo) TakePending(ctx context.Context) (*models.PendingCommand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(tx)

	cmd := &models.PendingCommand{}
	selectQuery := `
		SELECT id, command_type, value, executed, created_at, executed_at
		FROM pending_commands
		WHERE executed = 0
		ORDER BY created_at ASC, id ASC
		LIMIT 1`
	if err := tx.GetContext(ctx, cmd, selectQuery); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to read pending command", err)
	}

	executedAt := r.now().UTC()
	result, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE pending_commands SET executed = 1, executed_at = ?
		WHERE id = ? AND executed = 0`), executedAt, cmd.ID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to mark command executed", err)
	}
	claimed, err := result.RowsAffected()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to mark command executed", err)
	}
	if claimed == 0 {
		nuts.L.Infof("[LocalDB] Command %d claimed by a concurrent poll", cmd.ID)
		return nil, nil
	}
	if err := r.Commit(tx); err != nil {
		return nil, err
	}

	cmd.Executed = true
	cmd.ExecutedAt = &executedAt
	return cmd, nil
}

// ListPending returns all unexecuted commands, oldest first.
func (r *CommandRepo) ListPending(ctx context.Context) ([]*models.PendingCommand, error) {
	cmds := []*models.PendingCommand{}
	query := `
		SELECT id, command_type, value, executed, created_at, executed_at
		FROM pending_commands
		WHERE executed = 0
		ORDER BY created_at ASC, id ASC`
	if err := r.db.GetDB().SelectContext(ctx, &cmds, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list pending commands", err)
	}
	return cmds, nil
}
