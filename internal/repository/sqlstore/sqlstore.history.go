// FilePath: internal/repository/sqlstore/sqlstore.history.go
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/itsatony/soilsense/internal/database"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
)

type HistoryRepo struct {
	BaseRepo
}

func NewHistoryRepository(db database.DB) *HistoryRepo {
	return &HistoryRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *HistoryRepo) Append(ctx context.Context, entry *models.HistoryEntry) error {
	if entry == nil {
		return errors.NewValidationError("history entry is required", nil)
	}
	query := `
		INSERT INTO sensor_history (
			soil_avg, soil1, soil2, soil3, soil4,
			temperature, humidity, pump_status, mode,
			battery_voltage, battery_percent, current_consumed, recorded_at
		) VALUES (
			:soil_avg, :soil1, :soil2, :soil3, :soil4,
			:temperature, :humidity, :pump_status, :mode,
			:battery_voltage, :battery_percent, :current_consumed, :recorded_at
		)`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, entry); err != nil {
		return errors.NewDatabaseError("failed to append history", err)
	}
	return nil
}

func (r *HistoryRepo) Latest(ctx context.Context) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{}
	query := `
		SELECT id, soil_avg, soil1, soil2, soil3, soil4,
			temperature, humidity, pump_status, mode,
			battery_voltage, battery_percent, current_consumed, recorded_at
		FROM sensor_history
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`

	if err := r.db.GetDB().GetContext(ctx, entry, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no history recorded yet", repository.ErrNotFound)
		}
		return nil, errors.NewDatabaseError("failed to read latest history", err)
	}
	return entry, nil
}

var _ repository.HistoryRepository = (*HistoryRepo)(nil)
var _ repository.TelemetryBackend = (*StateRepo)(nil)
var _ repository.CommandBackend = (*CommandRepo)(nil)
