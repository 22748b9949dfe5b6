// FilePath: internal/repository/sqlstore/sqlstore.state.go
package sqlstore

import (
	"context"
	"database/sql"
	"sync"

	"github.com/itsatony/soilsense/internal/database"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
)

// StateRepo keeps the singleton device_state row.
type StateRepo struct {
	BaseRepo
	mu sync.RWMutex
}

func NewStateRepository(db database.DB) *StateRepo {
	return &StateRepo{BaseRepo: BaseRepo{db: db}}
}

// WriteState replaces every column of the row in one statement, so readers
// never observe a mix of two reports.
func (r *StateRepo) WriteState(ctx context.Context, state *models.DeviceState) error {
	if state == nil {
		return errors.NewValidationError("device state is required", nil)
	}
	query := `
		UPDATE device_state SET
			soil_percent = ?,
			soil_status = ?,
			pump_status = ?,
			mode = ?,
			temperature = ?,
			humidity = ?,
			battery_voltage = ?,
			battery_percent = ?,
			current_consumed = ?,
			power_data = ?,
			online = ?,
			last_update = ?
		WHERE id = 1`

	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.ExecContext(ctx, query,
		state.SoilPercent, state.SoilStatus, state.PumpStatus, state.Mode,
		state.Temperature, state.Humidity,
		state.BatteryVoltage, state.BatteryPercent, state.CurrentConsumed,
		state.Power, boolToInt(state.Online), state.Timestamp,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewDatabaseError("device state row missing, schema not migrated", nil)
	}
	return nil
}

// ReadState returns the row as stored. Online is the recorded flag, not the
// derived one.
func (r *StateRepo) ReadState(ctx context.Context) (*models.DeviceState, error) {
	query := `
		SELECT soil_percent, soil_status, pump_status, mode,
			temperature, humidity, battery_voltage, battery_percent,
			current_consumed, power_data, online, last_update
		FROM device_state WHERE id = 1`

	r.mu.RLock()
	defer r.mu.RUnlock()

	state := &models.DeviceState{}
	if err := r.db.GetDB().GetContext(ctx, state, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to read device state", err)
	}
	state.Source = models.SourceLocal
	return state, nil
}
