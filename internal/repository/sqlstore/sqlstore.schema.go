// FilePath: internal/repository/sqlstore/sqlstore.schema.go
package sqlstore

import (
	"context"
	"fmt"

	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/database"
	"github.com/itsatony/soilsense/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS device_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		soil_percent TEXT,
		soil_status TEXT,
		pump_status TEXT,
		mode TEXT,
		temperature REAL,
		humidity REAL,
		battery_voltage REAL,
		battery_percent REAL,
		current_consumed REAL,
		power_data TEXT,
		online INTEGER NOT NULL DEFAULT 0,
		last_update TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS pending_commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command_type TEXT NOT NULL,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		executed INTEGER NOT NULL DEFAULT 0,
		executed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_commands_unexecuted ON pending_commands (executed, created_at)`,
	`CREATE TABLE IF NOT EXISTS sensor_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		soil_avg REAL NOT NULL,
		soil1 INTEGER,
		soil2 INTEGER,
		soil3 INTEGER,
		soil4 INTEGER,
		temperature REAL,
		humidity REAL,
		pump_status TEXT,
		mode TEXT,
		battery_voltage REAL,
		battery_percent REAL,
		current_consumed REAL,
		recorded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_history_recorded_at ON sensor_history (recorded_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS device_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		soil_percent TEXT,
		soil_status TEXT,
		pump_status TEXT,
		mode TEXT,
		temperature DOUBLE PRECISION,
		humidity DOUBLE PRECISION,
		battery_voltage DOUBLE PRECISION,
		battery_percent DOUBLE PRECISION,
		current_consumed DOUBLE PRECISION,
		power_data TEXT,
		online INTEGER NOT NULL DEFAULT 0,
		last_update TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS pending_commands (
		id BIGSERIAL PRIMARY KEY,
		command_type TEXT NOT NULL,
		value TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		executed INTEGER NOT NULL DEFAULT 0,
		executed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_commands_unexecuted ON pending_commands (executed, created_at)`,
	`CREATE TABLE IF NOT EXISTS sensor_history (
		id BIGSERIAL PRIMARY KEY,
		soil_avg DOUBLE PRECISION NOT NULL,
		soil1 INTEGER,
		soil2 INTEGER,
		soil3 INTEGER,
		soil4 INTEGER,
		temperature DOUBLE PRECISION,
		humidity DOUBLE PRECISION,
		pump_status TEXT,
		mode TEXT,
		battery_voltage DOUBLE PRECISION,
		battery_percent DOUBLE PRECISION,
		current_consumed DOUBLE PRECISION,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_history_recorded_at ON sensor_history (recorded_at)`,
}

// The singleton row exists from install time on, offline and empty.
const seedDeviceState = `INSERT INTO device_state (id, online) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`

// Migrate creates the local tables if needed and seeds the device_state row.
func Migrate(ctx context.Context, db database.DB) error {
	var stmts []string
	switch db.Driver() {
	case config.DriverSQLite:
		stmts = sqliteSchema
	case config.DriverPostgres:
		stmts = postgresSchema
	default:
		return errors.NewDatabaseError(fmt.Sprintf("no schema for driver %q", db.Driver()), nil)
	}

	for _, stmt := range append(stmts, seedDeviceState) {
		if _, err := db.GetDB().ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseError("failed to migrate local schema", err)
		}
	}
	nuts.L.Infof("[LocalDB] Schema ready (%s)", db.Driver())
	return nil
}
