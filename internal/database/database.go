// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/itsatony/soilsense/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// DB is the local durable store connection
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
	Driver() string
}

// LocalDB represents the co-located database connection
type LocalDB struct {
	db     *sqlx.DB
	driver string
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// NewLocalDB opens the local store, retrying the initial connection with
// exponential backoff.
func NewLocalDB(cfg config.LocalConfig) (DB, error) {
	dsn, err := localDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == config.DriverSQLite {
		// One writer at a time; shared-cache memory databases vanish with their last connection.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			nuts.L.Warnf("[LocalDB] Connection attempt %d/%d failed: %v", attempt, retries, err)
			return err
		}
		return nil
	}, backoff.WithMaxRetries(bo, uint64(retries-1)))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s database: %w", cfg.Driver, err)
	}

	nuts.L.Infof("[LocalDB] Connected using driver %s", cfg.Driver)
	return &LocalDB{db: db, driver: cfg.Driver}, nil
}

func localDSN(cfg config.LocalConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		dsn := cfg.DSN
		if !strings.Contains(dsn, "_busy_timeout") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_busy_timeout=5000"
		}
		return dsn, nil
	case config.DriverPostgres:
		if cfg.DSN != "" && cfg.Host == "" {
			return cfg.DSN, nil
		}
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		), nil
	default:
		return "", fmt.Errorf("unsupported local driver %q", cfg.Driver)
	}
}

func (l *LocalDB) Close() error {
	return l.db.Close()
}

func (l *LocalDB) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

func (l *LocalDB) GetDB() *sqlx.DB {
	return l.db
}

func (l *LocalDB) Driver() string {
	return l.driver
}

// NewRedisClient builds the remote store client. It returns nil when no
// remote is configured. An unreachable remote at startup is logged only;
// calls against it fail individually and fall back to the local store.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		nuts.L.Infof("[Redis] No remote configured, running in local-only mode")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		// -1 disables retries; a failed remote call falls back to the local store at once.
		MaxRetries:   -1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout+time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		nuts.L.Warnf("[Redis] Remote %s:%d not reachable at startup: %v", cfg.Host, cfg.Port, err)
	} else {
		nuts.L.Infof("[Redis] Connected to %s:%d/%d", cfg.Host, cfg.Port, cfg.DB)
	}
	return client
}
