package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Local.Driver)
	assert.Equal(t, "soilsense.db", cfg.Local.DSN)
	assert.Equal(t, 30*time.Second, cfg.Liveness.Timeout)
	assert.False(t, cfg.Redis.Enabled(), "no remote credentials means local-only mode")
	assert.False(t, cfg.MQTT.Enabled())
	assert.Equal(t, HistorySQL, cfg.History.Backend)
	assert.Equal(t, uint32(3), cfg.Breaker.MaxFailures)
	assert.Equal(t, 2*time.Second, cfg.Redis.ReadTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SOILSENSE_REDIS__HOST", "cache.internal")
	t.Setenv("SOILSENSE_REDIS__PORT", "6380")
	t.Setenv("SOILSENSE_LIVENESS__TIMEOUT", "45s")
	t.Setenv("SOILSENSE_LOCAL__DRIVER", "postgres")
	t.Setenv("SOILSENSE_LOCAL__HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 45*time.Second, cfg.Liveness.Timeout)
	assert.Equal(t, DriverPostgres, cfg.Local.Driver)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Local:    LocalConfig{Driver: DriverSQLite, DSN: "x.db"},
			Liveness: LivenessConfig{Timeout: time.Second},
			History:  HistoryConfig{Backend: HistorySQL},
		}
	}

	require.NoError(t, validateConfig(valid()))

	cfg := valid()
	cfg.Local.Driver = "mysql"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Local.Driver = DriverPostgres
	assert.Error(t, validateConfig(cfg), "postgres needs a host")

	cfg = valid()
	cfg.Liveness.Timeout = 0
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.History.Backend = HistoryInflux
	assert.Error(t, validateConfig(cfg))
	cfg.Influx = InfluxConfig{URL: "http://influx:8086", Bucket: "soil"}
	assert.NoError(t, validateConfig(cfg))
}
