package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Local store drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// History backends
const (
	HistorySQL    = "sql"
	HistoryInflux = "influx"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Local      LocalConfig      `mapstructure:"local"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Breaker    BreakerConfig    `mapstructure:"breaker"`
	Liveness   LivenessConfig   `mapstructure:"liveness"`
	History    HistoryConfig    `mapstructure:"history"`
	Influx     InfluxConfig     `mapstructure:"influx"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Keycloak   KeycloakConfig   `mapstructure:"keycloak"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// LocalConfig configures the co-located durable store.
type LocalConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	ConnectRetries int    `mapstructure:"connect_retries"`
}

// RedisConfig configures the remote store. An empty Host disables it.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether remote credentials were supplied.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
	Interval    time.Duration `mapstructure:"interval"`
}

type LivenessConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type HistoryConfig struct {
	Backend string `mapstructure:"backend"`
}

type InfluxConfig struct {
	URL    string `mapstructure:"url"`
	Token  string `mapstructure:"token"`
	Org    string `mapstructure:"org"`
	Bucket string `mapstructure:"bucket"`
}

// MQTTConfig configures the optional MQTT ingest bridge. An empty Broker disables it.
type MQTTConfig struct {
	Broker        string `mapstructure:"broker"`
	ClientID      string `mapstructure:"client_id"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	ReportTopic   string `mapstructure:"report_topic"`
	ResponseTopic string `mapstructure:"response_topic"`
	QoS           byte   `mapstructure:"qos"`
}

func (c MQTTConfig) Enabled() bool {
	return strings.TrimSpace(c.Broker) != ""
}

type KeycloakConfig struct {
	URL          string `mapstructure:"url"`
	Realm        string `mapstructure:"realm"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SOILSENSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// Every key gets a default so AutomaticEnv can resolve it during Unmarshal.
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.cors_origins", []string{"*"})

	// Local store defaults
	viper.SetDefault("local.driver", DriverSQLite)
	viper.SetDefault("local.dsn", "soilsense.db")
	viper.SetDefault("local.host", "")
	viper.SetDefault("local.port", 5432)
	viper.SetDefault("local.user", "")
	viper.SetDefault("local.password", "")
	viper.SetDefault("local.dbname", "soilsense")
	viper.SetDefault("local.sslmode", "disable")
	viper.SetDefault("local.connect_retries", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "soilsense")
	viper.SetDefault("redis.dial_timeout", "2s")
	viper.SetDefault("redis.read_timeout", "2s")
	viper.SetDefault("redis.write_timeout", "2s")

	// Breaker defaults
	viper.SetDefault("breaker.max_failures", 3)
	viper.SetDefault("breaker.open_timeout", "30s")
	viper.SetDefault("breaker.interval", "60s")

	viper.SetDefault("liveness.timeout", "30s")

	// History defaults
	viper.SetDefault("history.backend", HistorySQL)
	viper.SetDefault("influx.url", "")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "")
	viper.SetDefault("influx.bucket", "")

	// MQTT defaults
	viper.SetDefault("mqtt.broker", "")
	viper.SetDefault("mqtt.client_id", "soilsense-hub")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.report_topic", "soilsense/device/report")
	viper.SetDefault("mqtt.response_topic", "soilsense/device/response")
	viper.SetDefault("mqtt.qos", 1)

	viper.SetDefault("keycloak.url", "")
	viper.SetDefault("keycloak.realm", "")
	viper.SetDefault("keycloak.client_id", "")
	viper.SetDefault("keycloak.client_secret", "")

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	switch config.Local.Driver {
	case DriverSQLite:
		if config.Local.DSN == "" {
			return fmt.Errorf("local dsn is required for the sqlite3 driver")
		}
	case DriverPostgres:
		if config.Local.Host == "" {
			return fmt.Errorf("local host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported local driver %q", config.Local.Driver)
	}
	if config.Liveness.Timeout <= 0 {
		return fmt.Errorf("liveness timeout must be positive")
	}
	switch config.History.Backend {
	case HistorySQL:
	case HistoryInflux:
		if config.Influx.URL == "" || config.Influx.Bucket == "" {
			return fmt.Errorf("influx url and bucket are required for the influx history backend")
		}
	default:
		return fmt.Errorf("unsupported history backend %q", config.History.Backend)
	}
	return nil
}
