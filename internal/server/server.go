// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/itsatony/soilsense/api"
	"github.com/itsatony/soilsense/api/middleware"
	"github.com/itsatony/soilsense/api/resources"
	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/database"
	"github.com/itsatony/soilsense/internal/fallback"
	"github.com/itsatony/soilsense/internal/hubservice"
	"github.com/itsatony/soilsense/internal/liveness"
	"github.com/itsatony/soilsense/internal/monitoring"
	"github.com/itsatony/soilsense/internal/mqttbridge"
	"github.com/itsatony/soilsense/internal/repository"
	"github.com/itsatony/soilsense/internal/repository/influx"
	"github.com/itsatony/soilsense/internal/repository/redisstore"
	"github.com/itsatony/soilsense/internal/repository/sqlstore"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service

	localDB database.DB
	redis   *redis.Client
	influx  influxdb2.Client
	bridge  *mqttbridge.Bridge
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start wires the stores, begins listening for requests and blocks until
// SIGINT or SIGTERM.
func (s *Server) Start() error {
	s.monitoring = monitoring.NewService()

	svc, err := s.initializeHubService()
	if err != nil {
		s.closeBackends()
		return err
	}
	s.hubservice = svc

	s.setupEventHandlers()
	s.srv.Handler = s.buildHandler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if s.config.MQTT.Enabled() {
		s.bridge = mqttbridge.New(s.config.MQTT, s.hubservice)
		go func() {
			if err := s.bridge.Start(ctx); err != nil {
				nuts.L.Errorf("[Server] MQTT bridge not started: %v", err)
			}
		}()
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.bridge != nil {
		s.bridge.Stop()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.closeBackends()
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.closeBackends()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) buildHandler() http.Handler {
	router := api.NewRouter(s.hubservice, middleware.KeycloakConfig{
		URL:          s.config.Keycloak.URL,
		Realm:        s.config.Keycloak.Realm,
		ClientID:     s.config.Keycloak.ClientID,
		ClientSecret: s.config.Keycloak.ClientSecret,
	}, s.monitoring.Handler())
	router.SetHealthCheck(resources.NewHealthCheck(sqlstore.NewStateRepository(s.localDB)))

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	return handlers.CombinedLoggingHandler(os.Stdout, cors(router))
}

// setupEventHandlers counts command lifecycle events.
func (s *Server) setupEventHandlers() {
	record := func(event string) func(kind, value, source string) {
		return func(kind, value, source string) {
			s.monitoring.RecordEvent(event, map[string]string{
				"kind":   kind,
				"source": source,
			})
		}
	}
	s.hubservice.OnCommandEvent(hubservice.EventCommandIssued, "monitoring", record(hubservice.EventCommandIssued))
	s.hubservice.OnCommandEvent(hubservice.EventCommandDelivered, "monitoring", record(hubservice.EventCommandDelivered))
}

// initializeHubService creates and configures the hub service
func (s *Server) initializeHubService() (*hubservice.HubService, error) {
	cfg := s.config

	localDB, err := database.NewLocalDB(cfg.Local)
	if err != nil {
		return nil, fmt.Errorf("local store unavailable: %w", err)
	}
	s.localDB = localDB

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sqlstore.Migrate(ctx, localDB); err != nil {
		return nil, fmt.Errorf("local store migration failed: %w", err)
	}

	var (
		remoteState    repository.TelemetryBackend
		remoteCommands repository.CommandBackend
	)
	if s.redis = database.NewRedisClient(cfg.Redis); s.redis != nil {
		store := redisstore.New(s.redis, cfg.Redis.KeyPrefix)
		remoteState, remoteCommands = store, store
	}

	guard := fallback.NewGuard(cfg.Breaker, s.monitoring.RemoteFailure)

	svc := hubservice.New(
		fallback.NewTelemetryStore(remoteState, sqlstore.NewStateRepository(localDB), guard),
		fallback.NewMailbox(remoteCommands, sqlstore.NewCommandRepository(localDB), guard),
		s.initHistory(localDB),
		liveness.NewClock(cfg.Liveness.Timeout),
		guard,
	).WithObserver(s.monitoring)

	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Server) initHistory(localDB database.DB) repository.HistoryRepository {
	if s.config.History.Backend != config.HistoryInflux {
		return sqlstore.NewHistoryRepository(localDB)
	}

	influxCfg := s.config.Influx
	s.influx = influxdb2.NewClient(influxCfg.URL, influxCfg.Token)
	nuts.L.Infof("[Server] Recording history in InfluxDB bucket %s", influxCfg.Bucket)
	return influx.NewHistoryRepository(s.influx, influxCfg.Org, influxCfg.Bucket)
}

func (s *Server) closeBackends() {
	if s.influx != nil {
		s.influx.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			nuts.L.Warnf("[Server] Closing remote store: %v", err)
		}
	}
	if s.localDB != nil {
		if err := s.localDB.Close(); err != nil {
			nuts.L.Warnf("[Server] Closing local store: %v", err)
		}
	}
}
