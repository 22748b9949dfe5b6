package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/soilsense/api/middleware"
	"github.com/itsatony/soilsense/api/resources"
	_ "github.com/itsatony/soilsense/docs"
	"github.com/itsatony/soilsense/internal/hubservice"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.KeycloakMiddleware
	resources *resources.Resources
}

// NewRouter builds the HTTP routes. metrics may be nil.
func NewRouter(svc *hubservice.HubService, keycloakConfig middleware.KeycloakConfig, metrics http.Handler) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewKeycloakMiddleware(keycloakConfig),
		resources: resources.NewResources(svc),
	}
	if metrics != nil {
		r.resources.SetMetrics(metrics.ServeHTTP)
	}
	if !r.auth.Enabled() {
		nuts.L.Warnf("[API] No Keycloak URL configured, operator routes are unauthenticated")
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)
	api.HandleFunc("/swagger/doc.json", serveDoc).Methods(http.MethodGet)

	// Device routes answer JSON even when a handler panics
	device := api.PathPrefix("/device").Subrouter()
	device.Use(middleware.RecoverJSON)
	device.HandleFunc("/report", r.resources.Device.Report).Methods(http.MethodPost)
	device.HandleFunc("/command", r.resources.Device.Command).Methods(http.MethodGet)

	// Operator routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)
	protected.HandleFunc("/state", r.resources.State.GetState).Methods(http.MethodGet)
	protected.HandleFunc("/history/latest", r.resources.State.LatestHistory).Methods(http.MethodGet)
	protected.HandleFunc("/diagnostics/remote", r.resources.State.RemoteDiagnostics).Methods(http.MethodGet)
	protected.HandleFunc("/commands", r.resources.Commands.IssueFromBody).Methods(http.MethodPost)
	protected.HandleFunc("/commands/{kind}/{value}", r.resources.Commands.IssueFromPath).Methods(http.MethodGet, http.MethodPost)

	// Paths used by deployed device firmware and the firmware-era dashboard
	recoverJSON := func(h http.HandlerFunc) http.Handler { return middleware.RecoverJSON(h) }
	authenticated := func(h http.HandlerFunc) http.Handler { return r.auth.Authenticate(h) }
	r.router.Handle("/api/esp32/push", recoverJSON(r.resources.Device.Report)).Methods(http.MethodPost)
	r.router.Handle("/api/esp32/command", recoverJSON(r.resources.Device.Command)).Methods(http.MethodGet)
	r.router.Handle("/api/data", authenticated(r.resources.State.LegacyData)).Methods(http.MethodGet)
	r.router.Handle("/api/mode/{mode}", authenticated(r.resources.Commands.Mode)).Methods(http.MethodGet, http.MethodPost)
	r.router.Handle("/api/pump/{state}", authenticated(r.resources.Commands.Pump)).Methods(http.MethodGet, http.MethodPost)
}

func serveDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "api documentation unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// SetHealthCheck replaces the handler behind /api/v1/health.
func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
