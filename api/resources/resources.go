// FilePath: api/resources/resources.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Device      *DeviceHandlers
	State       *StateHandlers
	Commands    *CommandHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Device:      &DeviceHandlers{hubservice: svc},
		State:       &StateHandlers{hubservice: svc},
		Commands:    newCommandHandlers(svc),
		HealthCheck: HealthCheck,
		Metrics: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "metrics not configured", http.StatusNotFound)
		},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errors.APIError
// @Router /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": nuts.GetVersion(),
	})
}

// Pinger reports whether a store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthCheck returns a health handler that answers 503 while the local
// store is unreachable. The remote store is not checked; the hub runs
// without it.
func NewHealthCheck(local Pinger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := local.Ping(ctx); err != nil {
			respondWithError(w, errors.NewUnavailableError("local store unreachable", err).WithRequestID(nuts.NID("req", 12)))
			return
		}
		HealthCheck(w, r)
	}
}

// statusFor maps an error to the HTTP status it is answered with.
func statusFor(err error) int {
	if apiErr, ok := errors.AsAPIError(err); ok && apiErr.Code != 0 {
		return apiErr.Code
	}
	return http.StatusInternalServerError
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
