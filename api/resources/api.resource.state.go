// FilePath: api/resources/api.resource.state.go
package resources

import (
	"net/http"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/hubservice"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// StateHandlers serve the operator's read-only views.
type StateHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Current device state
// @Description Latest snapshot with online derived at read time and the backend that served it.
// @Tags state
// @Produce json
// @Success 200 {object} models.DeviceState
// @Failure 500 {object} models.OperatorResponse
// @Router /state [get]
// @Security BearerAuth
func (h *StateHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.hubservice.CurrentState(r.Context())
	if err != nil {
		nuts.L.Errorf("[API] state read failed: %v", err)
		respondWithJSON(w, statusFor(err), models.OperatorResponse{Success: false, Error: "device state unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// LegacyData serves the firmware-era dashboard alias /api/data.
func (h *StateHandlers) LegacyData(w http.ResponseWriter, r *http.Request) {
	state, err := h.hubservice.CurrentState(r.Context())
	if err != nil {
		nuts.L.Errorf("[API] state read failed: %v", err)
		respondWithJSON(w, statusFor(err), map[string]string{"error": "device state unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, models.NewLegacyStateResponse(state))
}

// @Summary Latest history entry
// @Tags state
// @Produce json
// @Success 200 {object} models.HistoryEntry
// @Failure 404 {object} errors.APIError
// @Router /history/latest [get]
// @Security BearerAuth
func (h *StateHandlers) LatestHistory(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	entry, err := h.hubservice.LatestHistory(r.Context())
	if err != nil {
		if apiErr, ok := errors.AsAPIError(err); ok {
			respondWithError(w, apiErr.WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewInternalError("failed to read history", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// @Summary Remote store diagnostics
// @Description Whether the remote store is configured, its breaker state and a live read probe.
// @Tags state
// @Produce json
// @Success 200 {object} models.RemoteDiagnostics
// @Router /diagnostics/remote [get]
// @Security BearerAuth
func (h *StateHandlers) RemoteDiagnostics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.hubservice.RemoteDiagnostics(r.Context()))
}
