// FilePath: api/resources/api.resource.device.go
package resources

import (
	"io"
	"net/http"

	"github.com/itsatony/soilsense/internal/hubservice"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const maxReportBytes = 64 << 10

// DeviceHandlers serve the field device. Every response is JSON, failures
// included, so the device can always finish its poll cycle.
type DeviceHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Ingest a device report
// @Description Stores the report as current state, appends it to history and returns at most one pending command. Missing fields take their defaults.
// @Tags device
// @Accept json
// @Produce json
// @Param report body object true "Device reading"
// @Success 200 {object} models.IngestResponse
// @Failure 400 {object} models.IngestResponse
// @Failure 500 {object} models.IngestResponse
// @Router /device/report [post]
func (h *DeviceHandlers) Report(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReportBytes))
	if err != nil {
		nuts.L.Warnf("[API] %s: unreadable device report: %v", requestID, err)
		respondWithJSON(w, http.StatusBadRequest, models.IngestResponse{Success: false, Error: "unreadable request body"})
		return
	}

	reading, err := models.ParseDeviceReading(body)
	if err != nil {
		nuts.L.Warnf("[API] %s: rejected device report: %v", requestID, err)
		respondWithJSON(w, http.StatusBadRequest, models.IngestResponse{Success: false, Error: "report must be a JSON object"})
		return
	}

	resp, err := h.hubservice.HandleReport(r.Context(), reading)
	if err != nil {
		nuts.L.Errorf("[API] %s: device report failed: %v", requestID, err)
		respondWithJSON(w, statusFor(err), resp)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// @Summary Poll for a pending command
// @Description Returns and consumes the next pending command, if any.
// @Tags device
// @Produce json
// @Success 200 {object} models.CommandPollResponse
// @Failure 500 {object} models.CommandPollResponse
// @Router /device/command [get]
func (h *DeviceHandlers) Command(w http.ResponseWriter, r *http.Request) {
	resp, err := h.hubservice.PollCommand(r.Context())
	if err != nil {
		nuts.L.Errorf("[API] command poll failed: %v", err)
		respondWithJSON(w, statusFor(err), resp)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
