// FilePath: api/resources/api.resource.commands.go
package resources

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/hubservice"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CommandHandlers accept operator commands for the device.
type CommandHandlers struct {
	hubservice *hubservice.HubService
	decoder    *schema.Decoder
}

func newCommandHandlers(svc *hubservice.HubService) *CommandHandlers {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &CommandHandlers{hubservice: svc, decoder: decoder}
}

// @Summary Issue a command
// @Description Queues a mode or pump command for the device. Values are upper-cased.
// @Tags commands
// @Produce json
// @Param kind path string true "mode or pump"
// @Param value path string true "Command value, e.g. MANUAL or ON"
// @Success 200 {object} models.OperatorResponse
// @Failure 400 {object} models.OperatorResponse
// @Failure 500 {object} models.OperatorResponse
// @Router /commands/{kind}/{value} [post]
// @Security BearerAuth
func (h *CommandHandlers) IssueFromPath(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.issue(w, r, vars["kind"], vars["value"])
}

// @Summary Issue a command from a body
// @Description Accepts kind and value as a form or a JSON object.
// @Tags commands
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param command body models.CommandRequest true "Command"
// @Success 200 {object} models.OperatorResponse
// @Failure 400 {object} models.OperatorResponse
// @Failure 500 {object} models.OperatorResponse
// @Router /commands [post]
// @Security BearerAuth
func (h *CommandHandlers) IssueFromBody(w http.ResponseWriter, r *http.Request) {
	var req models.CommandRequest
	if err := h.decodeRequest(r, &req); err != nil {
		nuts.L.Warnf("[API] invalid command request: %v", err)
		respondWithJSON(w, http.StatusBadRequest, models.OperatorResponse{Success: false, Error: "invalid request body"})
		return
	}
	h.issue(w, r, req.Kind, req.Value)
}

// Mode serves the firmware-era alias /api/mode/{mode}.
func (h *CommandHandlers) Mode(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, string(models.CommandMode), mux.Vars(r)["mode"])
}

// Pump serves the firmware-era alias /api/pump/{state}.
func (h *CommandHandlers) Pump(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, string(models.CommandPump), mux.Vars(r)["state"])
}

func (h *CommandHandlers) issue(w http.ResponseWriter, r *http.Request, kind, value string) {
	if _, err := h.hubservice.IssueCommand(r.Context(), kind, value); err != nil {
		message := "failed to issue command"
		if errors.IsValidation(err) {
			if apiErr, ok := errors.AsAPIError(err); ok {
				message = apiErr.Message
			}
		}
		respondWithJSON(w, statusFor(err), models.OperatorResponse{Success: false, Error: message})
		return
	}
	respondWithJSON(w, http.StatusOK, models.OperatorResponse{Success: true})
}

func (h *CommandHandlers) decodeRequest(r *http.Request, req *models.CommandRequest) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return json.NewDecoder(r.Body).Decode(req)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	return h.decoder.Decode(req, r.PostForm)
}
