package hubservice

import (
	"time"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/fallback"
	"github.com/itsatony/soilsense/internal/liveness"
	"github.com/itsatony/soilsense/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Hub events. Handlers receive kind, value and source as strings.
const (
	EventCommandIssued    = "command.issued"
	EventCommandDelivered = "command.delivered"
)

// Observer receives ingest measurements. monitoring.Service implements it.
type Observer interface {
	ObserveIngest(outcome string, took time.Duration)
	SetDeviceOnline(online bool)
}

type noopObserver struct{}

func (noopObserver) ObserveIngest(string, time.Duration) {}
func (noopObserver) SetDeviceOnline(bool)                {}

// HubService contains the stores and service-wide dependencies
type HubService struct {
	Telemetry *fallback.TelemetryStore
	Mailbox   *fallback.Mailbox
	History   repository.HistoryRepository
	Clock     *liveness.Clock
	Guard     *fallback.Guard
	observer  Observer
	events    *nuts.EventEmitter
}

// New creates a new HubService instance
func New(
	telemetry *fallback.TelemetryStore,
	mailbox *fallback.Mailbox,
	history repository.HistoryRepository,
	clock *liveness.Clock,
	guard *fallback.Guard,
) *HubService {
	return &HubService{
		Telemetry: telemetry,
		Mailbox:   mailbox,
		History:   history,
		Clock:     clock,
		Guard:     guard,
		observer:  noopObserver{},
		events:    nuts.NewEventEmitter(),
	}
}

// WithObserver sets the receiver for ingest measurements.
func (s *HubService) WithObserver(o Observer) *HubService {
	if o != nil {
		s.observer = o
	}
	return s
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Telemetry == nil {
		return ErrMissingDependency("telemetry")
	}
	if s.Mailbox == nil {
		return ErrMissingDependency("mailbox")
	}
	if s.History == nil {
		return ErrMissingDependency("history")
	}
	if s.Clock == nil {
		return ErrMissingDependency("clock")
	}
	if s.Guard == nil {
		return ErrMissingDependency("guard")
	}
	return nil
}

// OnCommandEvent registers a callback for command events
func (s *HubService) OnCommandEvent(event, handlerID string, handler func(kind, value, source string)) {
	s.events.On(event, handlerID, func(args ...interface{}) {
		if len(args) < 3 {
			return
		}
		kind, _ := args[0].(string)
		value, _ := args[1].(string)
		source, _ := args[2].(string)
		handler(kind, value, source)
	})
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

// publicMessage is the error text shown to clients: the APIError message
// without its internal cause.
func publicMessage(err error) string {
	if apiErr, ok := errors.AsAPIError(err); ok {
		return apiErr.Message
	}
	return "internal error"
}
