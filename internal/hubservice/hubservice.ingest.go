package hubservice

import (
	"context"
	"time"

	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// HandleReport ingests one device report and hands back at most one pending
// command. The steps run in order and fail independently: the state write
// is stamped with the server clock, the history append never fails the
// report, and the command is taken last. A failed local write skips the
// take so no command is consumed by a report the device will retry.
//
// The returned response is always usable; a non-nil error says which
// status to answer with.
func (s *HubService) HandleReport(ctx context.Context, reading *models.DeviceReading) (*models.IngestResponse, error) {
	started := time.Now()
	now := s.Clock.Now()
	state := reading.ToState(now)

	if err := s.Telemetry.Write(ctx, state); err != nil {
		nuts.L.Errorf("[Ingest] Local state write failed: %v", err)
		s.appendHistory(ctx, state, now)
		s.observer.ObserveIngest(monitoring.OutcomeFailure, time.Since(started))
		return &models.IngestResponse{Success: false, Error: publicMessage(err)}, err
	}
	s.observer.SetDeviceOnline(true)
	s.appendHistory(ctx, state, now)

	cmd, source, err := s.Mailbox.Take(ctx)
	if err != nil {
		nuts.L.Errorf("[Ingest] Command take failed: %v", err)
		s.observer.ObserveIngest(monitoring.OutcomeFailure, time.Since(started))
		return &models.IngestResponse{Success: false, Error: publicMessage(err)}, err
	}

	resp := &models.IngestResponse{Success: true}
	if cmd != nil {
		resp.Command = cmd.Payload()
		s.delivered(cmd, source)
	}
	s.observer.ObserveIngest(monitoring.OutcomeSuccess, time.Since(started))
	return resp, nil
}

// PollCommand serves the dedicated command poll. It consumes the command
// exactly like an ingest would.
func (s *HubService) PollCommand(ctx context.Context) (*models.CommandPollResponse, error) {
	cmd, source, err := s.Mailbox.Take(ctx)
	if err != nil {
		nuts.L.Errorf("[Ingest] Command poll failed: %v", err)
		return &models.CommandPollResponse{HasCommand: false, Error: publicMessage(err)}, err
	}
	if cmd == nil {
		return &models.CommandPollResponse{HasCommand: false}, nil
	}
	s.delivered(cmd, source)
	return &models.CommandPollResponse{HasCommand: true, Type: string(cmd.Kind), Value: cmd.Value}, nil
}

func (s *HubService) appendHistory(ctx context.Context, state *models.DeviceState, at time.Time) {
	if err := s.History.Append(ctx, models.NewHistoryEntry(state, at)); err != nil {
		nuts.L.Warnf("[Ingest] History append failed: %v", err)
	}
}

func (s *HubService) delivered(cmd *models.PendingCommand, source models.Source) {
	nuts.L.Infof("[Ingest] Delivering %s=%s from %s store", cmd.Kind, cmd.Value, source)
	s.events.Emit(EventCommandDelivered, string(cmd.Kind), cmd.Value, string(source))
}
