package hubservice

import (
	"context"

	"github.com/itsatony/soilsense/internal/models"
)

// CurrentState returns the latest snapshot with online derived from its
// timestamp at read time. A store that holds no state yields an empty,
// offline snapshot.
func (s *HubService) CurrentState(ctx context.Context) (*models.DeviceState, error) {
	state, err := s.Telemetry.Read(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.DeviceState{Source: models.SourceLocal}
	}

	stored := state.Online
	state.Online = s.Clock.Online(state.LastSeen(), &stored)
	s.observer.SetDeviceOnline(state.Online)
	return state, nil
}

func (s *HubService) LatestHistory(ctx context.Context) (*models.HistoryEntry, error) {
	return s.History.Latest(ctx)
}

// RemoteDiagnostics probes the remote store directly, bypassing the local
// fallback.
func (s *HubService) RemoteDiagnostics(ctx context.Context) *models.RemoteDiagnostics {
	diag := &models.RemoteDiagnostics{
		Configured:   s.Telemetry.RemoteConfigured(),
		BreakerState: s.Guard.State(),
	}
	if !diag.Configured {
		return diag
	}

	state, err := s.Telemetry.ReadRemote(ctx)
	if err != nil {
		diag.ReadError = publicMessage(err)
		return diag
	}
	diag.ReadOK = true
	if state != nil {
		stored := state.Online
		state.Online = s.Clock.Online(state.LastSeen(), &stored)
		diag.State = state
	}
	return diag
}
