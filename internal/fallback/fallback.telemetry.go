// FilePath: internal/fallback/fallback.telemetry.go
package fallback

import (
	"context"

	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// TelemetryStore fronts the remote and local device-state backends.
// Writes go to both; reads are served whole by one of them.
type TelemetryStore struct {
	remote repository.TelemetryBackend
	local  repository.TelemetryBackend
	guard  *Guard
}

// NewTelemetryStore builds the store. remote may be nil when no remote is
// configured.
func NewTelemetryStore(remote, local repository.TelemetryBackend, guard *Guard) *TelemetryStore {
	return &TelemetryStore{remote: remote, local: local, guard: guard}
}

func (s *TelemetryStore) RemoteConfigured() bool {
	return s.remote != nil
}

// Write records state remotely (best effort) and then locally. Only a local
// failure is returned.
func (s *TelemetryStore) Write(ctx context.Context, state *models.DeviceState) error {
	if s.remote != nil {
		err := s.guard.Do(OpWriteState, func() error {
			return s.remote.WriteState(ctx, state)
		})
		if err != nil {
			nuts.L.Warnf("[Fallback] Remote state write failed, keeping local copy only: %v", err)
		}
	}
	return s.local.WriteState(ctx, state)
}

// Read returns the remote snapshot when the remote is configured and
// answers with one, otherwise the local snapshot. It returns (nil, nil) only
// if neither backend holds a state.
func (s *TelemetryStore) Read(ctx context.Context) (*models.DeviceState, error) {
	if s.remote != nil {
		var state *models.DeviceState
		err := s.guard.Do(OpReadState, func() error {
			var err error
			state, err = s.remote.ReadState(ctx)
			return err
		})
		switch {
		case err != nil:
			nuts.L.Warnf("[Fallback] Remote state read failed, serving local: %v", err)
		case state != nil:
			state.Source = models.SourceRemote
			return state, nil
		}
	}

	state, err := s.local.ReadState(ctx)
	if err != nil {
		return nil, err
	}
	if state != nil {
		state.Source = models.SourceLocal
	}
	return state, nil
}

// ReadRemote reads the remote backend directly, bypassing the fallback.
func (s *TelemetryStore) ReadRemote(ctx context.Context) (*models.DeviceState, error) {
	if s.remote == nil {
		return nil, nil
	}
	var state *models.DeviceState
	err := s.guard.Do(OpReadState, func() error {
		var err error
		state, err = s.remote.ReadState(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if state != nil {
		state.Source = models.SourceRemote
	}
	return state, nil
}
