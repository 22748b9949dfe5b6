package fallback

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/itsatony/soilsense/internal/config"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
	"github.com/itsatony/soilsense/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errRemoteDown = errors.NewRemoteError("remote down", stderrors.New("dial tcp: connection refused"))

type failureLog struct {
	ops []string
}

func (f *failureLog) record(op string, _ error) {
	f.ops = append(f.ops, op)
}

func newGuard(failures *failureLog) *Guard {
	return NewGuard(config.BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute, Interval: time.Minute}, failures.record)
}

func sampleState() *models.DeviceState {
	reading, _ := models.ParseDeviceReading([]byte(`{"soil_percent":[10,20,30,40]}`))
	return reading.ToState(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
}

func TestWriteSwallowsRemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockTelemetryBackend(ctrl)
	local := mocks.NewMockTelemetryBackend(ctrl)
	failures := &failureLog{}
	store := NewTelemetryStore(remote, local, newGuard(failures))
	state := sampleState()

	gomock.InOrder(
		remote.EXPECT().WriteState(gomock.Any(), state).Return(errRemoteDown),
		local.EXPECT().WriteState(gomock.Any(), state).Return(nil),
	)

	require.NoError(t, store.Write(context.Background(), state))
	assert.Equal(t, []string{OpWriteState}, failures.ops)
}

func TestWritePropagatesLocalFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockTelemetryBackend(ctrl)
	local := mocks.NewMockTelemetryBackend(ctrl)
	store := NewTelemetryStore(remote, local, newGuard(&failureLog{}))

	remote.EXPECT().WriteState(gomock.Any(), gomock.Any()).Return(nil)
	local.EXPECT().WriteState(gomock.Any(), gomock.Any()).Return(errors.NewDatabaseError("disk full", nil))

	err := store.Write(context.Background(), sampleState())
	assert.True(t, errors.IsDatabase(err))
}

func TestWriteLocalOnlyWhenRemoteUnconfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := mocks.NewMockTelemetryBackend(ctrl)
	store := NewTelemetryStore(nil, local, newGuard(&failureLog{}))

	local.EXPECT().WriteState(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, store.Write(context.Background(), sampleState()))
	assert.False(t, store.RemoteConfigured())
}

func TestReadPrefersRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockTelemetryBackend(ctrl)
	local := mocks.NewMockTelemetryBackend(ctrl)
	store := NewTelemetryStore(remote, local, newGuard(&failureLog{}))

	remote.EXPECT().ReadState(gomock.Any()).Return(sampleState(), nil)

	state, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, state.Source)
}

func TestReadFallsBackToLocal(t *testing.T) {
	tests := []struct {
		name        string
		remoteState *models.DeviceState
		remoteErr   error
		failures    int
	}{
		{name: "remote error", remoteErr: errRemoteDown, failures: 1},
		{name: "remote empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			remote := mocks.NewMockTelemetryBackend(ctrl)
			local := mocks.NewMockTelemetryBackend(ctrl)
			failures := &failureLog{}
			store := NewTelemetryStore(remote, local, newGuard(failures))

			remote.EXPECT().ReadState(gomock.Any()).Return(tt.remoteState, tt.remoteErr)
			local.EXPECT().ReadState(gomock.Any()).Return(sampleState(), nil)

			state, err := store.Read(context.Background())
			require.NoError(t, err)
			assert.Equal(t, models.SourceLocal, state.Source)
			assert.Len(t, failures.ops, tt.failures)
		})
	}
}

func TestReadFailsWhenBothBackendsFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockTelemetryBackend(ctrl)
	local := mocks.NewMockTelemetryBackend(ctrl)
	store := NewTelemetryStore(remote, local, newGuard(&failureLog{}))

	remote.EXPECT().ReadState(gomock.Any()).Return(nil, errRemoteDown)
	local.EXPECT().ReadState(gomock.Any()).Return(nil, errors.NewDatabaseError("locked", nil))

	_, err := store.Read(context.Background())
	assert.True(t, errors.IsDatabase(err))
}

func TestOpenBreakerSkipsRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockTelemetryBackend(ctrl)
	local := mocks.NewMockTelemetryBackend(ctrl)
	failures := &failureLog{}
	guard := newGuard(failures)
	store := NewTelemetryStore(remote, local, guard)

	remote.EXPECT().ReadState(gomock.Any()).Return(nil, errRemoteDown).Times(3)
	local.EXPECT().ReadState(gomock.Any()).Return(sampleState(), nil).Times(5)

	for i := 0; i < 5; i++ {
		state, err := store.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.SourceLocal, state.Source)
	}
	assert.Equal(t, "open", guard.State())
	assert.Len(t, failures.ops, 5, "refused calls count as remote failures too")
}

func newCommand(t *testing.T, kind models.CommandKind, value string) *models.PendingCommand {
	t.Helper()
	cmd, err := models.NewPendingCommand(kind, value, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return cmd
}

func TestIssueWritesBothBackends(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockCommandBackend(ctrl)
	local := mocks.NewMockCommandBackend(ctrl)
	mailbox := NewMailbox(remote, local, newGuard(&failureLog{}))

	remote.EXPECT().PutCommand(gomock.Any(), gomock.Any()).Return(nil)
	local.EXPECT().PutCommand(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, mailbox.Issue(context.Background(), newCommand(t, models.CommandMode, "MANUAL")))
}

func TestIssueErrorSemantics(t *testing.T) {
	localErr := errors.NewDatabaseError("disk full", nil)
	tests := []struct {
		name      string
		remote    bool
		remoteErr error
		localErr  error
		wantErr   bool
	}{
		{name: "remote down, local ok", remote: true, remoteErr: errRemoteDown},
		{name: "remote ok, local down", remote: true, localErr: localErr},
		{name: "both down", remote: true, remoteErr: errRemoteDown, localErr: localErr, wantErr: true},
		{name: "local only, local down", localErr: localErr, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			local := mocks.NewMockCommandBackend(ctrl)
			local.EXPECT().PutCommand(gomock.Any(), gomock.Any()).Return(tt.localErr)

			var mailbox *Mailbox
			if tt.remote {
				remote := mocks.NewMockCommandBackend(ctrl)
				remote.EXPECT().PutCommand(gomock.Any(), gomock.Any()).Return(tt.remoteErr)
				mailbox = NewMailbox(remote, local, newGuard(&failureLog{}))
			} else {
				mailbox = NewMailbox(nil, local, newGuard(&failureLog{}))
			}

			err := mailbox.Issue(context.Background(), newCommand(t, models.CommandPump, "ON"))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTakeFromHealthyRemoteNeverTouchesLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockCommandBackend(ctrl)
	local := mocks.NewMockCommandBackend(ctrl)
	mailbox := NewMailbox(remote, local, newGuard(&failureLog{}))

	cmd := newCommand(t, models.CommandMode, "MANUAL")
	gomock.InOrder(
		remote.EXPECT().TakePending(gomock.Any()).Return(cmd, nil),
		remote.EXPECT().TakePending(gomock.Any()).Return(nil, nil),
	)

	got, source, err := mailbox.Take(context.Background())
	require.NoError(t, err)
	assert.Same(t, cmd, got)
	assert.Equal(t, models.SourceRemote, source)

	// The local twin stays queued as audit record.
	got, _, err = mailbox.Take(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTakeFallsBackToLocalOnRemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockCommandBackend(ctrl)
	local := mocks.NewMockCommandBackend(ctrl)
	failures := &failureLog{}
	mailbox := NewMailbox(remote, local, newGuard(failures))

	cmd := newCommand(t, models.CommandPump, "ON")
	remote.EXPECT().TakePending(gomock.Any()).Return(nil, errRemoteDown)
	local.EXPECT().TakePending(gomock.Any()).Return(cmd, nil)

	got, source, err := mailbox.Take(context.Background())
	require.NoError(t, err)
	assert.Same(t, cmd, got)
	assert.Equal(t, models.SourceLocal, source)
	assert.Equal(t, []string{OpTakePending}, failures.ops)
}

func TestTakeFallsThroughOnEmptyRemoteSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockCommandBackend(ctrl)
	local := mocks.NewMockCommandBackend(ctrl)
	failures := &failureLog{}
	guard := newGuard(failures)
	mailbox := NewMailbox(remote, local, guard)

	queued := newCommand(t, models.CommandPump, "ON")
	remote.EXPECT().TakePending(gomock.Any()).Return(nil, repository.ErrSlotEmpty).Times(2)
	gomock.InOrder(
		local.EXPECT().TakePending(gomock.Any()).Return(queued, nil),
		local.EXPECT().TakePending(gomock.Any()).Return(nil, nil),
	)

	got, source, err := mailbox.Take(context.Background())
	require.NoError(t, err)
	assert.Same(t, queued, got)
	assert.Equal(t, models.SourceLocal, source)

	got, _, err = mailbox.Take(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Empty(t, failures.ops, "an empty slot is not a remote failure")
	assert.Equal(t, "closed", guard.State())
}

func TestTakeLocalFailureIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := mocks.NewMockCommandBackend(ctrl)
	mailbox := NewMailbox(nil, local, newGuard(&failureLog{}))

	local.EXPECT().TakePending(gomock.Any()).Return(nil, stderrors.New("database is locked"))

	_, _, err := mailbox.Take(context.Background())
	assert.True(t, errors.IsDatabase(err))
}
