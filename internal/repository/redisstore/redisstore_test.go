package redisstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	"github.com/itsatony/soilsense/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "soilsense"), mr
}

func TestReadStateEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	state, err := store.ReadState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestWriteReadState(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	reading, err := models.ParseDeviceReading([]byte(`{"soil_percent":[40,60],"mode":"MANUAL","battery_percent":"87.5"}`))
	require.NoError(t, err)
	state := reading.ToState(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	state.Source = models.SourceLocal
	require.NoError(t, store.WriteState(ctx, state))

	raw, err := mr.Get("soilsense:sensor_data")
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.NotContains(t, doc, "source", "provenance is assigned on read, not stored")
	assert.Equal(t, "2026-10-16T12:00:00Z", doc["timestamp"])

	got, err := store.ReadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, got.Source)
	assert.Equal(t, models.SoilChannels{40, 60}, got.SoilPercent)
	assert.Equal(t, "MANUAL", *got.Mode)
	assert.Equal(t, 87.5, *got.BatteryPercent)
}

func TestCommandSlotOverwrite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	first, _ := models.NewPendingCommand(models.CommandPump, "ON", now)
	second, _ := models.NewPendingCommand(models.CommandMode, "MANUAL", now.Add(time.Second))
	require.NoError(t, store.PutCommand(ctx, first))
	require.NoError(t, store.PutCommand(ctx, second))

	cmd, err := store.TakePending(ctx)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, models.CommandMode, cmd.Kind)
	assert.Equal(t, "MANUAL", cmd.Value)
	assert.True(t, cmd.Executed)

	again, err := store.TakePending(ctx)
	require.NoError(t, err)
	assert.Nil(t, again, "the overwritten pump command is dropped, not queued")

	slot, err := store.PeekCommand(ctx)
	require.NoError(t, err)
	assert.True(t, slot.Executed)
	assert.NotNil(t, slot.ExecutedAt)
}

func TestTakePendingEmptySlot(t *testing.T) {
	store, _ := newTestStore(t)
	cmd, err := store.TakePending(context.Background())
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
	assert.False(t, errors.IsRemote(err), "an empty slot is not a remote failure")
	assert.Nil(t, cmd)
}

func TestConcurrentTakeDeliversOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	cmd, _ := models.NewPendingCommand(models.CommandPump, "ON", time.Now())
	require.NoError(t, store.PutCommand(ctx, cmd))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.TakePending(ctx)
			assert.NoError(t, err)
			if got != nil {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, delivered)
}

func TestUnreachableRemoteReportsRemoteError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()
	ctx := context.Background()

	_, err := store.ReadState(ctx)
	assert.True(t, errors.IsRemote(err))

	_, err = store.TakePending(ctx)
	assert.True(t, errors.IsRemote(err))

	cmd, _ := models.NewPendingCommand(models.CommandMode, "AUTO", time.Now())
	assert.True(t, errors.IsRemote(store.PutCommand(ctx, cmd)))
	assert.True(t, errors.IsRemote(store.Ping(ctx)))
}
