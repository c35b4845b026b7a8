package mocks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

func TestMockClickHouseAveragesPicks(t *testing.T) {
	ch := NewMockClickHouseClient()
	ctx := context.Background()

	require.NoError(t, ch.RecordPick(ctx, models.PickRecord{PlayerKey: "a", PickNumber: 1}))
	require.NoError(t, ch.RecordPick(ctx, models.PickRecord{PlayerKey: "a", PickNumber: 4}))
	require.NoError(t, ch.RecordPick(ctx, models.PickRecord{PlayerKey: "b", PickNumber: 7}))
	assert.Len(t, ch.Picks(), 3)

	adps, err := ch.GetAverageDraftPositions(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, adps["a"], 1e-9)
	assert.InDelta(t, 7, adps["b"], 1e-9)

	var applied map[string]float64
	require.NoError(t, ch.SyncAverageDraftPositions(ctx, func(m map[string]float64) error {
		applied = m
		return nil
	}))
	assert.Equal(t, adps, applied)

	boom := errors.New("boom")
	err = ch.SyncAverageDraftPositions(ctx, func(map[string]float64) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, ch.Ping(ctx))
	assert.NoError(t, ch.Close())
}

func TestMockNATSRetainsAndDelivers(t *testing.T) {
	bus := NewMockNATSPubSub("test.events")
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(pubsub.NewEvent(pubsub.EventDraftStart, nil))

	select {
	case event := <-ch:
		assert.Equal(t, pubsub.EventDraftStart, event.Type)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	msgs := bus.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, pubsub.EventDraftStart, msgs[0].Type)
}

func TestMockPostgresUsesSQLite(t *testing.T) {
	store, err := NewMockPostgresDAL(filepath.Join(t.TempDir(), "mock.db"))
	require.NoError(t, err)
	defer store.Close()

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Len(t, settings.Teams, 10)
}
