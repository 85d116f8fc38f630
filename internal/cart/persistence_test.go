package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTripWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persistence := NewMemoryPersistence()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	day := futureDay(now)

	first := newTestStore(t, Options{Persistence: persistence, Now: func() time.Time { return now }})
	first.AddItem(ctx, tourA, "sched-1", day, []TicketOption{adultOption, childOption}, map[string]int{"t1": 2, "t2": 1})
	first.AddItem(ctx, tourA, "sched-2", day, []TicketOption{adultOption}, map[string]int{"t1": 1})

	// reload one hour later, well inside the TTL
	later := now.Add(time.Hour)
	second := newTestStore(t, Options{Persistence: persistence, Now: func() time.Time { return later }})

	restored := second.Items()
	original := first.Items()
	require.Len(t, restored, len(original))
	for i := range original {
		require.Equal(t, original[i].ScheduleID, restored[i].ScheduleID)
		require.Equal(t, original[i].Day, restored[i].Day)
		require.Len(t, restored[i].Tickets, len(original[i].Tickets))
		require.True(t, restored[i].TotalPrice.Equal(original[i].TotalPrice))
	}
	require.True(t, second.CartTotal().Equal(first.CartTotal()))
}

func TestSnapshotDiscardedAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persistence := NewMemoryPersistence()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	day := futureDay(now)

	first := newTestStore(t, Options{Persistence: persistence, TTL: 30 * time.Minute, Now: func() time.Time { return now }})
	first.AddItem(ctx, tourA, "sched-1", day, []TicketOption{adultOption}, map[string]int{"t1": 2})

	later := now.Add(31 * time.Minute)
	second := newTestStore(t, Options{Persistence: persistence, TTL: 30 * time.Minute, Now: func() time.Time { return later }})

	require.Equal(t, 0, second.ItemCount(), "stale snapshot discarded wholesale")

	// expiry wipes the persisted copy too
	snapshot, err := persistence.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, snapshot)
}

func TestMutationRefreshesInactivityWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persistence := NewMemoryPersistence()
	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	day := "2026-12-01"

	first := newTestStore(t, Options{Persistence: persistence, TTL: 30 * time.Minute, Now: now})
	first.AddItem(ctx, tourA, "sched-1", day, []TicketOption{adultOption}, map[string]int{"t1": 1})

	current = current.Add(20 * time.Minute)
	first.UpdateQuantity(ctx, "sched-1", "t1", DirectionIncrease)

	// 25 minutes after the last mutation, 45 after the first: still alive
	current = current.Add(25 * time.Minute)
	second := newTestStore(t, Options{Persistence: persistence, TTL: 30 * time.Minute, Now: now})
	require.Equal(t, 1, second.ItemCount())
}

type stubSnapshotKV struct {
	values map[string]string
	setTTL time.Duration
}

func newStubSnapshotKV() *stubSnapshotKV {
	return &stubSnapshotKV{values: map[string]string{}}
}

func (s *stubSnapshotKV) Get(ctx context.Context, key string) (string, error) {
	val, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return val, nil
}

func (s *stubSnapshotKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	s.setTTL = ttl
	return nil
}

func (s *stubSnapshotKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubSnapshotKV) SnapshotKey(prefix, ownerID string) string {
	if prefix == "" {
		prefix = "cart"
	}
	return "tourigo:" + prefix + ":" + ownerID + ":snapshot"
}

func TestRedisPersistenceLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newStubSnapshotKV()
	persistence := newRedisPersistence(kv, "", "user-1", time.Hour)
	require.Equal(t, "tourigo:cart:user-1:snapshot", persistence.key)

	loaded, err := persistence.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded, "missing key loads as no snapshot")

	snapshot := &Snapshot{
		Items: []Item{{
			Tour:       tourA,
			ScheduleID: "sched-1",
			Day:        "2026-12-01",
			Tickets:    []TicketLine{{TicketTypeID: "t1", Kind: adultOption.Kind, UnitCost: adultOption.UnitCost, Quantity: 2}},
			TotalPrice: decimal.NewFromInt(200000),
		}},
		LastMutatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, persistence.Save(ctx, snapshot))
	require.Equal(t, time.Hour, kv.setTTL, "redis key carries the cart TTL")

	loaded, err = persistence.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.True(t, loaded.Items[0].TotalPrice.Equal(decimal.NewFromInt(200000)))
	require.True(t, loaded.LastMutatedAt.Equal(snapshot.LastMutatedAt))

	require.NoError(t, persistence.Clear(ctx))
	loaded, err = persistence.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestRedisPersistenceRejectsCorruptSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newStubSnapshotKV()
	persistence := newRedisPersistence(kv, "", "user-1", time.Hour)
	kv.values[kv.SnapshotKey("", "user-1")] = "{not json"

	_, err := persistence.Load(ctx)
	require.Error(t, err)
}

func TestRedisPersistenceUsesConfiguredKeyPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newStubSnapshotKV()
	persistence := newRedisPersistence(kv, "basket", "user-1", time.Hour)

	snapshot := &Snapshot{LastMutatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, persistence.Save(ctx, snapshot))
	require.Contains(t, kv.values, "tourigo:basket:user-1:snapshot")
}

func TestSnapshotJSONShape(t *testing.T) {
	t.Parallel()

	snapshot := &Snapshot{
		Items: []Item{{
			Tour:       tourA,
			ScheduleID: "sched-1",
			Day:        "2026-12-01",
			Tickets:    []TicketLine{{TicketTypeID: "t1", Kind: adultOption.Kind, UnitCost: adultOption.UnitCost, Quantity: 1}},
			TotalPrice: decimal.NewFromInt(100000),
		}},
		LastMutatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.Contains(t, string(data), `"schedule_id":"sched-1"`)
	require.Contains(t, string(data), `"last_mutated_at"`)
}
