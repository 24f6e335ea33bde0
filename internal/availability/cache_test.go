package availability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbearia/internal/model"
	"barbearia/internal/notify"
	"barbearia/internal/schedule"
)

func newCachedService(t *testing.T, store *mockStore) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := New(store, rdb, time.Minute, zerolog.New(io.Discard))
	svc.WithClock(func() time.Time {
		return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	})
	return svc, mr
}

func TestDaySlotsCacheHitSkipsStore(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetSettings", ctx).Return(openSettings(), nil)
	store.On("ServiceDurations", ctx, []string{"cut"}).Return(map[string]int{"cut": 30}, nil)
	store.On("ListDayBookings", ctx, "b1", "2026-09-10").Return([]model.Booking{
		{StartTime: "09:30", ServiceID: "cut", Status: model.StatusConfirmed},
	}, nil).Once()
	store.On("ListDayBlocks", ctx, "b1", "2026-09-10").Return([]model.BlockedRange(nil), nil).Once()

	svc, mr := newCachedService(t, store)

	first, err := svc.DaySlots(ctx, "b1", "2026-09-10", []string{"cut"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("occupancy:b1:2026-09-10"))

	// The day rows are now cached; a second call must not hit the store.
	second, err := svc.DaySlots(ctx, "b1", "2026-09-10", []string{"cut"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	store.AssertNumberOfCalls(t, "ListDayBookings", 1)
	store.AssertNumberOfCalls(t, "ListDayBlocks", 1)
}

func TestInvalidationDropsCacheAndRecomputes(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetSettings", ctx).Return(openSettings(), nil)
	store.On("ServiceDurations", ctx, []string{"cut"}).Return(map[string]int{"cut": 30}, nil)
	store.On("ListDayBookings", ctx, "b1", "2026-09-10").Return([]model.Booking{
		{StartTime: "09:30", ServiceID: "cut", Status: model.StatusConfirmed},
	}, nil).Once()
	store.On("ListDayBookings", ctx, "b1", "2026-09-10").Return([]model.Booking(nil), nil).Once()
	store.On("ListDayBlocks", ctx, "b1", "2026-09-10").Return([]model.BlockedRange(nil), nil).Twice()

	svc, mr := newCachedService(t, store)
	bus := notify.NewBus()
	svc.Register(bus)

	slots, err := svc.DaySlots(ctx, "b1", "2026-09-10", []string{"cut"})
	require.NoError(t, err)
	assert.False(t, slotAvailable(slots, "09:30"), "confirmed booking occupies")
	require.True(t, mr.Exists("occupancy:b1:2026-09-10"))

	bus.Publish(notify.Invalidation{Kind: notify.KindBookings, BarberID: "b1", Date: "2026-09-10"})
	assert.False(t, mr.Exists("occupancy:b1:2026-09-10"), "invalidation drops the day cache")

	// The next call refetches and recomputes; the booking is gone.
	slots, err = svc.DaySlots(ctx, "b1", "2026-09-10", []string{"cut"})
	require.NoError(t, err)
	assert.True(t, slotAvailable(slots, "09:30"))
	store.AssertNumberOfCalls(t, "ListDayBookings", 2)
}

func TestBlockInvalidationDropsCache(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetSettings", ctx).Return(openSettings(), nil)
	store.On("ServiceDurations", ctx, []string{"cut"}).Return(map[string]int{"cut": 30}, nil)
	store.On("ListDayBookings", ctx, "b1", "2026-09-10").Return([]model.Booking(nil), nil)
	store.On("ListDayBlocks", ctx, "b1", "2026-09-10").Return([]model.BlockedRange(nil), nil)

	svc, mr := newCachedService(t, store)
	bus := notify.NewBus()
	svc.Register(bus)

	_, err := svc.DaySlots(ctx, "b1", "2026-09-10", []string{"cut"})
	require.NoError(t, err)
	require.True(t, mr.Exists("occupancy:b1:2026-09-10"))

	bus.Publish(notify.Invalidation{Kind: notify.KindBlocks, BarberID: "b1", Date: "2026-09-10"})
	assert.False(t, mr.Exists("occupancy:b1:2026-09-10"))
}

func slotAvailable(slots []schedule.Slot, start string) bool {
	for _, s := range slots {
		if s.Start.String() == start {
			return s.Available
		}
	}
	return false
}
