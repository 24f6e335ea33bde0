// Package availability joins the store and the schedule engine: it fetches
// one day's configuration and occupancy and recomputes the slot list from
// scratch on every call. Results are advisory; the store's write-time
// conflict check is what actually prevents double-booking.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barbearia/internal/metrics"
	"barbearia/internal/model"
	"barbearia/internal/notify"
	"barbearia/internal/schedule"
)

// ErrUnknownService marks a request for a service the shop does not offer.
var ErrUnknownService = errors.New("unknown service")

// Store is the persistence the service reads from.
type Store interface {
	GetSettings(ctx context.Context) (*model.ShopSettings, error)
	ListDayBookings(ctx context.Context, barberID, date string) ([]model.Booking, error)
	ListDayBlocks(ctx context.Context, barberID, date string) ([]model.BlockedRange, error)
	ServiceDurations(ctx context.Context, ids []string) (map[string]int, error)
}

// Service computes day schedules. Raw occupancy rows may be cached in Redis
// per (barber, day); slot lists never are, so each call recomputes the
// pipeline from inputs.
type Service struct {
	store    Store
	rdb      *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates the availability service. rdb may be nil to disable caching.
func New(store Store, rdb *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "availability").Logger(),
		now:      time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register hooks the service onto the change feed: any occupancy change
// drops the matching day cache, so the next call refetches and recomputes.
func (s *Service) Register(bus *notify.Bus) {
	drop := func(inv notify.Invalidation) {
		s.dropOccupancy(context.Background(), inv.BarberID, inv.Date)
	}
	bus.Subscribe(notify.KindBookings, drop)
	bus.Subscribe(notify.KindBlocks, drop)
}

// occupancy is the raw per-day unavailability snapshot, cache-serializable.
type occupancy struct {
	Bookings []schedule.BookingRow `json:"bookings"`
	Blocks   []schedule.BlockRow   `json:"blocks"`
}

// DaySlots computes the slot list for one barber, one "YYYY-MM-DD" day and a
// set of selected services. A closed shop or a non-working day yields an
// empty list.
func (s *Service) DaySlots(ctx context.Context, barberID, date string, serviceIDs []string) ([]schedule.Slot, error) {
	if len(serviceIDs) == 0 {
		return nil, fmt.Errorf("%w: no services selected", schedule.ErrBadInterval)
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	now := s.now()
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}

	if !settings.Open || !settings.WorksOn(day.Weekday()) {
		return nil, nil
	}

	hours, err := schedule.Normalize(schedule.RawHours{
		OpensAt:     settings.OpensAt,
		ClosesAt:    settings.ClosesAt,
		LunchStart:  settings.LunchStart,
		LunchEnd:    settings.LunchEnd,
		SlotMinutes: settings.SlotMinutes,
	})
	if err != nil {
		return nil, err
	}

	serviceMinutes, err := s.totalDuration(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	occ, err := s.dayOccupancy(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	durations, err := s.bookingDurations(ctx, occ.Bookings)
	if err != nil {
		return nil, err
	}

	occupied, fallbacks, err := schedule.CollectOccupied(occ.Bookings, occ.Blocks, hours.SlotMinutes, durations)
	if err != nil {
		return nil, err
	}
	if fallbacks > 0 {
		metrics.AddDurationFallbacks(fallbacks)
		s.logger.Warn().
			Int("count", fallbacks).
			Str("barber_id", barberID).
			Str("date", date).
			Msg("bookings with unresolved service duration")
	}

	slots, err := schedule.Compute(day, hours, serviceMinutes, occupied, now)
	if err != nil {
		return nil, err
	}
	metrics.IncAvailabilityComputed()
	return slots, nil
}

func (s *Service) totalDuration(ctx context.Context, serviceIDs []string) (int, error) {
	durations, err := s.store.ServiceDurations(ctx, serviceIDs)
	if err != nil {
		return 0, fmt.Errorf("resolve services: %w", err)
	}
	total := 0
	for _, id := range serviceIDs {
		minutes, ok := durations[id]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownService, id)
		}
		total += minutes
	}
	return total, nil
}

// bookingDurations resolves service lengths for the day's bookings. Missing
// services are left absent; the collector applies its fallback and reports.
func (s *Service) bookingDurations(ctx context.Context, bookings []schedule.BookingRow) (map[string]int, error) {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.ServiceID] {
			seen[b.ServiceID] = true
			ids = append(ids, b.ServiceID)
		}
	}
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	durations, err := s.store.ServiceDurations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve booking services: %w", err)
	}
	return durations, nil
}

func occupancyKey(barberID, date string) string {
	return fmt.Sprintf("occupancy:%s:%s", barberID, date)
}

func (s *Service) dayOccupancy(ctx context.Context, barberID, date string) (*occupancy, error) {
	key := occupancyKey(barberID, date)

	if cached := s.readCache(ctx, key); cached != nil {
		return cached, nil
	}

	bookings, err := s.store.ListDayBookings(ctx, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	blocks, err := s.store.ListDayBlocks(ctx, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	occ := &occupancy{}
	for _, b := range bookings {
		occ.Bookings = append(occ.Bookings, schedule.BookingRow{
			StartTime: b.StartTime,
			ServiceID: b.ServiceID,
			Status:    b.Status,
		})
	}
	for _, blk := range blocks {
		occ.Blocks = append(occ.Blocks, schedule.BlockRow{
			StartTime: blk.StartTime,
			EndTime:   blk.EndTime,
		})
	}

	s.writeCache(ctx, key, occ)
	return occ, nil
}

func (s *Service) readCache(ctx context.Context, key string) *occupancy {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return nil
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var occ occupancy
	if err := json.Unmarshal([]byte(val), &occ); err != nil {
		return nil
	}
	return &occ
}

func (s *Service) writeCache(ctx context.Context, key string, occ *occupancy) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(occ)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *Service) dropOccupancy(ctx context.Context, barberID, date string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, occupancyKey(barberID, date)).Err(); err != nil {
		s.logger.Debug().Err(err).Msg("cache drop failed")
	}
}
