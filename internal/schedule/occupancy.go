package schedule

import "fmt"

// FallbackServiceMinutes is assumed for a booking whose service record cannot
// be resolved. Callers must surface the fallback count; it signals data drift.
const FallbackServiceMinutes = 30

// Booking statuses that keep a slot occupied. Cancelled and no-show bookings
// free their slot immediately and unconditionally.
var occupyingStatuses = map[string]bool{
	"pending":   true,
	"confirmed": true,
}

// OccupiedInterval is a committed time range on the day: a booking or a piece
// of a manual block.
type OccupiedInterval struct {
	Start   TimeOfDay
	Minutes int
}

func (o OccupiedInterval) validate() error {
	if !o.Start.Valid() {
		return fmt.Errorf("%w: start %d out of day", ErrBadInterval, int(o.Start))
	}
	if o.Minutes <= 0 {
		return fmt.Errorf("%w: duration %d minutes", ErrBadInterval, o.Minutes)
	}
	return nil
}

// BookingRow is a booking as fetched for one day: start time, the linked
// service, and the booking status.
type BookingRow struct {
	StartTime string
	ServiceID string
	Status    string
}

// BlockRow is a manually blocked range for one day.
type BlockRow struct {
	StartTime string
	EndTime   string
}

// CollectOccupied merges one day's bookings and blocks into occupied
// intervals. Intervals may overlap each other; downstream treats the result
// as a set. The durations map resolves a service ID to its length in
// minutes; unresolved services fall back to FallbackServiceMinutes and are
// counted in fallbacks. Blocks longer than one granularity step are split
// into step-sized pieces (last one truncated) so the overlap test downstream
// works on uniform units.
func CollectOccupied(bookings []BookingRow, blocks []BlockRow, granularity int, durations map[string]int) ([]OccupiedInterval, int, error) {
	if granularity <= 0 {
		return nil, 0, fmt.Errorf("%w: granularity %d", ErrBadConfig, granularity)
	}

	occupied := make([]OccupiedInterval, 0, len(bookings)+len(blocks))
	fallbacks := 0

	for _, b := range bookings {
		if !occupyingStatuses[b.Status] {
			continue
		}
		start, err := ParseTimeOfDay(b.StartTime)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: booking start: %v", ErrBadInterval, err)
		}
		minutes, ok := durations[b.ServiceID]
		if !ok || minutes <= 0 {
			minutes = FallbackServiceMinutes
			fallbacks++
		}
		occupied = append(occupied, OccupiedInterval{Start: start, Minutes: minutes})
	}

	for _, blk := range blocks {
		start, err := ParseTimeOfDay(blk.StartTime)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: block start: %v", ErrBadInterval, err)
		}
		end, err := ParseTimeOfDay(blk.EndTime)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: block end: %v", ErrBadInterval, err)
		}
		if end <= start {
			return nil, 0, fmt.Errorf("%w: block %s-%s", ErrBadInterval, start, end)
		}
		for cur := start; cur < end; cur = cur.Add(granularity) {
			minutes := granularity
			if remaining := int(end - cur); remaining < minutes {
				minutes = remaining
			}
			occupied = append(occupied, OccupiedInterval{Start: cur, Minutes: minutes})
		}
	}

	return occupied, fallbacks, nil
}
