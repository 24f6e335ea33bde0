package schedule

import (
	"fmt"
	"time"
)

// Slot is a candidate appointment start of fixed granularity within business
// hours, with its availability decided.
type Slot struct {
	Start     TimeOfDay
	End       TimeOfDay
	Available bool
}

// SlotInfo is the wire representation of a slot.
type SlotInfo struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Compute returns the ordered slots of one calendar day for a service of the
// given total length, marking each slot unavailable when it overlaps the
// lunch window or any occupied interval (half-open semantics: touching
// boundaries do not conflict).
//
// Two kinds of candidate never appear at all: slots whose service would end
// after closing, and, when day is now's calendar day, slots starting at or
// before now. The result is strictly ascending by start time and fully
// determined by the inputs.
//
// Availability is advisory. Nothing here reserves a slot; two clients can
// race for the same start time and the store's write-time conflict check is
// the authority.
func Compute(day time.Time, hours OperatingHours, serviceMinutes int, occupied []OccupiedInterval, now time.Time) ([]Slot, error) {
	if serviceMinutes <= 0 {
		return nil, fmt.Errorf("%w: service duration %d minutes", ErrBadInterval, serviceMinutes)
	}
	if hours.SlotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot step %d minutes", ErrBadConfig, hours.SlotMinutes)
	}
	for _, occ := range occupied {
		if err := occ.validate(); err != nil {
			return nil, err
		}
	}

	sameDay := day.Year() == now.Year() && day.YearDay() == now.YearDay()

	var slots []Slot
	for cur := hours.OpensAt; cur < hours.ClosesAt; cur = cur.Add(hours.SlotMinutes) {
		end := cur.Add(serviceMinutes)
		if end > hours.ClosesAt {
			continue
		}

		if sameDay {
			moment := time.Date(day.Year(), day.Month(), day.Day(), int(cur)/60, int(cur)%60, 0, 0, now.Location())
			if !moment.After(now) {
				continue
			}
		}

		available := true
		if hours.HasLunch && overlaps(cur, end, hours.LunchStart, hours.LunchEnd) {
			available = false
		}
		if available {
			for _, occ := range occupied {
				if overlaps(cur, end, occ.Start, occ.Start.Add(occ.Minutes)) {
					available = false
					break
				}
			}
		}

		slots = append(slots, Slot{Start: cur, End: end, Available: available})
	}

	return slots, nil
}

// ToSlotInfo converts slots for transport.
func ToSlotInfo(slots []Slot) []SlotInfo {
	result := make([]SlotInfo, len(slots))
	for i, s := range slots {
		result[i] = SlotInfo{
			Start:     s.Start.String(),
			End:       s.End.String(),
			Available: s.Available,
		}
	}
	return result
}

// AvailableOnly filters to the slots still bookable.
func AvailableOnly(slots []Slot) []Slot {
	var available []Slot
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}
	return available
}
