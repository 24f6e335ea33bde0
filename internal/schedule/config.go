package schedule

import "fmt"

// Canonical defaults applied when the raw configuration omits a field. The
// original shop data has two historical defaults for opening time and
// granularity; 09:00-19:00 with 20-minute steps is the single source of truth
// here, and callers override per call when they need to.
const (
	DefaultOpensAt     = "09:00"
	DefaultClosesAt    = "19:00"
	DefaultSlotMinutes = 20
)

// RawHours is the operating-hours record as stored: any field may be empty,
// time fields may carry a trailing seconds component.
type RawHours struct {
	OpensAt     string
	ClosesAt    string
	LunchStart  string
	LunchEnd    string
	SlotMinutes int
}

// OperatingHours is the validated configuration the engine runs on.
// Immutable once built.
type OperatingHours struct {
	OpensAt     TimeOfDay
	ClosesAt    TimeOfDay
	LunchStart  TimeOfDay
	LunchEnd    TimeOfDay
	HasLunch    bool
	SlotMinutes int
}

// Normalize builds OperatingHours from a raw record, filling defaults for
// absent fields. Malformed input fails with ErrBadConfig; nothing is silently
// repaired. Normalizing an already-normalized configuration is the identity.
func Normalize(raw RawHours) (OperatingHours, error) {
	var hours OperatingHours

	if raw.OpensAt == "" {
		raw.OpensAt = DefaultOpensAt
	}
	if raw.ClosesAt == "" {
		raw.ClosesAt = DefaultClosesAt
	}

	var err error
	if hours.OpensAt, err = ParseTimeOfDay(raw.OpensAt); err != nil {
		return OperatingHours{}, fmt.Errorf("%w: opens_at: %v", ErrBadConfig, err)
	}
	if hours.ClosesAt, err = ParseTimeOfDay(raw.ClosesAt); err != nil {
		return OperatingHours{}, fmt.Errorf("%w: closes_at: %v", ErrBadConfig, err)
	}
	if hours.OpensAt >= hours.ClosesAt {
		return OperatingHours{}, fmt.Errorf("%w: opens %s not before closes %s",
			ErrBadConfig, hours.OpensAt, hours.ClosesAt)
	}

	switch {
	case raw.LunchStart == "" && raw.LunchEnd == "":
		// no lunch window
	case raw.LunchStart == "" || raw.LunchEnd == "":
		return OperatingHours{}, fmt.Errorf("%w: lunch window needs both bounds", ErrBadConfig)
	default:
		if hours.LunchStart, err = ParseTimeOfDay(raw.LunchStart); err != nil {
			return OperatingHours{}, fmt.Errorf("%w: lunch_start: %v", ErrBadConfig, err)
		}
		if hours.LunchEnd, err = ParseTimeOfDay(raw.LunchEnd); err != nil {
			return OperatingHours{}, fmt.Errorf("%w: lunch_end: %v", ErrBadConfig, err)
		}
		if hours.LunchStart >= hours.LunchEnd {
			return OperatingHours{}, fmt.Errorf("%w: lunch %s not before %s",
				ErrBadConfig, hours.LunchStart, hours.LunchEnd)
		}
		if hours.LunchStart < hours.OpensAt || hours.LunchEnd > hours.ClosesAt {
			return OperatingHours{}, fmt.Errorf("%w: lunch %s-%s outside %s-%s",
				ErrBadConfig, hours.LunchStart, hours.LunchEnd, hours.OpensAt, hours.ClosesAt)
		}
		hours.HasLunch = true
	}

	hours.SlotMinutes = raw.SlotMinutes
	if hours.SlotMinutes == 0 {
		hours.SlotMinutes = DefaultSlotMinutes
	}
	if hours.SlotMinutes < 0 {
		return OperatingHours{}, fmt.Errorf("%w: slot step %d minutes", ErrBadConfig, hours.SlotMinutes)
	}

	return hours, nil
}

// Raw converts back to the storage representation. Normalize(h.Raw()) == h.
func (h OperatingHours) Raw() RawHours {
	raw := RawHours{
		OpensAt:     h.OpensAt.String(),
		ClosesAt:    h.ClosesAt.String(),
		SlotMinutes: h.SlotMinutes,
	}
	if h.HasLunch {
		raw.LunchStart = h.LunchStart.String()
		raw.LunchEnd = h.LunchEnd.String()
	}
	return raw
}
