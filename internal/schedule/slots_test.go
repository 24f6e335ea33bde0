package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var futureDay = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

// farNow is well before futureDay so the past filter never fires.
var farNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func mustHours(t *testing.T, raw RawHours) OperatingHours {
	t.Helper()
	hours, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return hours
}

func TestComputeCountLaw(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawHours
		duration int
		want     int
	}{
		// floor((closes - opens - duration) / granularity) + 1
		{name: "whole day 20min services", raw: RawHours{}, duration: 20, want: 30},
		{name: "whole day 30min services", raw: RawHours{}, duration: 30, want: 29},
		{name: "two hours of 30min", raw: RawHours{OpensAt: "10:00", ClosesAt: "12:00", SlotMinutes: 30}, duration: 30, want: 4},
		{name: "three hours of 60min", raw: RawHours{OpensAt: "09:00", ClosesAt: "12:00", SlotMinutes: 60}, duration: 60, want: 3},
		{name: "service longer than window", raw: RawHours{OpensAt: "10:00", ClosesAt: "11:00"}, duration: 90, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Compute(futureDay, mustHours(t, tt.raw), tt.duration, nil, farNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(slots) != tt.want {
				t.Errorf("got %d slots, want %d", len(slots), tt.want)
			}
		})
	}
}

func TestComputeClosingBoundary(t *testing.T) {
	hours := mustHours(t, RawHours{OpensAt: "09:00", ClosesAt: "19:00", SlotMinutes: 20})

	// A 600-minute service ends exactly at closing: only the opening slot fits.
	slots, err := Compute(futureDay, hours, 600, nil, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Start.String() != "09:00" || slots[0].End.String() != "19:00" {
		t.Fatalf("duration 600: got %+v, want single 09:00-19:00 slot", slots)
	}

	// One more minute pushes past closing: the slot is omitted, not flagged.
	slots, err = Compute(futureDay, hours, 601, nil, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("duration 601: got %d slots, want 0", len(slots))
	}
}

func TestComputeOrderedAndDeterministic(t *testing.T) {
	hours := mustHours(t, RawHours{LunchStart: "12:00", LunchEnd: "13:00"})
	occupied := []OccupiedInterval{
		{Start: 600, Minutes: 40},
		{Start: 580, Minutes: 40}, // overlapping inputs are tolerated
	}

	first, err := Compute(futureDay, hours, 40, occupied, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(first); i++ {
		if first[i].Start <= first[i-1].Start {
			t.Fatalf("slots not strictly ascending at %d: %s after %s",
				i, first[i].Start, first[i-1].Start)
		}
	}

	second, err := Compute(futureDay, hours, 40, occupied, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different slot lists")
	}
}

func TestComputeLunchBoundaries(t *testing.T) {
	hours := mustHours(t, RawHours{LunchStart: "12:00", LunchEnd: "13:00", SlotMinutes: 10})

	slots, err := Compute(futureDay, hours, 30, nil, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byStart := map[string]bool{}
	for _, s := range slots {
		byStart[s.Start.String()] = s.Available
	}

	tests := []struct {
		start string
		want  bool
	}{
		{start: "11:30", want: true},  // ends exactly at lunch start
		{start: "11:40", want: false}, // ends 12:10, inside lunch
		{start: "12:30", want: false}, // starts inside lunch
		{start: "13:00", want: true},  // starts exactly at lunch end
	}
	for _, tt := range tests {
		avail, ok := byStart[tt.start]
		if !ok {
			t.Fatalf("slot %s missing from candidate set", tt.start)
		}
		if avail != tt.want {
			t.Errorf("slot %s available = %v, want %v", tt.start, avail, tt.want)
		}
	}
}

func TestComputeOccupiedContainment(t *testing.T) {
	hours := mustHours(t, RawHours{SlotMinutes: 10})

	// Occupied 10:00-11:00 sits fully inside the 09:50-11:00 candidate.
	occupied := []OccupiedInterval{{Start: 600, Minutes: 60}}
	slots, err := Compute(futureDay, hours, 70, occupied, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail := slotAvailability(t, slots, "09:50"); avail {
		t.Error("candidate containing an occupied interval must be unavailable")
	}

	// Reverse containment: 20-minute candidate fully inside the occupied hour.
	slots, err = Compute(futureDay, hours, 20, occupied, farNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail := slotAvailability(t, slots, "10:20"); avail {
		t.Error("candidate inside an occupied interval must be unavailable")
	}
	// Touching boundaries stay bookable.
	if avail := slotAvailability(t, slots, "09:40"); !avail {
		t.Error("candidate ending exactly at the occupied start must be available")
	}
	if avail := slotAvailability(t, slots, "11:00"); !avail {
		t.Error("candidate starting exactly at the occupied end must be available")
	}
}

func slotAvailability(t *testing.T, slots []Slot, start string) bool {
	t.Helper()
	for _, s := range slots {
		if s.Start.String() == start {
			return s.Available
		}
	}
	t.Fatalf("slot %s missing from candidate set", start)
	return false
}

func TestComputePastOmissionSameDayOnly(t *testing.T) {
	hours := mustHours(t, RawHours{})
	now := time.Date(2026, 9, 14, 14, 5, 0, 0, time.UTC)

	slots, err := Compute(futureDay, hours, 20, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected afternoon slots")
	}
	// Slots starting at or before 14:05 are absent, not flagged.
	if slots[0].Start.String() != "14:20" {
		t.Errorf("first slot %s, want 14:20", slots[0].Start)
	}

	// A different day ignores now entirely.
	nextDay := futureDay.AddDate(0, 0, 1)
	slots, err = Compute(nextDay, hours, 20, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots[0].Start.String() != "09:00" {
		t.Errorf("future day first slot %s, want 09:00", slots[0].Start)
	}
}

func TestComputeRejects(t *testing.T) {
	hours := mustHours(t, RawHours{})

	if _, err := Compute(futureDay, hours, 0, nil, farNow); !errors.Is(err, ErrBadInterval) {
		t.Errorf("zero duration: want ErrBadInterval, got %v", err)
	}
	if _, err := Compute(futureDay, hours, -30, nil, farNow); !errors.Is(err, ErrBadInterval) {
		t.Errorf("negative duration: want ErrBadInterval, got %v", err)
	}

	bad := []OccupiedInterval{{Start: 600, Minutes: -10}}
	if _, err := Compute(futureDay, hours, 30, bad, farNow); !errors.Is(err, ErrBadInterval) {
		t.Errorf("negative interval: want ErrBadInterval, got %v", err)
	}
	outOfDay := []OccupiedInterval{{Start: 1500, Minutes: 30}}
	if _, err := Compute(futureDay, hours, 30, outOfDay, farNow); !errors.Is(err, ErrBadInterval) {
		t.Errorf("out-of-day interval: want ErrBadInterval, got %v", err)
	}
}

func TestAvailableOnly(t *testing.T) {
	slots := []Slot{
		{Start: 540, End: 570, Available: true},
		{Start: 560, End: 590, Available: false},
		{Start: 580, End: 610, Available: true},
	}
	got := AvailableOnly(slots)
	if len(got) != 2 || got[0].Start != 540 || got[1].Start != 580 {
		t.Errorf("got %+v", got)
	}
}
