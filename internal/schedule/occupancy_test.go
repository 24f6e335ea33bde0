package schedule

import (
	"errors"
	"testing"
)

func TestCollectOccupiedBookings(t *testing.T) {
	durations := map[string]int{"cut": 30, "beard": 20}

	bookings := []BookingRow{
		{StartTime: "09:00", ServiceID: "cut", Status: "confirmed"},
		{StartTime: "10:00", ServiceID: "beard", Status: "pending"},
		{StartTime: "11:00", ServiceID: "cut", Status: "cancelled"},
		{StartTime: "12:00", ServiceID: "cut", Status: "no_show"},
	}

	occupied, fallbacks, err := CollectOccupied(bookings, nil, 20, durations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallbacks != 0 {
		t.Errorf("fallbacks = %d, want 0", fallbacks)
	}
	// Cancelled and no-show bookings free their slot entirely.
	if len(occupied) != 2 {
		t.Fatalf("got %d intervals, want 2", len(occupied))
	}
	if occupied[0].Start.String() != "09:00" || occupied[0].Minutes != 30 {
		t.Errorf("first interval %s/%d", occupied[0].Start, occupied[0].Minutes)
	}
	if occupied[1].Start.String() != "10:00" || occupied[1].Minutes != 20 {
		t.Errorf("second interval %s/%d", occupied[1].Start, occupied[1].Minutes)
	}
}

func TestCollectOccupiedDurationFallback(t *testing.T) {
	bookings := []BookingRow{
		{StartTime: "09:00", ServiceID: "ghost", Status: "confirmed"},
	}

	occupied, fallbacks, err := CollectOccupied(bookings, nil, 20, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", fallbacks)
	}
	if occupied[0].Minutes != FallbackServiceMinutes {
		t.Errorf("fallback duration %d, want %d", occupied[0].Minutes, FallbackServiceMinutes)
	}
}

func TestCollectOccupiedBlockSubdivision(t *testing.T) {
	blocks := []BlockRow{{StartTime: "14:00", EndTime: "15:10"}}

	occupied, _, err := CollectOccupied(nil, blocks, 20, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 70 minutes at granularity 20: three full pieces plus a 10-minute tail.
	want := []OccupiedInterval{
		{Start: 14 * 60, Minutes: 20},
		{Start: 14*60 + 20, Minutes: 20},
		{Start: 14*60 + 40, Minutes: 20},
		{Start: 15 * 60, Minutes: 10},
	}
	if len(occupied) != len(want) {
		t.Fatalf("got %d pieces, want %d", len(occupied), len(want))
	}
	for i, w := range want {
		if occupied[i] != w {
			t.Errorf("piece %d = %+v, want %+v", i, occupied[i], w)
		}
	}
}

func TestCollectOccupiedShortBlock(t *testing.T) {
	blocks := []BlockRow{{StartTime: "14:00", EndTime: "14:15"}}

	occupied, _, err := CollectOccupied(nil, blocks, 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occupied) != 1 || occupied[0].Minutes != 15 {
		t.Fatalf("got %+v, want single 15-minute piece", occupied)
	}
}

func TestCollectOccupiedRejects(t *testing.T) {
	tests := []struct {
		name     string
		bookings []BookingRow
		blocks   []BlockRow
		wantErr  error
	}{
		{
			name:     "bad booking time",
			bookings: []BookingRow{{StartTime: "25:00", Status: "confirmed"}},
			wantErr:  ErrBadInterval,
		},
		{
			name:    "inverted block",
			blocks:  []BlockRow{{StartTime: "15:00", EndTime: "14:00"}},
			wantErr: ErrBadInterval,
		},
		{
			name:    "empty block",
			blocks:  []BlockRow{{StartTime: "15:00", EndTime: "15:00"}},
			wantErr: ErrBadInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CollectOccupied(tt.bookings, tt.blocks, 20, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, _, err := CollectOccupied(nil, nil, 0, nil); !errors.Is(err, ErrBadConfig) {
		t.Errorf("zero granularity: want ErrBadConfig, got %v", err)
	}
}
