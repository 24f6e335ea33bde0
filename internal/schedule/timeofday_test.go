package schedule

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "09:00:00", want: 540}, // trailing seconds dropped
		{in: "19:30", want: 1170},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "0900", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "12:30", "23:59"} {
		parsed, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if parsed.String() != s {
			t.Errorf("round trip %q -> %q", s, parsed.String())
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     TimeOfDay
		want                           bool
	}{
		{name: "disjoint", aStart: 540, aEnd: 570, bStart: 600, bEnd: 630, want: false},
		{name: "touching end to start", aStart: 540, aEnd: 600, bStart: 600, bEnd: 660, want: false},
		{name: "touching start to end", aStart: 600, aEnd: 660, bStart: 540, bEnd: 600, want: false},
		{name: "partial", aStart: 540, aEnd: 610, bStart: 600, bEnd: 660, want: true},
		{name: "a contains b", aStart: 500, aEnd: 700, bStart: 540, bEnd: 600, want: true},
		{name: "b contains a", aStart: 540, aEnd: 600, bStart: 500, bEnd: 700, want: true},
		{name: "identical", aStart: 540, aEnd: 600, bStart: 540, bEnd: 600, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}
