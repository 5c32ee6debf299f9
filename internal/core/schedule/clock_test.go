package schedule

import "testing"

func TestClockMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"23:59", 1439},
		{" 09:30 ", 570},
		// 不正値はどの正常値よりも後と判定されない 0 に縮退する。
		{"", 0},
		{"9", 0},
		{"24:00", 0},
		{"12:60", 0},
		{"ab:cd", 0},
		{"garbled", 0},
	}

	for _, tc := range cases {
		if got := clockMinutes(tc.in); got != tc.want {
			t.Fatalf("clockMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestValidClock(t *testing.T) {
	t.Parallel()

	valid := []string{"00:00", "09:05", "23:59"}
	for _, v := range valid {
		if !validClock(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "9:0x", "24:00", "12:60", "noon"}
	for _, v := range invalid {
		if validClock(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestShiftDurationHours(t *testing.T) {
	t.Parallel()

	s := &ShiftSlot{StartTime: "09:00", EndTime: "17:30"}
	if got := s.DurationHours(); got != 8.5 {
		t.Fatalf("expected 8.5 hours, got %v", got)
	}

	broken := &ShiftSlot{StartTime: "bad", EndTime: "17:00"}
	if got := broken.DurationHours(); got != 17 {
		t.Fatalf("malformed start degrades to 0, expected 17 hours, got %v", got)
	}

	inverted := &ShiftSlot{StartTime: "17:00", EndTime: "09:00"}
	if got := inverted.DurationHours(); got != 0 {
		t.Fatalf("inverted range must yield 0 hours, got %v", got)
	}
}
