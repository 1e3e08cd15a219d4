package timegrid

import (
	"testing"
	"time"
)

func TestSlotsForDay(t *testing.T) {
	slots := SlotsForDay()

	if len(slots) != SlotCount {
		t.Fatalf("expected %d slots, got %d", SlotCount, len(slots))
	}
	if slots[0].Hour != StartHour || slots[0].TimeKey != "06:00" {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	last := slots[len(slots)-1]
	if last.Hour != EndHour-1 || last.TimeKey != "21:00" {
		t.Errorf("unexpected last slot: %+v", last)
	}

	// Slots must be consecutive and ordered
	for i, slot := range slots {
		if slot.Hour != StartHour+i {
			t.Errorf("slot %d: expected hour %d, got %d", i, StartHour+i, slot.Hour)
		}
	}
}

func TestTimeKey(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "06:00"},
		{9, "09:00"},
		{12, "12:00"},
		{21, "21:00"},
	}

	for _, tt := range tests {
		if got := TimeKey(tt.hour); got != tt.want {
			t.Errorf("TimeKey(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestParseTimeKey(t *testing.T) {
	// Bijective with TimeKey over the valid hour range
	for hour := StartHour; hour < EndHour; hour++ {
		got, err := ParseTimeKey(TimeKey(hour))
		if err != nil {
			t.Fatalf("ParseTimeKey(%q): %v", TimeKey(hour), err)
		}
		if got != hour {
			t.Errorf("round-trip failed: %d -> %q -> %d", hour, TimeKey(hour), got)
		}
	}

	for _, bad := range []string{"", "09", "09:30", "9am", "abc:00"} {
		if _, err := ParseTimeKey(bad); err == nil {
			t.Errorf("ParseTimeKey(%q): expected error", bad)
		}
	}
}

func TestDateKey(t *testing.T) {
	date := time.Date(2026, 2, 13, 15, 4, 5, 0, time.UTC)
	if got := DateKey(date); got != "2026-02-13" {
		t.Errorf("DateKey = %q, want 2026-02-13", got)
	}

	parsed, err := ParseDateKey("2026-02-13")
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if DateKey(parsed) != "2026-02-13" {
		t.Errorf("round-trip failed: got %q", DateKey(parsed))
	}

	if _, err := ParseDateKey("13/02/2026"); err == nil {
		t.Error("expected error for malformed date key")
	}
}

func TestIsPast(t *testing.T) {
	date := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)

	t.Run("slot stays bookable for its whole hour", func(t *testing.T) {
		// 09:30 — the 09:00 slot has started but is not past yet
		now := time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC)
		if IsPast(date, 9, now) {
			t.Error("slot 09:00 must not be past at 09:30")
		}
	})

	t.Run("boundary at exactly the next hour", func(t *testing.T) {
		// At exactly 10:00:00 the 09:00 slot is past, the 10:00 slot is not
		now := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
		if !IsPast(date, 9, now) {
			t.Error("slot 09:00 must be past at exactly 10:00:00")
		}
		if IsPast(date, 10, now) {
			t.Error("slot 10:00 must not be past at exactly 10:00:00")
		}
	})

	t.Run("previous day is always past", func(t *testing.T) {
		now := time.Date(2026, 2, 14, 6, 0, 0, 0, time.UTC)
		if !IsPast(date, 21, now) {
			t.Error("yesterday's slot must be past")
		}
	})

	t.Run("future day is never past", func(t *testing.T) {
		now := time.Date(2026, 2, 12, 23, 59, 0, 0, time.UTC)
		if IsPast(date, 6, now) {
			t.Error("tomorrow's slot must not be past")
		}
	})
}

func TestIsToday(t *testing.T) {
	now := time.Date(2026, 2, 13, 18, 0, 0, 0, time.UTC)

	if !IsToday(time.Date(2026, 2, 13, 6, 0, 0, 0, time.UTC), now) {
		t.Error("same date must be today")
	}
	if IsToday(time.Date(2026, 2, 14, 6, 0, 0, 0, time.UTC), now) {
		t.Error("next date must not be today")
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"wednesday", time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC), "2026-02-09"},
		{"monday stays", time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), "2026-02-09"},
		{"sunday goes back six days", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "2026-02-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(StartOfWeek(tt.date)); got != tt.want {
				t.Errorf("StartOfWeek(%s) = %s, want %s", DateKey(tt.date), got, tt.want)
			}
		})
	}
}

func TestWeekDays(t *testing.T) {
	start := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	days := WeekDays(start)

	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if DateKey(days[0]) != "2026-02-09" || DateKey(days[6]) != "2026-02-15" {
		t.Errorf("unexpected week range: %s .. %s", DateKey(days[0]), DateKey(days[6]))
	}
}
