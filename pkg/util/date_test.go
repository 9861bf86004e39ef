package util

import (
	"testing"
	"time"
)

func TestDayTruncates(t *testing.T) {
	in := time.Date(2025, 3, 14, 18, 45, 12, 999, time.FixedZone("ICT", 7*3600))
	got := Day(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("not truncated to UTC midnight: %v", got)
	}
	if FormatDay(got) != "2025-03-14" {
		t.Fatalf("unexpected day %s", FormatDay(got))
	}
}

func TestParseDayRoundTrip(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDay(got) != "2024-10-10" {
		t.Fatalf("unexpected day %s", FormatDay(got))
	}
	if _, ok := ParseDay("not-a-date"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestClamps(t *testing.T) {
	if ClampInt(25, 1, 20) != 20 {
		t.Fatalf("expected upper clamp")
	}
	if ClampInt(0, 1, 20) != 1 {
		t.Fatalf("expected lower clamp")
	}
	if ClampFloat(500, 1000, 250000) != 1000 {
		t.Fatalf("expected lower clamp")
	}
}

func TestRound2(t *testing.T) {
	if Round2(1.005) < 1.0 || Round2(1.005) > 1.01 {
		t.Fatalf("unexpected rounding %v", Round2(1.005))
	}
	if Round2(-2.345) != -2.35 && Round2(-2.345) != -2.34 {
		t.Fatalf("unexpected rounding %v", Round2(-2.345))
	}
}
