package dashboard

import (
	"testing"
	"time"
)

// 2024-03-13 is a Wednesday.
var rangeNow = time.Date(2024, 3, 13, 15, 4, 5, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPresetRange(t *testing.T) {
	cases := []struct {
		preset   Preset
		from, to time.Time
	}{
		{PresetToday, date(2024, 3, 13), date(2024, 3, 13)},
		{PresetYesterday, date(2024, 3, 12), date(2024, 3, 12)},
		{PresetLast7Days, date(2024, 3, 6), date(2024, 3, 13)},
		{PresetLast14Days, date(2024, 2, 28), date(2024, 3, 13)},
		{PresetLast30Days, date(2024, 2, 12), date(2024, 3, 13)},
		{PresetThisWeek, date(2024, 3, 11), date(2024, 3, 13)},
		{PresetLastWeek, date(2024, 3, 4), date(2024, 3, 10)},
		{PresetThisMonth, date(2024, 3, 1), date(2024, 3, 13)},
		{PresetLastMonth, date(2024, 2, 1), date(2024, 2, 29)},
	}
	for _, tc := range cases {
		got := PresetRange(tc.preset, rangeNow)
		if !got.From.Equal(tc.from) || !got.To.Equal(tc.to) {
			t.Fatalf("%s: expected %s..%s, got %s..%s", tc.preset, tc.from, tc.to, got.From, got.To)
		}
	}
}

func TestThisWeekOnSundayStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC)
	got := PresetRange(PresetThisWeek, sunday)
	if !got.From.Equal(date(2024, 3, 11)) {
		t.Fatalf("expected monday start, got %s", got.From)
	}
}

func TestDateRangeFormats(t *testing.T) {
	r := DateRange{From: date(2024, 3, 6), To: date(2024, 3, 13)}
	if r.APIFrom() != "2024-03-06" || r.APITo() != "2024-03-13" {
		t.Fatalf("unexpected api format %s %s", r.APIFrom(), r.APITo())
	}
	if r.Label() != "06.03.2024 - 13.03.2024" {
		t.Fatalf("unexpected label %q", r.Label())
	}
	if r.StatsCacheKey() != "stats_2024-03-06_2024-03-13" {
		t.Fatalf("unexpected cache key %q", r.StatsCacheKey())
	}
	single := DateRange{From: date(2024, 3, 6), To: date(2024, 3, 6)}
	if single.Label() != "06.03.2024" {
		t.Fatalf("expected collapsed label, got %q", single.Label())
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-03-10", "2024-03-01", rangeNow)
	if err != nil {
		t.Fatalf("ParseDateRange returned error: %v", err)
	}
	if r.APIFrom() != "2024-03-01" || r.APITo() != "2024-03-10" {
		t.Fatalf("expected swapped range, got %s..%s", r.APIFrom(), r.APITo())
	}

	r, err = ParseDateRange("", "", rangeNow)
	if err != nil || r.APIFrom() != "2024-03-06" {
		t.Fatalf("expected default range, got %v %v", r, err)
	}

	if _, err := ParseDateRange("13.03.2024", "", rangeNow); err == nil {
		t.Fatalf("expected parse error for display format")
	}
}

func TestPresetsListsEveryShortcut(t *testing.T) {
	presets := Presets(rangeNow)
	if len(presets) != 9 || presets[0].Label != "Сегодня" || presets[8].Label != "Последний месяц" {
		t.Fatalf("unexpected presets %#v", presets)
	}
}
