package dashboard

import (
	"fmt"
	"strings"
	"time"
)

const (
	// APIDateLayout is the date format the backend expects.
	APIDateLayout = "2006-01-02"
	// DisplayDateLayout is the date format shown to users.
	DisplayDateLayout = "02.01.2006"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// APIFrom returns the start day in backend format.
func (r DateRange) APIFrom() string { return r.From.Format(APIDateLayout) }

// APITo returns the end day in backend format.
func (r DateRange) APITo() string { return r.To.Format(APIDateLayout) }

// Label renders the range for display, collapsing single-day ranges.
func (r DateRange) Label() string {
	from := r.From.Format(DisplayDateLayout)
	to := r.To.Format(DisplayDateLayout)
	if from == to {
		return from
	}
	return from + " - " + to
}

// StatsCacheKey is the key aggregated statistics are cached under.
func (r DateRange) StatsCacheKey() string {
	return fmt.Sprintf("stats_%s_%s", r.APIFrom(), r.APITo())
}

// ParseDateRange reads a range in backend format. A blank input falls back to the last seven days.
func ParseDateRange(from, to string, now time.Time) (DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return PresetRange(PresetLast7Days, now), nil
	}
	start, err := time.ParseInLocation(APIDateLayout, from, now.Location())
	if err != nil {
		return DateRange{}, fmt.Errorf("dashboard: parse date_from %q: %w", from, err)
	}
	end := day(now)
	if to != "" {
		end, err = time.ParseInLocation(APIDateLayout, to, now.Location())
		if err != nil {
			return DateRange{}, fmt.Errorf("dashboard: parse date_to %q: %w", to, err)
		}
	}
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{From: start, To: end}, nil
}

// Preset identifies one of the quick range shortcuts.
type Preset string

const (
	PresetToday      Preset = "today"
	PresetYesterday  Preset = "yesterday"
	PresetLast7Days  Preset = "last_7_days"
	PresetLast14Days Preset = "last_14_days"
	PresetLast30Days Preset = "last_30_days"
	PresetThisWeek   Preset = "this_week"
	PresetLastWeek   Preset = "last_week"
	PresetThisMonth  Preset = "this_month"
	PresetLastMonth  Preset = "last_month"
)

// PresetOption pairs a preset with its label and the range it resolves to.
type PresetOption struct {
	Preset Preset    `json:"preset"`
	Label  string    `json:"label"`
	Range  DateRange `json:"range"`
}

var presetLabels = []struct {
	preset Preset
	label  string
}{
	{PresetToday, "Сегодня"},
	{PresetYesterday, "Вчера"},
	{PresetLast7Days, "Последние 7 дней"},
	{PresetLast14Days, "Последние 14 дней"},
	{PresetLast30Days, "Последние 30 дней"},
	{PresetThisWeek, "Эта неделя"},
	{PresetLastWeek, "Последняя неделя"},
	{PresetThisMonth, "Этот месяц"},
	{PresetLastMonth, "Последний месяц"},
}

// Presets resolves every shortcut relative to now.
func Presets(now time.Time) []PresetOption {
	out := make([]PresetOption, len(presetLabels))
	for i, p := range presetLabels {
		out[i] = PresetOption{Preset: p.preset, Label: p.label, Range: PresetRange(p.preset, now)}
	}
	return out
}

// PresetRange resolves a shortcut relative to now. Weeks start on Monday.
// Unknown presets resolve to the last seven days.
func PresetRange(p Preset, now time.Time) DateRange {
	today := day(now)
	switch p {
	case PresetToday:
		return DateRange{From: today, To: today}
	case PresetYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{From: y, To: y}
	case PresetLast14Days:
		return DateRange{From: today.AddDate(0, 0, -14), To: today}
	case PresetLast30Days:
		return DateRange{From: today.AddDate(0, 0, -30), To: today}
	case PresetThisWeek:
		return DateRange{From: weekStart(today), To: today}
	case PresetLastWeek:
		start := weekStart(today).AddDate(0, 0, -7)
		return DateRange{From: start, To: start.AddDate(0, 0, 6)}
	case PresetThisMonth:
		return DateRange{From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), To: today}
	case PresetLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{From: first.AddDate(0, -1, 0), To: first.AddDate(0, 0, -1)}
	default:
		return DateRange{From: today.AddDate(0, 0, -7), To: today}
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
