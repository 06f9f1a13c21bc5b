package reports

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = []struct {
	Key   string
	Label string
	Day   time.Weekday
}{
	{"monday", "Понедельник", time.Monday},
	{"tuesday", "Вторник", time.Tuesday},
	{"wednesday", "Среда", time.Wednesday},
	{"thursday", "Четверг", time.Thursday},
	{"friday", "Пятница", time.Friday},
	{"saturday", "Суббота", time.Saturday},
	{"sunday", "Воскресенье", time.Sunday},
}

const defaultWeekday = "monday"

func weekdayKeys() []string {
	out := make([]string, len(weekdays))
	for i, w := range weekdays {
		out[i] = w.Key
	}
	return out
}

// WeekdayOption pairs a weekday key with its label.
type WeekdayOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// WeekdayOptions lists the weekdays offered for weekly reports, Monday first.
func WeekdayOptions() []WeekdayOption {
	out := make([]WeekdayOption, len(weekdays))
	for i, w := range weekdays {
		out[i] = WeekdayOption{Key: w.Key, Label: w.Label}
	}
	return out
}

// HourOptions lists the delivery times offered by the scheduler, 00:00 through 23:00.
func HourOptions() []string {
	out := make([]string, 24)
	for h := range out {
		out[h] = fmt.Sprintf("%02d:00", h)
	}
	return out
}

// Describe renders the human description of when a report will be delivered.
func Describe(cfg Config) string {
	at := cfg.Time
	if at == "" {
		at = DefaultConfig().Time
	}
	switch cfg.Period {
	case PeriodDaily:
		return fmt.Sprintf("Отчет будет отправляться каждый день в %s", at)
	case PeriodMonthly:
		return fmt.Sprintf("Отчет будет отправляться каждый месяц %d числа в %s", dayOfMonth(cfg), at)
	default:
		label := weekdayLabel(cfg.Weekday)
		return fmt.Sprintf("Отчет будет отправляться каждую неделю в %s в %s", strings.ToLower(label), at)
	}
}

// WireTime converts HH:MM into the HH:MM:SS form the backend stores.
func WireTime(hhmm string) string {
	hhmm = strings.TrimSpace(hhmm)
	if strings.Count(hhmm, ":") >= 2 {
		return hhmm
	}
	return hhmm + ":00"
}

// NextRun computes the next delivery instant strictly after now, in now's location.
func NextRun(cfg Config, now time.Time) (time.Time, error) {
	at := cfg.Time
	if at == "" {
		at = DefaultConfig().Time
	}
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, fmt.Errorf("reports: parse time %q: %w", at, err)
	}
	loc := now.Location()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)

	switch cfg.Period {
	case PeriodDaily:
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, nil
	case PeriodMonthly:
		day := dayOfMonth(cfg)
		for i := 0; i < 24; i++ {
			month := time.Date(now.Year(), now.Month()+time.Month(i), 1, clock.Hour(), clock.Minute(), 0, 0, loc)
			if day > daysIn(month) {
				continue
			}
			candidate = month.AddDate(0, 0, day-1)
			if candidate.After(now) {
				return candidate, nil
			}
		}
		return time.Time{}, fmt.Errorf("reports: no run found for day %d", day)
	default:
		target := weekdayOf(cfg.Weekday)
		offset := (int(target) - int(now.Weekday()) + 7) % 7
		candidate = candidate.AddDate(0, 0, offset)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, nil
	}
}

func dayOfMonth(cfg Config) int {
	if cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31 {
		return 1
	}
	return cfg.DayOfMonth
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location()).Day()
}

func weekdayLabel(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, w := range weekdays {
		if w.Key == key {
			return w.Label
		}
	}
	return weekdays[0].Label
}

func weekdayOf(key string) time.Weekday {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = defaultWeekday
	}
	for _, w := range weekdays {
		if w.Key == key {
			return w.Day
		}
	}
	return time.Monday
}
