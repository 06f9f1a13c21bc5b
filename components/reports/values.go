package reports

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	weekdayShort = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	weekdayFull  = []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

	// weeklyFractions spreads a period total over the days of the sample week.
	weeklyFractions = []float64{0.12, 0.15, 0.13, 0.16, 0.17, 0.19, 0.08}

	sampleSeries = map[Metric][]float64{
		MetricViews:     {1200, 1450, 1350, 1580, 1720, 1890, 1650},
		MetricContacts:  {85, 92, 78, 105, 118, 135, 124},
		MetricFavorites: {45, 52, 38, 65, 72, 89, 76},
	}

	previewFormatted = map[Metric]string{
		MetricViews:          "10,847",
		MetricContacts:       "737",
		MetricFavorites:      "437",
		MetricConversion:     "6.8%",
		MetricActiveListings: "0",
	}
)

const noValue = "—"

// PieSlice is one fixed segment of the distribution chart.
type PieSlice struct {
	Name  string
	Value float64
	Color string
}

var distribution = []PieSlice{
	{Name: "Просмотры", Value: 35, Color: "#3b82f6"},
	{Name: "Контакты", Value: 25, Color: "#10b981"},
	{Name: "Избранное", Value: 20, Color: "#f59e0b"},
	{Name: "Конверсия", Value: 20, Color: "#ef4444"},
}

// Distribution returns the metric distribution shown by pie charts.
func Distribution() []PieSlice {
	return append([]PieSlice(nil), distribution...)
}

// WeeklySeries holds per-day values for the metrics that have a daily breakdown.
type WeeklySeries struct {
	Labels []string
	Values map[Metric][]float64
}

// MetricStats summarizes a weekly series for the detailed layout.
type MetricStats struct {
	Change  string
	Average string
	BestDay string
}

// Values is everything a layout needs to fill metric cards and charts.
type Values struct {
	Formatted map[Metric]string
	Series    WeeklySeries
	Stats     map[Metric]MetricStats
}

// Value returns the formatted value for a metric, "0" when unknown.
func (v Values) Value(m Metric) string {
	if s, ok := v.Formatted[m]; ok {
		return s
	}
	return "0"
}

// StatsFor returns detail statistics for a metric with placeholders when no series exists.
func (v Values) StatsFor(m Metric) MetricStats {
	if s, ok := v.Stats[m]; ok {
		return s
	}
	return MetricStats{Change: noValue, Average: noValue, BestDay: noValue}
}

// PreviewValues returns the fixed sample values used before a report exists on the backend.
func PreviewValues() Values {
	formatted := make(map[Metric]string, len(previewFormatted))
	for k, val := range previewFormatted {
		formatted[k] = val
	}
	series := WeeklySeries{
		Labels: append([]string(nil), weekdayShort...),
		Values: map[Metric][]float64{},
	}
	for m, values := range sampleSeries {
		series.Values[m] = append([]float64(nil), values...)
	}
	series.Values[MetricConversion] = conversionSeries(series.Values[MetricViews], series.Values[MetricContacts])
	return Values{
		Formatted: formatted,
		Series:    series,
		Stats:     seriesStats(series),
	}
}

// SummaryValues derives card values and the weekly series from backend totals.
// A zero total keeps the sample series for that metric.
func SummaryValues(summary Summary) Values {
	formatted := map[Metric]string{
		MetricViews:          FormatCount(summary.TotalViews),
		MetricContacts:       FormatCount(summary.TotalContacts),
		MetricFavorites:      FormatCount(summary.TotalFavorites),
		MetricConversion:     FormatConversion(summary.TotalViews, summary.TotalContacts),
		MetricActiveListings: FormatCount(summary.ActiveListings),
	}
	series := WeeklySeries{
		Labels: append([]string(nil), weekdayShort...),
		Values: map[Metric][]float64{
			MetricViews:     scaledSeries(summary.TotalViews, sampleSeries[MetricViews]),
			MetricContacts:  scaledSeries(summary.TotalContacts, sampleSeries[MetricContacts]),
			MetricFavorites: scaledSeries(summary.TotalFavorites, sampleSeries[MetricFavorites]),
		},
	}
	series.Values[MetricConversion] = conversionSeries(series.Values[MetricViews], series.Values[MetricContacts])
	return Values{
		Formatted: formatted,
		Series:    series,
		Stats:     seriesStats(series),
	}
}

// ScaleWeekly spreads a total across the week using the fixed daily fractions.
func ScaleWeekly(total int64) []float64 {
	out := make([]float64, len(weeklyFractions))
	for i, f := range weeklyFractions {
		out[i] = math.Floor(float64(total) * f)
	}
	return out
}

func scaledSeries(total int64, fallback []float64) []float64 {
	if total == 0 {
		return append([]float64(nil), fallback...)
	}
	return ScaleWeekly(total)
}

func conversionSeries(views, contacts []float64) []float64 {
	out := make([]float64, len(views))
	for i := range views {
		if i >= len(contacts) || views[i] == 0 {
			continue
		}
		out[i] = math.Round(contacts[i]/views[i]*1000) / 10
	}
	return out
}

var printer = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatConversion renders contacts/views as a one-decimal percentage.
func FormatConversion(views, contacts int64) string {
	if views <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(contacts)/float64(views)*100)
}

func seriesStats(series WeeklySeries) map[Metric]MetricStats {
	out := make(map[Metric]MetricStats, len(series.Values))
	for m, values := range series.Values {
		if len(values) == 0 {
			continue
		}
		out[m] = statsFor(m, values)
	}
	return out
}

func statsFor(m Metric, values []float64) MetricStats {
	var sum float64
	best := 0
	for i, v := range values {
		sum += v
		if v > values[best] {
			best = i
		}
	}
	avg := sum / float64(len(values))
	stats := MetricStats{
		Change:  noValue,
		BestDay: noValue,
	}
	if first := values[0]; first != 0 {
		stats.Change = fmt.Sprintf("%+.1f%%", (values[len(values)-1]-first)/first*100)
	}
	if best < len(weekdayFull) {
		stats.BestDay = weekdayFull[best]
	}
	if m == MetricConversion {
		stats.Average = fmt.Sprintf("%.1f%%", avg)
	} else {
		stats.Average = FormatCount(int64(math.Round(avg)))
	}
	return stats
}
