package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewValues(t *testing.T) {
	values := PreviewValues()

	assert.Equal(t, "10,847", values.Value(MetricViews))
	assert.Equal(t, "737", values.Value(MetricContacts))
	assert.Equal(t, "437", values.Value(MetricFavorites))
	assert.Equal(t, "6.8%", values.Value(MetricConversion))
	assert.Equal(t, "0", values.Value(MetricActiveListings))

	require.Len(t, values.Series.Labels, 7)
	assert.Equal(t, "Пн", values.Series.Labels[0])
	assert.Equal(t, []float64{1200, 1450, 1350, 1580, 1720, 1890, 1650}, values.Series.Values[MetricViews])
	assert.Len(t, values.Series.Values[MetricConversion], 7)
}

func TestPreviewValuesAreIndependentCopies(t *testing.T) {
	first := PreviewValues()
	first.Series.Values[MetricViews][0] = 0
	first.Formatted[MetricViews] = "changed"

	second := PreviewValues()
	assert.Equal(t, float64(1200), second.Series.Values[MetricViews][0])
	assert.Equal(t, "10,847", second.Value(MetricViews))
}

func TestScaleWeekly(t *testing.T) {
	assert.Equal(t, []float64{120, 150, 130, 160, 170, 190, 80}, ScaleWeekly(1000))
	assert.Equal(t, []float64{1481, 1851, 1604, 1975, 2098, 2345, 987}, ScaleWeekly(12345))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0}, ScaleWeekly(0))
}

func TestSummaryValues(t *testing.T) {
	values := SummaryValues(Summary{
		TotalViews:     12345,
		TotalContacts:  1000,
		ActiveListings: 42,
	})

	assert.Equal(t, "12,345", values.Value(MetricViews))
	assert.Equal(t, "1,000", values.Value(MetricContacts))
	assert.Equal(t, "0", values.Value(MetricFavorites))
	assert.Equal(t, "8.1%", values.Value(MetricConversion))
	assert.Equal(t, "42", values.Value(MetricActiveListings))

	assert.Equal(t, ScaleWeekly(12345), values.Series.Values[MetricViews])
	// zero favorites keep the sample week
	assert.Equal(t, []float64{45, 52, 38, 65, 72, 89, 76}, values.Series.Values[MetricFavorites])
}

func TestFormatConversion(t *testing.T) {
	assert.Equal(t, "0.0%", FormatConversion(0, 10))
	assert.Equal(t, "0.0%", FormatConversion(-5, 10))
	assert.Equal(t, "50.0%", FormatConversion(10, 5))
	assert.Equal(t, "6.8%", FormatConversion(10847, 737))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}

func TestStatsFor(t *testing.T) {
	values := PreviewValues()
	stats := values.StatsFor(MetricViews)
	assert.Equal(t, "+37.5%", stats.Change)
	assert.Equal(t, "1,549", stats.Average)
	assert.Equal(t, "Суббота", stats.BestDay)

	missing := values.StatsFor(MetricActiveListings)
	assert.Equal(t, MetricStats{Change: "—", Average: "—", BestDay: "—"}, missing)
}

func TestDistributionSumsToHundred(t *testing.T) {
	var total float64
	for _, slice := range Distribution() {
		total += slice.Value
		assert.NotEmpty(t, slice.Color)
	}
	assert.Equal(t, float64(100), total)
}
