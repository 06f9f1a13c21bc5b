package reports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Name = "Еженедельный отчет"
	cfg.Metrics = []Metric{MetricViews, MetricContacts}
	cfg.Charts = []Chart{ChartLine}
	cfg.ChannelID = "-1001234567890"
	return cfg
}

func TestSchemaValidatorAcceptsValidConfig(t *testing.T) {
	require.NoError(t, NewSchemaValidator().Validate(validConfig()))
}

func TestValidatorRequiresNameAndMetrics(t *testing.T) {
	validator := NewSchemaValidator()

	noName := validConfig()
	noName.Name = "   "
	assertMessage(t, validator.Validate(noName), MessageNameAndMetrics)

	noMetrics := validConfig()
	noMetrics.Metrics = nil
	assertMessage(t, validator.Validate(noMetrics), MessageNameAndMetrics)
}

func TestValidatorRequiresChannelAfterNameAndMetrics(t *testing.T) {
	validator := NewSchemaValidator()

	noChannel := validConfig()
	noChannel.ChannelID = ""
	assertMessage(t, validator.Validate(noChannel), MessageChannel)

	// name and metrics take precedence when everything is missing
	empty := DefaultConfig()
	assertMessage(t, validator.Validate(empty), MessageNameAndMetrics)
}

func TestValidatorReportsSchemaViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Time = "25:00"
	cfg.Metrics = []Metric{MetricViews, Metric("bounce_rate")}
	cfg.ChannelID = "chat-42"

	err := NewSchemaValidator().Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["time"], "time should be flagged: %v", verr.Fields)
	assert.True(t, fields["metrics"], "metrics should be flagged: %v", verr.Fields)
	assert.True(t, fields["channel_id"], "channel_id should be flagged: %v", verr.Fields)
}

func TestValidatorRejectsUnknownWeekdayAndDay(t *testing.T) {
	cfg := validConfig()
	cfg.Weekday = "someday"
	require.Error(t, NewSchemaValidator().Validate(cfg))

	cfg = validConfig()
	cfg.Period = PeriodMonthly
	cfg.DayOfMonth = 32
	require.Error(t, NewSchemaValidator().Validate(cfg))
}

func TestValidatorIgnoresInactiveScheduleFields(t *testing.T) {
	validator := NewSchemaValidator()

	daily := validConfig()
	daily.Period = PeriodDaily
	daily.Weekday = "пн"
	daily.DayOfMonth = 40
	require.NoError(t, validator.Validate(daily))

	monthly := validConfig()
	monthly.Period = PeriodMonthly
	monthly.Weekday = "someday"
	monthly.DayOfMonth = 5
	require.NoError(t, validator.Validate(monthly))

	out := Normalize(daily)
	assert.Empty(t, out.Weekday)
	assert.Zero(t, out.DayOfMonth)
	assert.Equal(t, 5, Normalize(monthly).DayOfMonth)
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		Name:      "  Отчет  ",
		Metrics:   []Metric{"Views", "favourites", "views"},
		Charts:    []Chart{"graph_line", "line"},
		Weekday:   " Friday ",
		ChannelID: " 42 ",
	}
	out := Normalize(cfg)

	assert.Equal(t, "Отчет", out.Name)
	assert.Equal(t, []Metric{MetricViews, MetricFavorites}, out.Metrics)
	assert.Equal(t, []Chart{ChartLine}, out.Charts)
	assert.Equal(t, LayoutStandard, out.Layout)
	assert.Equal(t, PeriodWeekly, out.Period)
	assert.Equal(t, "09:00", out.Time)
	assert.Equal(t, "friday", out.Weekday)
	assert.Equal(t, "42", out.ChannelID)

	// input is untouched
	assert.Equal(t, Metric("Views"), cfg.Metrics[0])
}

func TestNormalizeLeavesChartsNilWhenEmpty(t *testing.T) {
	out := Normalize(Config{Charts: []Chart{}})
	assert.Nil(t, out.Charts)
}

func assertMessage(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
	assert.Equal(t, message, verr.Message)
}
