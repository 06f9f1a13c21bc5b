package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	// MessageNameAndMetrics is shown when the name or metric selection is missing.
	MessageNameAndMetrics = "Пожалуйста, заполните название отчета и выберите метрики"
	// MessageChannel is shown when the notification channel is missing.
	MessageChannel = "Пожалуйста, укажите Telegram Chat ID"

	configSchemaName = "report-config.json"
)

// ErrInvalidConfig is matched by every configuration validation failure.
var ErrInvalidConfig = errors.New("reports: invalid configuration")

// FieldError describes a problem with a single configuration field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries a user-facing message plus per-field details.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "reports: " + e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("reports: %s (%s)", e.Message, strings.Join(parts, "; "))
}

// Unwrap lets callers match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ConfigValidator validates a report configuration before submission.
type ConfigValidator interface {
	Validate(cfg Config) error
}

// CheckRequired enforces the fields without which a report cannot be submitted.
func CheckRequired(cfg Config) error {
	var fields []FieldError
	if strings.TrimSpace(cfg.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: MessageNameAndMetrics})
	}
	if len(cfg.Metrics) == 0 {
		fields = append(fields, FieldError{Field: "metrics", Message: MessageNameAndMetrics})
	}
	if len(fields) > 0 {
		return &ValidationError{Message: MessageNameAndMetrics, Fields: fields}
	}
	if strings.TrimSpace(cfg.ChannelID) == "" {
		return &ValidationError{
			Message: MessageChannel,
			Fields:  []FieldError{{Field: "channel_id", Message: MessageChannel}},
		}
	}
	return nil
}

// Normalize fills defaults and canonicalizes tags. The input is not modified.
func Normalize(cfg Config) Config {
	out := cfg
	out.Name = strings.TrimSpace(cfg.Name)
	out.ChannelID = strings.TrimSpace(cfg.ChannelID)
	out.Time = strings.TrimSpace(cfg.Time)
	out.Metrics = make([]Metric, 0, len(cfg.Metrics))
	seenMetrics := map[Metric]struct{}{}
	for _, m := range cfg.Metrics {
		tag := Metric(NormalizeTag(string(m)))
		if _, dup := seenMetrics[tag]; dup {
			continue
		}
		seenMetrics[tag] = struct{}{}
		out.Metrics = append(out.Metrics, tag)
	}
	out.Charts = nil
	seenCharts := map[Chart]struct{}{}
	for _, c := range cfg.Charts {
		tag := Chart(NormalizeTag(string(c)))
		if _, dup := seenCharts[tag]; dup {
			continue
		}
		seenCharts[tag] = struct{}{}
		out.Charts = append(out.Charts, tag)
	}
	out.Cabinets = append([]string(nil), cfg.Cabinets...)
	if out.Layout == "" {
		out.Layout = LayoutStandard
	}
	out.Layout = Layout(NormalizeTag(string(out.Layout)))
	if out.Period == "" {
		out.Period = PeriodWeekly
	}
	out.Period = Period(NormalizeTag(string(out.Period)))
	if out.Time == "" {
		out.Time = DefaultConfig().Time
	}
	out.Weekday = strings.ToLower(strings.TrimSpace(cfg.Weekday))
	// Only the active period's schedule field is kept.
	if out.Period != PeriodWeekly {
		out.Weekday = ""
	}
	if out.Period != PeriodMonthly {
		out.DayOfMonth = 0
	}
	return out
}

// SchemaValidator runs the required-field checks and then validates the
// normalized configuration against a JSON schema.
type SchemaValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

var _ ConfigValidator = (*SchemaValidator)(nil)

// Validate returns a *ValidationError describing every problem found.
func (v *SchemaValidator) Validate(cfg Config) error {
	if err := CheckRequired(cfg); err != nil {
		return err
	}
	schema, err := v.compiled()
	if err != nil {
		return err
	}
	data, err := json.Marshal(Normalize(cfg))
	if err != nil {
		return fmt.Errorf("reports: marshal config: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("reports: normalize config: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{
				Message: "Проверьте параметры отчета",
				Fields:  fieldErrors(verr),
			}
		}
		return fmt.Errorf("reports: validate config: %w", err)
	}
	return nil
}

func (v *SchemaValidator) compiled() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(ConfigSchema())
		if err != nil {
			v.err = fmt.Errorf("reports: marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(configSchemaName, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("reports: load schema: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile(configSchemaName)
		if v.err != nil {
			v.err = fmt.Errorf("reports: compile schema: %w", v.err)
		}
	})
	return v.schema, v.err
}

func fieldErrors(verr *jsonschema.ValidationError) []FieldError {
	leaves := map[string]string{}
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if idx := strings.Index(field, "/"); idx >= 0 {
				field = field[:idx]
			}
			if field == "" {
				field = "config"
			}
			if _, ok := leaves[field]; !ok {
				leaves[field] = e.Message
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	out := make([]FieldError, 0, len(leaves))
	for field, msg := range leaves {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// ConfigSchema returns the JSON schema for a normalized report configuration.
func ConfigSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "metrics", "layout", "period", "time", "channel_id"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
			"cabinets": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
			"metrics": map[string]any{
				"type":        "array",
				"minItems":    1,
				"uniqueItems": true,
				"items":       map[string]any{"enum": enumValues(AllMetrics())},
			},
			"charts": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"enum": enumValues(AllCharts())},
			},
			"layout": map[string]any{"enum": enumValues(AllLayouts())},
			"period": map[string]any{"enum": enumValues(AllPeriods())},
			"time": map[string]any{
				"type":    "string",
				"pattern": `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
			},
			"weekday":      map[string]any{"enum": weekdayKeys()},
			"day_of_month": map[string]any{"type": "integer", "minimum": 1, "maximum": 31},
			"channel_id": map[string]any{
				"type":    "string",
				"pattern": `^-?[0-9]{1,20}$`,
			},
		},
	}
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
