package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultCabinetID = 1

var (
	errMissingBackend = errors.New("reports: backend not configured")
	errMissingID      = errors.New("reports: report id is required")
)

// Options configures the reports Service.
type Options struct {
	Backend   Backend
	Validator ConfigValidator
	Charts    ChartRenderer
	Codec     *Codec
	Telemetry Telemetry
	Logger    *zap.Logger
	Now       func() time.Time
}

// Service validates, encodes, persists and renders report configurations.
type Service struct {
	opts     Options
	composer *Composer
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Validator == nil {
		opts.Validator = NewSchemaValidator()
	}
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.Codec == nil {
		opts.Codec = DefaultCodec()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, composer: NewComposer(opts.Charts)}
}

type themeKey struct{}

// ContextWithTheme attaches a chart theme used when rendering trees.
func ContextWithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

func themeFromContext(ctx context.Context) string {
	theme, _ := ctx.Value(themeKey{}).(string)
	return theme
}

// Catalog returns the options offered by the report form.
func (s *Service) Catalog() Catalog {
	return FormCatalog()
}

// Validate checks a configuration without submitting it.
func (s *Service) Validate(cfg Config) error {
	return s.opts.Validator.Validate(cfg)
}

// Save validates the configuration and creates it on the backend.
// Invalid configurations are rejected before any backend call.
func (s *Service) Save(ctx context.Context, cfg Config) (Ref, error) {
	if err := s.opts.Validator.Validate(cfg); err != nil {
		s.recordTelemetry(ctx, "reports.save.rejected", map[string]any{"error": err.Error()})
		return Ref{}, err
	}
	backend, err := s.backend()
	if err != nil {
		return Ref{}, err
	}
	normalized := Normalize(cfg)
	payload, err := BuildPayload(s.opts.Codec, normalized)
	if err != nil {
		return Ref{}, err
	}
	ref, err := backend.CreateReport(ctx, payload)
	if err != nil {
		s.opts.Logger.Warn("report create failed",
			zap.String("name", normalized.Name),
			zap.Error(err),
		)
		s.recordTelemetry(ctx, "reports.save.failed", map[string]any{"name": normalized.Name, "error": err.Error()})
		return Ref{}, fmt.Errorf("reports: create report: %w", err)
	}
	if ref.Name == "" {
		ref.Name = normalized.Name
	}
	s.opts.Logger.Info("report created",
		zap.String("id", ref.ID),
		zap.String("name", ref.Name),
		zap.String("layout", string(normalized.Layout)),
	)
	s.recordTelemetry(ctx, "reports.save", map[string]any{
		"id":      ref.ID,
		"layout":  string(normalized.Layout),
		"metrics": len(normalized.Metrics),
		"charts":  len(normalized.Charts),
	})
	return ref, nil
}

// List returns saved reports with their tokens decoded. Rows with unknown tokens are skipped.
func (s *Service) List(ctx context.Context) ([]SavedReport, error) {
	backend, err := s.backend()
	if err != nil {
		return nil, err
	}
	rows, err := backend.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: list reports: %w", err)
	}
	out := make([]SavedReport, 0, len(rows))
	for _, row := range rows {
		cfg, err := DecodeStored(s.opts.Codec, row)
		if err != nil {
			s.opts.Logger.Warn("skipping report with unknown tokens",
				zap.String("id", row.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, SavedReport{ID: row.ID, Config: cfg})
	}
	s.recordTelemetry(ctx, "reports.list", map[string]any{"count": len(out)})
	return out, nil
}

// Preview composes the configuration with sample values, before it exists on the backend.
func (s *Service) Preview(ctx context.Context, cfg Config) (Tree, error) {
	normalized := Normalize(cfg)
	tree, err := s.composer.WithTheme(themeFromContext(ctx)).Compose(ctx, ComposeInput{
		Title:   normalized.Name,
		Layout:  normalized.Layout,
		Mode:    ModePreview,
		Metrics: normalized.Metrics,
		Charts:  normalized.Charts,
		Values:  PreviewValues(),
	})
	if err != nil {
		return Tree{}, err
	}
	s.recordTelemetry(ctx, "reports.preview", map[string]any{"layout": string(tree.Layout)})
	return tree, nil
}

// View reads a saved report's render data back from the backend and composes it.
func (s *Service) View(ctx context.Context, id string) (Tree, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tree{}, errMissingID
	}
	backend, err := s.backend()
	if err != nil {
		return Tree{}, err
	}
	raw, err := backend.ReportRenderData(ctx, id)
	if err != nil {
		return Tree{}, fmt.Errorf("reports: load render data %s: %w", id, err)
	}
	data, err := DecodeRenderData(s.opts.Codec, raw)
	if err != nil {
		return Tree{}, err
	}
	tree, err := s.composer.WithTheme(themeFromContext(ctx)).Compose(ctx, ComposeInput{
		Title:   "Отчет #" + id,
		Layout:  data.Layout,
		Mode:    ModeView,
		Metrics: data.Metrics,
		Charts:  data.Charts,
		Values:  SummaryValues(data.Summary),
	})
	if err != nil {
		return Tree{}, err
	}
	s.recordTelemetry(ctx, "reports.view", map[string]any{"id": id, "layout": string(tree.Layout)})
	return tree, nil
}

// ScheduleInfo describes when a report will be delivered.
type ScheduleInfo struct {
	Description string    `json:"description"`
	NextRun     time.Time `json:"next_run"`
}

// Schedule describes the delivery schedule of a configuration.
func (s *Service) Schedule(cfg Config) (ScheduleInfo, error) {
	normalized := Normalize(cfg)
	next, err := NextRun(normalized, s.opts.Now())
	if err != nil {
		return ScheduleInfo{}, err
	}
	return ScheduleInfo{Description: Describe(normalized), NextRun: next}, nil
}

// BuildPayload encodes a normalized configuration into the create request body.
func BuildPayload(codec *Codec, cfg Config) (CreatePayload, error) {
	if codec == nil {
		codec = DefaultCodec()
	}
	metrics, err := codec.EncodeMetrics(cfg.Metrics)
	if err != nil {
		return CreatePayload{}, err
	}
	period, err := codec.EncodePeriod(cfg.Period)
	if err != nil {
		return CreatePayload{}, err
	}
	payload := CreatePayload{
		Name:      cfg.Name,
		Template:  string(cfg.Layout),
		CabinetID: cabinetID(cfg.Cabinets),
		Metrics:   metrics,
		Period:    period,
		Time:      WireTime(cfg.Time),
	}
	if len(cfg.Charts) > 0 {
		graphs, err := codec.EncodeCharts(cfg.Charts)
		if err != nil {
			return CreatePayload{}, err
		}
		payload.Graphs = &graphs
	}
	tgID, err := strconv.ParseInt(strings.TrimSpace(cfg.ChannelID), 10, 64)
	if err != nil {
		return CreatePayload{}, &ValidationError{
			Message: MessageChannel,
			Fields:  []FieldError{{Field: "channel_id", Message: "must be numeric"}},
		}
	}
	payload.TgID = tgID
	return payload, nil
}

// DecodeStored converts a listed backend row into a configuration.
func DecodeStored(codec *Codec, row StoredReport) (Config, error) {
	if codec == nil {
		codec = DefaultCodec()
	}
	metrics, err := codec.DecodeMetrics(row.Metrics)
	if err != nil {
		return Config{}, err
	}
	charts, err := codec.DecodeCharts(row.Graphs)
	if err != nil {
		return Config{}, err
	}
	period, err := codec.DecodePeriod(row.Period)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Name:    row.Name,
		Metrics: metrics,
		Charts:  charts,
		Layout:  Layout(NormalizeTag(row.Template)),
		Period:  period,
		Time:    trimSeconds(row.Time),
	}
	if row.CabinetID > 0 {
		cfg.Cabinets = []string{strconv.Itoa(row.CabinetID)}
	}
	if row.TgID != 0 {
		cfg.ChannelID = strconv.FormatInt(row.TgID, 10)
	}
	return cfg, nil
}

// DecodeRenderData converts the raw render payload into tags and a summary.
func DecodeRenderData(codec *Codec, raw StoredRenderData) (RenderData, error) {
	if codec == nil {
		codec = DefaultCodec()
	}
	metrics, err := codec.DecodeMetrics(raw.Metrics)
	if err != nil {
		return RenderData{}, err
	}
	charts, err := codec.DecodeCharts(raw.Graphs)
	if err != nil {
		return RenderData{}, err
	}
	return RenderData{
		Layout:  Layout(NormalizeTag(raw.Template)),
		Metrics: metrics,
		Charts:  charts,
		Summary: Summary{
			TotalViews:     raw.TotalViews,
			TotalContacts:  raw.TotalContacts,
			TotalFavorites: raw.TotalFavourites,
			ActiveListings: raw.ActiveListings,
		},
	}, nil
}

func cabinetID(cabinets []string) int {
	if len(cabinets) == 0 {
		return defaultCabinetID
	}
	id, err := strconv.Atoi(strings.TrimSpace(cabinets[0]))
	if err != nil || id <= 0 {
		return defaultCabinetID
	}
	return id
}

func trimSeconds(value string) string {
	value = strings.TrimSpace(value)
	if len(value) == len("15:04:05") && strings.Count(value, ":") == 2 {
		return value[:5]
	}
	return value
}

func (s *Service) backend() (Backend, error) {
	if s.opts.Backend == nil {
		return nil, errMissingBackend
	}
	return s.opts.Backend, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
