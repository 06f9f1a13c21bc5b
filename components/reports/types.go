package reports

import "context"

// Metric identifies a report metric by its internal tag.
type Metric string

const (
	MetricViews          Metric = "views"
	MetricContacts       Metric = "contacts"
	MetricFavorites      Metric = "favorites"
	MetricConversion     Metric = "conversion"
	MetricActiveListings Metric = "active_listings"
)

// Chart identifies a chart renderer by its internal tag.
type Chart string

const (
	ChartLine Chart = "line"
	ChartBar  Chart = "bar"
	ChartPie  Chart = "pie"
)

// Layout selects one of the fixed composition strategies.
type Layout string

const (
	LayoutStandard  Layout = "standard"
	LayoutCompact   Layout = "compact"
	LayoutDetailed  Layout = "detailed"
	LayoutExecutive Layout = "executive"
)

// Period is the delivery cadence of a scheduled report.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Size is the visual variant for cards and charts.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Mode distinguishes the unsaved preview from a saved report read back from the backend.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeView    Mode = "view"
)

// AllMetrics lists every metric tag in display order.
func AllMetrics() []Metric {
	return []Metric{MetricViews, MetricContacts, MetricFavorites, MetricConversion, MetricActiveListings}
}

// AllCharts lists every chart tag in display order.
func AllCharts() []Chart {
	return []Chart{ChartLine, ChartBar, ChartPie}
}

// AllLayouts lists the available layouts.
func AllLayouts() []Layout {
	return []Layout{LayoutStandard, LayoutCompact, LayoutDetailed, LayoutExecutive}
}

// AllPeriods lists the supported delivery periods.
func AllPeriods() []Period {
	return []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}
}

// Valid reports whether m is a known metric tag.
func (m Metric) Valid() bool {
	_, ok := metricCatalog[m]
	return ok
}

// Valid reports whether c is a known chart tag.
func (c Chart) Valid() bool {
	_, ok := chartCatalog[c]
	return ok
}

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	_, ok := layoutCatalog[l]
	return ok
}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Config is the user-chosen report configuration.
type Config struct {
	Name       string   `json:"name" yaml:"name"`
	Cabinets   []string `json:"cabinets,omitempty" yaml:"cabinets,omitempty"`
	Metrics    []Metric `json:"metrics" yaml:"metrics"`
	Charts     []Chart  `json:"charts,omitempty" yaml:"charts,omitempty"`
	Layout     Layout   `json:"layout" yaml:"layout"`
	Period     Period   `json:"period" yaml:"period"`
	Time       string   `json:"time" yaml:"time"`
	Weekday    string   `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	DayOfMonth int      `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
	ChannelID  string   `json:"channel_id" yaml:"channel_id"`
}

// DefaultConfig mirrors the initial state of the report form.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutStandard,
		Period: PeriodWeekly,
		Time:   "09:00",
	}
}

// Summary carries backend aggregate totals for a saved report.
type Summary struct {
	TotalViews     int64
	TotalContacts  int64
	TotalFavorites int64
	ActiveListings int64
}

// Ref identifies a report stored by the backend.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// SavedReport is a report definition read back from the backend with tags decoded.
type SavedReport struct {
	ID     string `json:"id"`
	Config Config `json:"config"`
}

// RenderData is the decoded payload of a saved report used for view rendering.
type RenderData struct {
	Layout  Layout
	Metrics []Metric
	Charts  []Chart
	Summary Summary
}

// CreatePayload is the wire body accepted by the report create endpoint.
type CreatePayload struct {
	Name      string  `json:"name"`
	Template  string  `json:"template"`
	CabinetID int     `json:"cabinet_id"`
	Metrics   string  `json:"metrics"`
	Graphs    *string `json:"graphs"`
	Period    string  `json:"period"`
	Time      string  `json:"time"`
	TgID      int64   `json:"tg_id"`
}

// StoredReport is a report row as listed by the backend, tokens still encoded.
type StoredReport struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Template  string `json:"template"`
	CabinetID int    `json:"cabinet_id"`
	Metrics   string `json:"metrics"`
	Graphs    string `json:"graphs"`
	Period    string `json:"period"`
	Time      string `json:"time"`
	TgID      int64  `json:"tg_id"`
}

// StoredRenderData is the raw render_data response, tokens still encoded.
type StoredRenderData struct {
	Template        string `json:"template"`
	Metrics         string `json:"metrics"`
	Graphs          string `json:"graphs"`
	TotalViews      int64  `json:"total_views"`
	TotalContacts   int64  `json:"total_contacts"`
	TotalFavourites int64  `json:"total_favourites"`
	ActiveListings  int64  `json:"active_listings,omitempty"`
}

// Backend is the subset of the remote API used by reports.
type Backend interface {
	CreateReport(ctx context.Context, payload CreatePayload) (Ref, error)
	ListReports(ctx context.Context) ([]StoredReport, error)
	ReportRenderData(ctx context.Context, id string) (StoredRenderData, error)
}

// Telemetry records report events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
