package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

var sharedChartCache = NewChartCache(5 * time.Minute)

var (
	viewsColor    = "#3b82f6"
	contactsColor = "#10b981"
)

// ChartRequest carries everything needed to draw one chart block.
type ChartRequest struct {
	Chart  Chart
	Title  string
	Height int
	Series WeeklySeries
	Theme  string
}

// ChartRenderer turns a chart request into embeddable markup.
type ChartRenderer interface {
	RenderChart(ctx context.Context, req ChartRequest) (string, error)
}

// EChartsRenderer renders report charts server-side with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithRenderCache injects a render cache. Passing nil disables caching.
func WithRenderCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer for report charts.
func NewEChartsRenderer(opts ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ChartRenderer = (*EChartsRenderer)(nil)

// RenderChart draws the requested chart, consulting the cache first.
func (r *EChartsRenderer) RenderChart(_ context.Context, req ChartRequest) (string, error) {
	if req.Theme == "" {
		req.Theme = r.theme
	}
	if req.Title == "" {
		req.Title = ChartDetails(req.Chart).Title
	}
	renderFn := func() (string, error) {
		return r.render(req)
	}
	if r.cache == nil {
		return renderFn()
	}
	return r.cache.GetOrRender(ChartKey(req), renderFn)
}

func (r *EChartsRenderer) render(req ChartRequest) (string, error) {
	switch req.Chart {
	case ChartLine:
		return r.renderLineChart(req)
	case ChartBar:
		return r.renderBarChart(req)
	case ChartPie:
		return r.renderPieChart(req)
	default:
		return "", fmt.Errorf("reports: unsupported chart type: %s", req.Chart)
	}
}

func (r *EChartsRenderer) renderLineChart(req ChartRequest) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(req)...)
	line.SetXAxis(req.Series.Labels)
	line.AddSeries(MetricDetails(MetricViews).Name, toLineData(req.Series.Values[MetricViews]))
	line.AddSeries(MetricDetails(MetricContacts).Name, toLineData(req.Series.Values[MetricContacts]))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderBarChart(req ChartRequest) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(req)...)
	bar.SetXAxis(req.Series.Labels)
	bar.AddSeries(MetricDetails(MetricViews).Name, toBarData(req.Series.Values[MetricViews]))
	bar.AddSeries(MetricDetails(MetricContacts).Name, toBarData(req.Series.Values[MetricContacts]))
	return renderChart(bar)
}

func (r *EChartsRenderer) renderPieChart(req ChartRequest) (string, error) {
	pie := charts.NewPie()
	slices := Distribution()
	colors := make([]string, len(slices))
	for i, s := range slices {
		colors[i] = s.Color
	}
	global := append(r.globalChartOptions(req), charts.WithColorsOpts(opts.Colors(colors)))
	pie.SetGlobalOptions(global...)
	pie.AddSeries(req.Title, toPieData(slices))
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(req ChartRequest) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  req.Theme,
		Width:  "100%",
		Height: fmt.Sprintf("%dpx", req.Height),
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: req.Title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
	if req.Chart != ChartPie {
		global = append(global, charts.WithColorsOpts(opts.Colors{viewsColor, contactsColor}))
	}
	return global
}

func toBarData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func toPieData(slices []PieSlice) []opts.PieData {
	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{
			Name:  s.Name,
			Value: s.Value,
		}
	}
	return data
}
