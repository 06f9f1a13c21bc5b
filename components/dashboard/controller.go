package dashboard

import (
	"context"
	"errors"
	"io"

	"github.com/goliatone/go-cabinet-admin/components/reports"
)

const (
	defaultOverviewTemplate = "overview.html"
	defaultReportTemplate   = "report.html"
)

// PageSource is the subset of Service used to render pages.
type PageSource interface {
	Overview(ctx context.Context, dates DateRange) (OverviewPage, error)
	Theme(ctx context.Context, viewer ViewerContext) (ThemeSelection, error)
	Cabinets(ctx context.Context) []Cabinet
	Presets() []PresetOption
}

// ReportSource composes report trees for the preview and view pages.
type ReportSource interface {
	Preview(ctx context.Context, cfg reports.Config) (reports.Tree, error)
	View(ctx context.Context, id string) (reports.Tree, error)
}

// ControllerOptions configures the page controller.
type ControllerOptions struct {
	Service          PageSource
	Reports          ReportSource
	Renderer         Renderer
	OverviewTemplate string
	ReportTemplate   string
}

// Controller renders the HTML pages of the admin dashboard.
type Controller struct {
	service          PageSource
	reports          ReportSource
	renderer         Renderer
	overviewTemplate string
	reportTemplate   string
}

var (
	errMissingRenderer = errors.New("dashboard: renderer not configured")
	errMissingReports  = errors.New("dashboard: reports service not configured")
)

// NewController wires the services into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.OverviewTemplate == "" {
		opts.OverviewTemplate = defaultOverviewTemplate
	}
	if opts.ReportTemplate == "" {
		opts.ReportTemplate = defaultReportTemplate
	}
	return &Controller{
		service:          opts.Service,
		reports:          opts.Reports,
		renderer:         opts.Renderer,
		overviewTemplate: opts.OverviewTemplate,
		reportTemplate:   opts.ReportTemplate,
	}
}

// RenderOverview renders the main page for the range.
func (c *Controller) RenderOverview(ctx context.Context, viewer ViewerContext, dates DateRange, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	if c.service == nil {
		return errMissingBackend
	}
	page, err := c.service.Overview(ctx, dates)
	if err != nil {
		return err
	}
	payload := c.basePayload(ctx, viewer, "overview")
	payload["page"] = page
	payload["range"] = dates
	payload["presets"] = c.service.Presets()
	payload["cabinets"] = c.service.Cabinets(ctx)
	_, err = c.renderer.Render(c.overviewTemplate, payload, out)
	return err
}

// RenderReportPreview renders an unsaved configuration with sample values.
func (c *Controller) RenderReportPreview(ctx context.Context, viewer ViewerContext, cfg reports.Config, out io.Writer) error {
	if c.reports == nil {
		return errMissingReports
	}
	return c.renderReport(ctx, viewer, out, func(ctx context.Context) (reports.Tree, error) {
		return c.reports.Preview(ctx, cfg)
	})
}

// RenderReportView renders a saved report read back from the backend.
func (c *Controller) RenderReportView(ctx context.Context, viewer ViewerContext, id string, out io.Writer) error {
	if c.reports == nil {
		return errMissingReports
	}
	return c.renderReport(ctx, viewer, out, func(ctx context.Context) (reports.Tree, error) {
		return c.reports.View(ctx, id)
	})
}

func (c *Controller) renderReport(ctx context.Context, viewer ViewerContext, out io.Writer, compose func(context.Context) (reports.Tree, error)) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	payload := c.basePayload(ctx, viewer, "reports")
	theme := payload["theme"].(ThemeSelection)
	tree, err := compose(reports.ContextWithTheme(ctx, theme.ChartTheme))
	if err != nil {
		return err
	}
	payload["tree"] = tree
	payload["title"] = tree.Title
	_, err = c.renderer.Render(c.reportTemplate, payload, out)
	return err
}

func (c *Controller) basePayload(ctx context.Context, viewer ViewerContext, active string) map[string]any {
	theme := SelectTheme(DefaultThemeMode)
	if c.service != nil {
		if selected, err := c.service.Theme(ctx, viewer); err == nil {
			theme = selected
		}
	}
	return map[string]any{
		"title":      "Кабинеты",
		"theme":      theme,
		"theme_css":  theme.CSSVariablesInline(),
		"theme_mode": string(theme.Mode),
		"navigation": Navigation(),
		"active":     active,
		"viewer":     viewer,
	}
}
