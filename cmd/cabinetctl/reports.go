package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
	"github.com/goliatone/go-cabinet-admin/pkg/config"
)

type previewCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Report manifest YAML."`
	ID       string `required:"" help:"Report id inside the manifest."`
	Output   string `short:"o" type:"path" help:"Write HTML to this file instead of stdout."`
	Theme    string `enum:"light,dark" default:"dark" help:"Theme mode used for charts and CSS variables."`
}

func (cmd *previewCmd) Run(ctx context.Context, g *globals, root *cli) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	report, err := findReport(cmd.Manifest, cmd.ID)
	if err != nil {
		return err
	}
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("cabinetctl: templates: %w", err)
	}
	prefs := dashboard.NewInMemoryPreferenceStore()
	viewer := dashboard.ViewerContext{UserID: "cli"}
	if err := prefs.SaveThemeMode(ctx, viewer, dashboard.ThemeMode(cmd.Theme)); err != nil {
		return err
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  dashboard.NewService(dashboard.Options{Preferences: prefs, Location: cfg.Location()}),
		Reports:  reports.NewService(reports.Options{Charts: newChartRenderer(cfg)}),
		Renderer: renderer,
	})

	out := g.Out
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output) //nolint:gosec
		if err != nil {
			return fmt.Errorf("cabinetctl: create %s: %w", cmd.Output, err)
		}
		defer f.Close()
		out = f
	}
	if err := controller.RenderReportPreview(ctx, viewer, report.Config, out); err != nil {
		return fmt.Errorf("cabinetctl: preview %s: %w", cmd.ID, err)
	}
	if cmd.Output != "" {
		fmt.Fprintf(g.Out, "✓ Rendered %s to %s\n", cmd.ID, cmd.Output)
	}
	return nil
}

type scheduleCmd struct {
	Manifest string `required:"" type:"existingfile" help:"Report manifest YAML."`
	ID       string `required:"" help:"Report id inside the manifest."`
	JSON     bool   `name:"json" help:"Print the schedule as JSON."`
}

func (cmd *scheduleCmd) Run(_ context.Context, g *globals, root *cli) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	report, err := findReport(cmd.Manifest, cmd.ID)
	if err != nil {
		return err
	}
	loc := cfg.Location()
	service := reports.NewService(reports.Options{Now: func() time.Time { return time.Now().In(loc) }})
	info, err := service.Schedule(report.Config)
	if err != nil {
		return fmt.Errorf("cabinetctl: schedule %s: %w", cmd.ID, err)
	}
	if cmd.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintf(g.Out, "%s\nСледующая отправка: %s\n", info.Description, info.NextRun.Format("02.01.2006 15:04 MST"))
	return nil
}

type encodeCmd struct {
	Kind   string   `arg:"" enum:"metric,chart,period" help:"Value kind (metric, chart, period)."`
	Values []string `arg:"" help:"Tags to encode."`
}

func (cmd *encodeCmd) Run(_ context.Context, g *globals) error {
	codec := reports.DefaultCodec()
	var (
		out string
		err error
	)
	switch cmd.Kind {
	case "metric":
		metrics := make([]reports.Metric, len(cmd.Values))
		for i, v := range cmd.Values {
			metrics[i] = reports.Metric(reports.NormalizeTag(v))
		}
		out, err = codec.EncodeMetrics(metrics)
	case "chart":
		charts := make([]reports.Chart, len(cmd.Values))
		for i, v := range cmd.Values {
			charts[i] = reports.Chart(reports.NormalizeTag(v))
		}
		out, err = codec.EncodeCharts(charts)
	case "period":
		if len(cmd.Values) != 1 {
			return errors.New("cabinetctl: period takes exactly one value")
		}
		out, err = codec.EncodePeriod(reports.Period(reports.NormalizeTag(cmd.Values[0])))
	}
	if err != nil {
		return fmt.Errorf("cabinetctl: encode %s: %w", cmd.Kind, err)
	}
	fmt.Fprintln(g.Out, out)
	return nil
}

type decodeCmd struct {
	Kind    string `arg:"" enum:"metric,chart,period" help:"Value kind (metric, chart, period)."`
	Encoded string `arg:"" help:"Comma separated backend tokens."`
}

func (cmd *decodeCmd) Run(_ context.Context, g *globals) error {
	codec := reports.DefaultCodec()
	var (
		tags []string
		err  error
	)
	switch cmd.Kind {
	case "metric":
		var metrics []reports.Metric
		metrics, err = codec.DecodeMetrics(cmd.Encoded)
		for _, m := range metrics {
			tags = append(tags, string(m))
		}
	case "chart":
		var charts []reports.Chart
		charts, err = codec.DecodeCharts(cmd.Encoded)
		for _, c := range charts {
			tags = append(tags, string(c))
		}
	case "period":
		var period reports.Period
		period, err = codec.DecodePeriod(strings.TrimSpace(cmd.Encoded))
		tags = append(tags, string(period))
	}
	if err != nil {
		return fmt.Errorf("cabinetctl: decode %s: %w", cmd.Kind, err)
	}
	fmt.Fprintln(g.Out, strings.Join(tags, ","))
	return nil
}

func findReport(path, id string) (reports.ManifestReport, error) {
	doc, err := reports.ReadManifest(path)
	if err != nil {
		return reports.ManifestReport{}, err
	}
	report, ok := doc.Find(id)
	if !ok {
		return reports.ManifestReport{}, fmt.Errorf("cabinetctl: manifest %s has no report %s", path, id)
	}
	return report, nil
}

func newChartRenderer(cfg config.Config) *reports.EChartsRenderer {
	opts := []reports.EChartsRendererOption{
		reports.WithChartTheme(cfg.Charts.Theme),
		reports.WithRenderCache(reports.NewChartCache(cfg.Cache.ChartTTL)),
	}
	if cfg.Charts.AssetsHost != "" {
		opts = append(opts, reports.WithChartAssetsHost(cfg.Charts.AssetsHost))
	}
	return reports.NewEChartsRenderer(opts...)
}
