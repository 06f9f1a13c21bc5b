package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/goliatone/go-cabinet-admin/components/reports"
)

type stubPages struct {
	page OverviewPage
	err  error
}

func (s *stubPages) Overview(context.Context, DateRange) (OverviewPage, error) {
	return s.page, s.err
}

func (s *stubPages) Theme(context.Context, ViewerContext) (ThemeSelection, error) {
	return SelectTheme(ThemeLight), nil
}

func (s *stubPages) Cabinets(context.Context) []Cabinet { return FallbackCabinets() }

func (s *stubPages) Presets() []PresetOption { return nil }

type stubReports struct {
	tree      reports.Tree
	lastTheme string
}

func (s *stubReports) Preview(ctx context.Context, cfg reports.Config) (reports.Tree, error) {
	s.tree.Title = cfg.Name
	return s.tree, nil
}

func (s *stubReports) View(ctx context.Context, id string) (reports.Tree, error) {
	if id == "" {
		return reports.Tree{}, errors.New("missing id")
	}
	s.tree.Title = "Отчет #" + id
	return s.tree, nil
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderOverview(t *testing.T) {
	pages := &stubPages{page: newOverviewPage(DateRange{}, AggregatedStats{TotalViews: 42}, false)}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: pages, Renderer: renderer})

	var buf bytes.Buffer
	if err := controller.RenderOverview(context.Background(), ViewerContext{UserID: "user"}, DateRange{}, &buf); err != nil {
		t.Fatalf("RenderOverview returned error: %v", err)
	}
	if renderer.lastTemplate != "overview.html" {
		t.Fatalf("expected overview template to render, got %s", renderer.lastTemplate)
	}
	page, ok := renderer.lastPayload["page"].(OverviewPage)
	if !ok || page.Stats.TotalViews != 42 {
		t.Fatalf("expected overview page in payload, got %#v", renderer.lastPayload["page"])
	}
	if nav, _ := renderer.lastPayload["navigation"].([]MenuItem); len(nav) != 7 {
		t.Fatalf("expected seven navigation entries, got %d", len(nav))
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
}

func TestControllerRenderOverviewPropagatesErrors(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubPages{err: errors.New("down")}, Renderer: &stubRenderer{}})
	if err := controller.RenderOverview(context.Background(), ViewerContext{}, DateRange{}, io.Discard); err == nil {
		t.Fatalf("expected error from overview")
	}
}

func TestControllerRenderReportPreview(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  &stubPages{},
		Reports:  &stubReports{tree: reports.Tree{Mode: reports.ModePreview}},
		Renderer: renderer,
	})
	if err := controller.RenderReportPreview(context.Background(), ViewerContext{}, reports.Config{Name: "Недельный"}, io.Discard); err != nil {
		t.Fatalf("RenderReportPreview returned error: %v", err)
	}
	if renderer.lastTemplate != "report.html" {
		t.Fatalf("expected report template, got %s", renderer.lastTemplate)
	}
	if renderer.lastPayload["title"] != "Недельный" {
		t.Fatalf("expected tree title in payload, got %v", renderer.lastPayload["title"])
	}
}

func TestControllerRenderReportView(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Reports: &stubReports{}, Renderer: renderer})
	if err := controller.RenderReportView(context.Background(), ViewerContext{}, "12", io.Discard); err != nil {
		t.Fatalf("RenderReportView returned error: %v", err)
	}
	tree := renderer.lastPayload["tree"].(reports.Tree)
	if tree.Title != "Отчет #12" {
		t.Fatalf("unexpected tree title %q", tree.Title)
	}
	if err := controller.RenderReportView(context.Background(), ViewerContext{}, "", io.Discard); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestControllerRequiresRenderer(t *testing.T) {
	controller := NewController(ControllerOptions{Reports: &stubReports{}})
	if err := controller.RenderReportView(context.Background(), ViewerContext{}, "1", io.Discard); !errors.Is(err, errMissingRenderer) {
		t.Fatalf("expected errMissingRenderer, got %v", err)
	}
}
