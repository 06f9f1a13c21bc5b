package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChartRenderer struct {
	requests []ChartRequest
	err      error
}

func (s *stubChartRenderer) RenderChart(_ context.Context, req ChartRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return "<div>" + string(req.Chart) + "</div>", nil
}

func composeInput(layout Layout, mode Mode, metrics []Metric, charts []Chart) ComposeInput {
	return ComposeInput{
		Title:   "Еженедельный отчет",
		Layout:  layout,
		Mode:    mode,
		Metrics: metrics,
		Charts:  charts,
		Values:  PreviewValues(),
	}
}

func TestEveryLayoutProducesCardsAndCharts(t *testing.T) {
	composer := NewComposer(&stubChartRenderer{})
	for _, layout := range AllLayouts() {
		tree, err := composer.Compose(context.Background(), composeInput(layout, ModePreview,
			[]Metric{MetricViews}, []Chart{ChartLine}))
		require.NoError(t, err, layout)
		assert.Equal(t, layout, tree.Layout)
		assert.NotEmpty(t, tree.MetricCards(), layout)
		assert.NotEmpty(t, tree.ChartBlocks(), layout)
	}
}

func TestStandardLayout(t *testing.T) {
	tree, err := NewComposer(nil).Compose(context.Background(), composeInput(LayoutStandard, ModePreview,
		[]Metric{MetricViews, MetricContacts}, []Chart{ChartLine, ChartBar}))
	require.NoError(t, err)
	require.Len(t, tree.Sections, 2)

	metrics := tree.Sections[0]
	assert.Equal(t, SectionMetrics, metrics.Kind)
	assert.Equal(t, "Основные метрики", metrics.Heading)
	assert.Equal(t, 4, metrics.Columns)
	assert.Equal(t, "10,847", metrics.Cards[0].Value)
	assert.Equal(t, "Просмотры", metrics.Cards[0].Name)

	charts := tree.Sections[1]
	assert.Equal(t, 2, charts.Columns)
	assert.Equal(t, SizeMedium, charts.Size)
	assert.Equal(t, 200, charts.Charts[0].Height)
	assert.Empty(t, charts.Charts[0].HTML)
}

func TestCompactLayout(t *testing.T) {
	tree, err := NewComposer(nil).Compose(context.Background(), composeInput(LayoutCompact, ModePreview,
		[]Metric{MetricViews}, []Chart{ChartPie}))
	require.NoError(t, err)
	require.Len(t, tree.Sections, 2)
	assert.Equal(t, 2, tree.Sections[0].Columns)
	assert.Equal(t, SizeSmall, tree.Sections[0].Size)
	assert.Equal(t, 3, tree.Sections[1].Columns)
	assert.Equal(t, 150, tree.Sections[1].Charts[0].Height)
}

func TestDetailedLayoutAddsStatistics(t *testing.T) {
	tree, err := NewComposer(nil).Compose(context.Background(), composeInput(LayoutDetailed, ModePreview,
		[]Metric{MetricViews, MetricActiveListings}, []Chart{ChartBar}))
	require.NoError(t, err)

	cards := tree.MetricCards()
	require.Len(t, cards, 2)
	assert.Equal(t, SizeLarge, cards[0].Size)
	assert.Equal(t, []string{
		"Изменение за период: +37.5%",
		"Средний показатель: 1,549",
		"Лучший день: Суббота",
	}, cards[0].Details)
	assert.Equal(t, "Изменение за период: —", cards[1].Details[0])

	blocks := tree.ChartBlocks()
	require.Len(t, blocks, 1)
	assert.NotEmpty(t, blocks[0].Description)
	assert.Equal(t, 300, blocks[0].Height)
}

func TestExecutiveLayoutLimitsMetricsAndAddsInsights(t *testing.T) {
	tree, err := NewComposer(nil).Compose(context.Background(), composeInput(LayoutExecutive, ModePreview,
		AllMetrics(), []Chart{ChartLine, ChartBar, ChartPie}))
	require.NoError(t, err)
	require.Len(t, tree.Sections, 4)

	assert.Len(t, tree.Sections[0].Cards, 4)
	assert.NotContains(t, cardMetrics(tree.Sections[0].Cards), MetricActiveListings)

	insights := tree.Sections[1]
	assert.Equal(t, SectionInsights, insights.Kind)
	require.Len(t, insights.Insights, 3)
	assert.Equal(t, "positive", insights.Insights[0].Tone)

	trend := tree.Sections[2]
	assert.Equal(t, "Основной тренд", trend.Heading)
	require.Len(t, trend.Charts, 1)
	assert.Equal(t, ChartLine, trend.Charts[0].Chart)

	rest := tree.Sections[3]
	assert.Equal(t, 2, rest.Columns)
	assert.Equal(t, []Chart{ChartBar, ChartPie}, []Chart{rest.Charts[0].Chart, rest.Charts[1].Chart})
}

func TestEmptySelectionsProduceNoSections(t *testing.T) {
	for _, layout := range AllLayouts() {
		tree, err := NewComposer(nil).Compose(context.Background(), composeInput(layout, ModePreview, nil, nil))
		require.NoError(t, err)
		assert.Empty(t, tree.Sections, layout)
	}
}

func TestUnknownLayoutFallsBackToStandard(t *testing.T) {
	tree, err := NewComposer(nil).Compose(context.Background(), composeInput(Layout("grid"), "",
		[]Metric{MetricViews}, nil))
	require.NoError(t, err)
	assert.Equal(t, LayoutStandard, tree.Layout)
	assert.Equal(t, ModePreview, tree.Mode)
	assert.Equal(t, 4, tree.Sections[0].Columns)
}

func TestViewModeUsesPrintHeightsAndPageBreak(t *testing.T) {
	renderer := &stubChartRenderer{}
	tree, err := NewComposer(renderer).WithTheme("walden").Compose(context.Background(), composeInput(LayoutExecutive, ModeView,
		[]Metric{MetricViews}, []Chart{ChartLine, ChartBar}))
	require.NoError(t, err)

	trend := tree.Sections[2]
	assert.True(t, trend.PageBreak)
	assert.Equal(t, 220, trend.Charts[0].Height)
	assert.False(t, tree.Sections[3].PageBreak)
	assert.Equal(t, 180, tree.Sections[3].Charts[0].Height)
	assert.Equal(t, "<div>line</div>", trend.Charts[0].HTML)

	require.Len(t, renderer.requests, 2)
	assert.Equal(t, "walden", renderer.requests[0].Theme)
	assert.Equal(t, 220, renderer.requests[0].Height)
}

func TestComposeWrapsRendererErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewComposer(&stubChartRenderer{err: boom}).Compose(context.Background(),
		composeInput(LayoutStandard, ModePreview, nil, []Chart{ChartPie}))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pie")
}

func TestChartHeight(t *testing.T) {
	assert.Equal(t, 300, ChartHeight(ModePreview, SizeLarge))
	assert.Equal(t, 120, ChartHeight(ModeView, SizeSmall))
	assert.Equal(t, 200, ChartHeight(Mode("print"), Size("huge")))
}

func cardMetrics(cards []MetricCard) []Metric {
	out := make([]Metric, len(cards))
	for i, c := range cards {
		out[i] = c.Metric
	}
	return out
}
