package reports

import (
	"context"
	"fmt"
)

// SectionKind tags the contents of a section.
type SectionKind string

const (
	SectionMetrics  SectionKind = "metrics"
	SectionCharts   SectionKind = "charts"
	SectionInsights SectionKind = "insights"
)

// Tree is the composed visual structure of a report.
type Tree struct {
	Title    string    `json:"title"`
	Layout   Layout    `json:"layout"`
	Mode     Mode      `json:"mode"`
	Sections []Section `json:"sections"`
}

// Section is one titled grid of cards, charts or insights.
type Section struct {
	Kind      SectionKind  `json:"kind"`
	Heading   string       `json:"heading,omitempty"`
	Columns   int          `json:"columns"`
	Size      Size         `json:"size"`
	Cards     []MetricCard `json:"cards,omitempty"`
	Charts    []ChartBlock `json:"charts,omitempty"`
	Insights  []Insight    `json:"insights,omitempty"`
	PageBreak bool         `json:"page_break,omitempty"`
}

// MetricCard is a single metric tile.
type MetricCard struct {
	Metric  Metric   `json:"metric"`
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Value   string   `json:"value"`
	Size    Size     `json:"size"`
	Details []string `json:"details,omitempty"`
}

// ChartBlock is a single chart with its presentation settings.
type ChartBlock struct {
	Chart       Chart  `json:"chart"`
	Title       string `json:"title"`
	Size        Size   `json:"size"`
	Height      int    `json:"height"`
	Description string `json:"description,omitempty"`
	HTML        string `json:"html,omitempty"`
}

// Insight is one highlighted conclusion line.
type Insight struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// MetricCards flattens every card in the tree.
func (t Tree) MetricCards() []MetricCard {
	var out []MetricCard
	for _, s := range t.Sections {
		out = append(out, s.Cards...)
	}
	return out
}

// ChartBlocks flattens every chart in the tree.
func (t Tree) ChartBlocks() []ChartBlock {
	var out []ChartBlock
	for _, s := range t.Sections {
		out = append(out, s.Charts...)
	}
	return out
}

const chartDescription = "Данный график показывает динамику изменения ключевых показателей за выбранный период. " +
	"Анализ позволяет выявить тенденции и принять обоснованные решения."

var executiveInsights = []Insight{
	{Text: "Рост просмотров на 15% за последний период", Tone: "positive"},
	{Text: "Конверсия в контакты остается стабильной", Tone: "info"},
	{Text: "Рекомендуется увеличить активность в выходные", Tone: "warning"},
}

const executiveMetricLimit = 4

var chartHeights = map[Mode]map[Size]int{
	ModePreview: {SizeSmall: 150, SizeMedium: 200, SizeLarge: 300},
	ModeView:    {SizeSmall: 120, SizeMedium: 180, SizeLarge: 220},
}

// ChartHeight returns the pixel height of a chart for the mode and size.
func ChartHeight(mode Mode, size Size) int {
	heights, ok := chartHeights[mode]
	if !ok {
		heights = chartHeights[ModePreview]
	}
	if h, ok := heights[size]; ok {
		return h
	}
	return heights[SizeMedium]
}

// Composition is the input shared by every layout strategy.
type Composition struct {
	Metrics []Metric
	Charts  []Chart
	Values  Values
}

// Strategy arranges metrics and charts into sections. Strategies never compute values.
type Strategy interface {
	Sections(in Composition) []Section
}

// StrategyFunc adapts a function into a Strategy.
type StrategyFunc func(in Composition) []Section

// Sections calls f(in).
func (f StrategyFunc) Sections(in Composition) []Section {
	return f(in)
}

var strategies = map[Layout]Strategy{
	LayoutStandard:  StrategyFunc(standardSections),
	LayoutCompact:   StrategyFunc(compactSections),
	LayoutDetailed:  StrategyFunc(detailedSections),
	LayoutExecutive: StrategyFunc(executiveSections),
}

// StrategyFor returns the strategy for a layout. Unknown layouts use standard.
func StrategyFor(layout Layout) Strategy {
	if s, ok := strategies[layout]; ok {
		return s
	}
	return strategies[LayoutStandard]
}

func standardSections(in Composition) []Section {
	var out []Section
	if len(in.Metrics) > 0 {
		out = append(out, metricSection("Основные метрики", 4, SizeMedium, in.Metrics, in.Values))
	}
	if len(in.Charts) > 0 {
		out = append(out, chartSection("Графики и диаграммы", 2, SizeMedium, in.Charts))
	}
	return out
}

func compactSections(in Composition) []Section {
	var out []Section
	if len(in.Metrics) > 0 {
		out = append(out, metricSection("Основные метрики", 2, SizeSmall, in.Metrics, in.Values))
	}
	if len(in.Charts) > 0 {
		out = append(out, chartSection("Графики", 3, SizeSmall, in.Charts))
	}
	return out
}

func detailedSections(in Composition) []Section {
	var out []Section
	if len(in.Metrics) > 0 {
		section := metricSection("Детальная аналитика", 1, SizeLarge, in.Metrics, in.Values)
		for i := range section.Cards {
			stats := in.Values.StatsFor(section.Cards[i].Metric)
			section.Cards[i].Details = []string{
				"Изменение за период: " + stats.Change,
				"Средний показатель: " + stats.Average,
				"Лучший день: " + stats.BestDay,
			}
		}
		out = append(out, section)
	}
	if len(in.Charts) > 0 {
		section := chartSection("Подробная визуализация", 1, SizeLarge, in.Charts)
		for i := range section.Charts {
			section.Charts[i].Description = chartDescription
		}
		out = append(out, section)
	}
	return out
}

func executiveSections(in Composition) []Section {
	var out []Section
	if len(in.Metrics) > 0 {
		metrics := in.Metrics
		if len(metrics) > executiveMetricLimit {
			metrics = metrics[:executiveMetricLimit]
		}
		out = append(out, metricSection("Ключевые показатели", 2, SizeLarge, metrics, in.Values))
		out = append(out, Section{
			Kind:     SectionInsights,
			Heading:  "Краткие выводы",
			Columns:  1,
			Size:     SizeLarge,
			Insights: append([]Insight(nil), executiveInsights...),
		})
	}
	if len(in.Charts) > 0 {
		out = append(out, chartSection("Основной тренд", 1, SizeLarge, in.Charts[:1]))
		if len(in.Charts) > 1 {
			out = append(out, chartSection("", 2, SizeMedium, in.Charts[1:]))
		}
	}
	return out
}

func metricSection(heading string, columns int, size Size, metrics []Metric, values Values) Section {
	section := Section{
		Kind:    SectionMetrics,
		Heading: heading,
		Columns: columns,
		Size:    size,
		Cards:   make([]MetricCard, 0, len(metrics)),
	}
	for _, m := range metrics {
		info := MetricDetails(m)
		section.Cards = append(section.Cards, MetricCard{
			Metric: m,
			Name:   info.Name,
			Icon:   info.Icon,
			Value:  values.Value(m),
			Size:   size,
		})
	}
	return section
}

func chartSection(heading string, columns int, size Size, list []Chart) Section {
	section := Section{
		Kind:    SectionCharts,
		Heading: heading,
		Columns: columns,
		Size:    size,
		Charts:  make([]ChartBlock, 0, len(list)),
	}
	for _, c := range list {
		section.Charts = append(section.Charts, ChartBlock{
			Chart: c,
			Title: ChartDetails(c).Title,
			Size:  size,
		})
	}
	return section
}

// Composer builds render trees and fills chart markup.
type Composer struct {
	charts ChartRenderer
	theme  string
}

// NewComposer creates a composer. A nil renderer leaves chart markup empty.
func NewComposer(renderer ChartRenderer) *Composer {
	return &Composer{charts: renderer}
}

// WithTheme returns a copy of the composer that renders charts using theme.
func (c *Composer) WithTheme(theme string) *Composer {
	clone := *c
	clone.theme = theme
	return &clone
}

// ComposeInput is a request to build a tree.
type ComposeInput struct {
	Title   string
	Layout  Layout
	Mode    Mode
	Metrics []Metric
	Charts  []Chart
	Values  Values
}

// Compose arranges the input with the layout's strategy and renders every chart block.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) (Tree, error) {
	mode := in.Mode
	if mode == "" {
		mode = ModePreview
	}
	layout := in.Layout
	if !layout.Valid() {
		layout = LayoutStandard
	}
	tree := Tree{
		Title:  in.Title,
		Layout: layout,
		Mode:   mode,
		Sections: StrategyFor(layout).Sections(Composition{
			Metrics: in.Metrics,
			Charts:  in.Charts,
			Values:  in.Values,
		}),
	}
	firstChart := true
	for si := range tree.Sections {
		section := &tree.Sections[si]
		if section.Kind != SectionCharts {
			continue
		}
		if mode == ModeView && firstChart {
			section.PageBreak = true
		}
		firstChart = false
		for ci := range section.Charts {
			block := &section.Charts[ci]
			block.Height = ChartHeight(mode, block.Size)
			if c.charts == nil {
				continue
			}
			markup, err := c.charts.RenderChart(ctx, ChartRequest{
				Chart:  block.Chart,
				Title:  block.Title,
				Height: block.Height,
				Series: in.Values.Series,
				Theme:  c.theme,
			})
			if err != nil {
				return Tree{}, fmt.Errorf("reports: render %s chart: %w", block.Chart, err)
			}
			block.HTML = markup
		}
	}
	return tree, nil
}
