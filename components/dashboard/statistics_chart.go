package dashboard

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const statisticsChartHeight = "320px"

// RenderStatisticsChart draws views and responses per cabinet as a bar chart.
func RenderStatisticsChart(rows []StatisticsRow, theme, assetsHost string) (string, error) {
	names := make([]string, len(rows))
	views := make([]opts.BarData, len(rows))
	responses := make([]opts.BarData, len(rows))
	for i, row := range rows {
		names[i] = row.Name
		views[i] = opts.BarData{Value: row.TotalViews}
		responses[i] = opts.BarData{Value: row.TotalResponses}
	}
	init := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: statisticsChartHeight,
	}
	if assetsHost != "" {
		init.AssetsHost = assetsHost
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: "Просмотры и отклики по кабинетам"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names)
	bar.AddSeries("Просмотры", views)
	bar.AddSeries("Отклики", responses)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
