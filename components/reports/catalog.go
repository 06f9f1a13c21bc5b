package reports

// MetricInfo describes how a metric is presented.
type MetricInfo struct {
	Tag   Metric `json:"tag"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Token string `json:"token"`
}

// ChartInfo describes how a chart is presented.
type ChartInfo struct {
	Tag   Chart  `json:"tag"`
	Title string `json:"title"`
	Token string `json:"token"`
}

// LayoutInfo describes a layout option in the report form.
type LayoutInfo struct {
	Tag         Layout `json:"tag"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var metricCatalog = map[Metric]MetricInfo{
	MetricViews:          {Tag: MetricViews, Name: "Просмотры", Icon: "eye", Token: "просмотры"},
	MetricContacts:       {Tag: MetricContacts, Name: "Контакты", Icon: "phone", Token: "контакты"},
	MetricFavorites:      {Tag: MetricFavorites, Name: "Избранное", Icon: "heart", Token: "избранное"},
	MetricConversion:     {Tag: MetricConversion, Name: "Конверсия", Icon: "trending-up", Token: "конверсия"},
	MetricActiveListings: {Tag: MetricActiveListings, Name: "Активные объявления", Icon: "users", Token: "активные_объявления"},
}

var chartCatalog = map[Chart]ChartInfo{
	ChartLine: {Tag: ChartLine, Title: "Динамика метрик", Token: "линейный_график"},
	ChartBar:  {Tag: ChartBar, Title: "Столбчатая диаграмма", Token: "столбчатая_диаграмма"},
	ChartPie:  {Tag: ChartPie, Title: "Распределение метрик", Token: "круговая_диаграмма"},
}

var layoutCatalog = map[Layout]LayoutInfo{
	LayoutStandard: {
		Tag:         LayoutStandard,
		Name:        "Стандартный",
		Description: "Классический макет с метриками в 4 колонки и графиками в 2 колонки",
	},
	LayoutCompact: {
		Tag:         LayoutCompact,
		Name:        "Компактный",
		Description: "Сжатый макет с метриками в 2 колонки и небольшими графиками",
	},
	LayoutDetailed: {
		Tag:         LayoutDetailed,
		Name:        "Детальный",
		Description: "Подробный макет с расширенной информацией по каждой метрике",
	},
	LayoutExecutive: {
		Tag:         LayoutExecutive,
		Name:        "Исполнительный",
		Description: "Макет для руководства с ключевыми показателями и выводами",
	},
}

var periodLabels = map[Period]string{
	PeriodDaily:   "Ежедневно",
	PeriodWeekly:  "Еженедельно",
	PeriodMonthly: "Ежемесячно",
}

// MetricDetails returns presentation details for a metric. Unknown tags echo back as their own name.
func MetricDetails(m Metric) MetricInfo {
	if info, ok := metricCatalog[m]; ok {
		return info
	}
	return MetricInfo{Tag: m, Name: string(m)}
}

// ChartDetails returns presentation details for a chart.
func ChartDetails(c Chart) ChartInfo {
	if info, ok := chartCatalog[c]; ok {
		return info
	}
	return ChartInfo{Tag: c, Title: string(c)}
}

// LayoutDetails returns the display name and description of a layout, falling back to standard.
func LayoutDetails(l Layout) LayoutInfo {
	if info, ok := layoutCatalog[l]; ok {
		return info
	}
	return layoutCatalog[LayoutStandard]
}

// PeriodLabel returns the human label of a period.
func PeriodLabel(p Period) string {
	return periodLabels[p]
}

// Catalog is the full set of options offered by the report form.
type Catalog struct {
	Metrics []MetricInfo `json:"metrics"`
	Charts  []ChartInfo  `json:"charts"`
	Layouts []LayoutInfo `json:"layouts"`
	Periods []PeriodInfo `json:"periods"`
}

// PeriodInfo pairs a period tag with its label.
type PeriodInfo struct {
	Tag   Period `json:"tag"`
	Label string `json:"label"`
}

// FormCatalog returns the report form catalog in display order.
func FormCatalog() Catalog {
	var cat Catalog
	for _, m := range AllMetrics() {
		cat.Metrics = append(cat.Metrics, metricCatalog[m])
	}
	for _, c := range AllCharts() {
		cat.Charts = append(cat.Charts, chartCatalog[c])
	}
	for _, l := range AllLayouts() {
		cat.Layouts = append(cat.Layouts, layoutCatalog[l])
	}
	for _, p := range AllPeriods() {
		cat.Periods = append(cat.Periods, PeriodInfo{Tag: p, Label: periodLabels[p]})
	}
	return cat
}
