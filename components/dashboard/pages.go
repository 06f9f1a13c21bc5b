package dashboard

import (
	"fmt"

	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// OverviewCard is one tile on the overview page.
type OverviewCard struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// OverviewPage is the data behind the main page.
type OverviewPage struct {
	Range DateRange       `json:"range"`
	Stats AggregatedStats `json:"stats"`
	Cards []OverviewCard  `json:"cards"`
	Stale bool            `json:"stale"`
}

func newOverviewPage(dates DateRange, stats AggregatedStats, stale bool) OverviewPage {
	return OverviewPage{Range: dates, Stats: stats, Cards: OverviewCards(stats), Stale: stale}
}

// OverviewCards formats the aggregated statistics as overview tiles.
func OverviewCards(stats AggregatedStats) []OverviewCard {
	return []OverviewCard{
		{Key: "active_cabinets", Title: "Активных аккаунтов", Value: reports.FormatCount(stats.ActiveCabinets), Icon: "users"},
		{Key: "total_vacancies", Title: "Всего объявлений", Value: reports.FormatCount(stats.TotalVacancies), Icon: "file-text"},
		{Key: "total_views", Title: "Просмотры", Value: reports.FormatCount(stats.TotalViews), Icon: "eye"},
		{Key: "total_responses", Title: "Отклики", Value: reports.FormatCount(stats.TotalResponses), Icon: "message-square"},
		{Key: "conversion", Title: "Конверсия", Value: fmt.Sprintf("%.1f%%", stats.AverageConnectionConversion*100), Icon: "trending-up"},
		{Key: "average_ctr", Title: "Средний CTR", Value: fmt.Sprintf("%.1f%%", stats.AverageCTR), Icon: "mouse-pointer"},
	}
}

// AccountsPage is one page of cabinets.
type AccountsPage struct {
	Rows       []Account  `json:"rows"`
	Pagination Pagination `json:"pagination"`
}

// BalanceSummary totals the balances shown on a page.
type BalanceSummary struct {
	TotalBalance float64 `json:"total_balance"`
	TotalSpent   float64 `json:"total_spent"`
	Alerts       int     `json:"alerts"`
}

// Balance is the spendable amount: wallet plus prepayment converted from kopecks.
func (b BalanceRow) Balance() float64 {
	return b.Wallet + b.Prepayment/100
}

// Alerting reports whether the row needs attention.
func (b BalanceRow) Alerting() bool {
	return b.Status == BalanceStatusCritical || b.Status == BalanceStatusWarning
}

// SummarizeBalances totals balances and counts rows in warning or critical state.
func SummarizeBalances(rows []BalanceRow) BalanceSummary {
	var out BalanceSummary
	for _, row := range rows {
		out.TotalBalance += row.Balance()
		out.TotalSpent += row.Spent
		if row.Alerting() {
			out.Alerts++
		}
	}
	return out
}

// BalancesPage is one page of balances with its summary.
type BalancesPage struct {
	Rows       []BalanceRow   `json:"rows"`
	Summary    BalanceSummary `json:"summary"`
	Pagination Pagination     `json:"pagination"`
}

// StatisticsSummary totals the statistics shown on a page.
type StatisticsSummary struct {
	TotalViews     int64   `json:"total_views"`
	TotalResponses int64   `json:"total_responses"`
	AverageCTR     float64 `json:"average_ctr"`
	AverageAmoCTR  float64 `json:"average_amo_ctr"`
}

// SummarizeStatistics sums views and responses and averages the rates.
// Row CTR values arrive scaled by 100.
func SummarizeStatistics(rows []StatisticsRow) StatisticsSummary {
	var out StatisticsSummary
	if len(rows) == 0 {
		return out
	}
	var ctr, amo float64
	for _, row := range rows {
		out.TotalViews += row.TotalViews
		out.TotalResponses += row.TotalResponses
		ctr += row.CTR
		amo += row.AmoCTR
	}
	n := float64(len(rows))
	out.AverageCTR = ctr / n / 100
	out.AverageAmoCTR = amo / n
	return out
}

// StatisticsPage is one page of per-cabinet statistics.
type StatisticsPage struct {
	Range      DateRange         `json:"range"`
	Rows       []StatisticsRow   `json:"rows"`
	Summary    StatisticsSummary `json:"summary"`
	Chart      string            `json:"-"`
	Pagination Pagination        `json:"pagination"`
}

// ListingsPage is one page of a cabinet's listings.
type ListingsPage struct {
	CabinetID  string     `json:"cabinet_id"`
	Range      DateRange  `json:"range"`
	Rows       []Vacancy  `json:"rows"`
	Pagination Pagination `json:"pagination"`
}
