package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

type overviewService interface {
	Overview(ctx context.Context, dates dashboard.DateRange) (dashboard.OverviewPage, error)
}

// OverviewQuery loads the aggregated statistics page.
type OverviewQuery struct {
	service overviewService
}

// NewOverviewQuery builds the query.
func NewOverviewQuery(service overviewService) *OverviewQuery {
	return &OverviewQuery{service: service}
}

var _ gocommand.Querier[dashboard.DateRange, dashboard.OverviewPage] = (*OverviewQuery)(nil)

// Query resolves the overview for the range.
func (q *OverviewQuery) Query(ctx context.Context, dates dashboard.DateRange) (dashboard.OverviewPage, error) {
	return q.service.Overview(ctx, dates)
}

type accountsService interface {
	Accounts(ctx context.Context, req dashboard.PageRequest) (dashboard.AccountsPage, error)
	Balances(ctx context.Context, req dashboard.PageRequest) (dashboard.BalancesPage, error)
}

// AccountsQuery pages through cabinets.
type AccountsQuery struct {
	service accountsService
}

// NewAccountsQuery builds the query.
func NewAccountsQuery(service accountsService) *AccountsQuery {
	return &AccountsQuery{service: service}
}

var _ gocommand.Querier[dashboard.PageRequest, dashboard.AccountsPage] = (*AccountsQuery)(nil)

// Query returns one page of accounts.
func (q *AccountsQuery) Query(ctx context.Context, req dashboard.PageRequest) (dashboard.AccountsPage, error) {
	return q.service.Accounts(ctx, req)
}

// BalancesQuery pages through balances.
type BalancesQuery struct {
	service accountsService
}

// NewBalancesQuery builds the query.
func NewBalancesQuery(service accountsService) *BalancesQuery {
	return &BalancesQuery{service: service}
}

var _ gocommand.Querier[dashboard.PageRequest, dashboard.BalancesPage] = (*BalancesQuery)(nil)

// Query returns one page of balances with totals.
func (q *BalancesQuery) Query(ctx context.Context, req dashboard.PageRequest) (dashboard.BalancesPage, error) {
	return q.service.Balances(ctx, req)
}

type statisticsService interface {
	Statistics(ctx context.Context, req dashboard.StatisticsRequest) (dashboard.StatisticsPage, error)
}

// StatisticsQuery pages through per-cabinet statistics.
type StatisticsQuery struct {
	service statisticsService
}

// NewStatisticsQuery builds the query.
func NewStatisticsQuery(service statisticsService) *StatisticsQuery {
	return &StatisticsQuery{service: service}
}

var _ gocommand.Querier[dashboard.StatisticsRequest, dashboard.StatisticsPage] = (*StatisticsQuery)(nil)

// Query returns one page of statistics.
func (q *StatisticsQuery) Query(ctx context.Context, req dashboard.StatisticsRequest) (dashboard.StatisticsPage, error) {
	return q.service.Statistics(ctx, req)
}
