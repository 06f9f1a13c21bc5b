package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/queries"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// ErrNotConfigured is returned when an endpoint's commander or querier is missing.
var ErrNotConfigured = errors.New("httpapi: handler not configured")

// Executor is the transport-facing surface shared by every adapter.
type Executor interface {
	Overview(ctx context.Context, dates dashboard.DateRange) (dashboard.OverviewPage, error)
	Accounts(ctx context.Context, page dashboard.PageRequest) (dashboard.AccountsPage, error)
	AddAccount(ctx context.Context, account dashboard.NewAccount) error
	Balances(ctx context.Context, page dashboard.PageRequest) (dashboard.BalancesPage, error)
	Statistics(ctx context.Context, req dashboard.StatisticsRequest) (dashboard.StatisticsPage, error)
	Cabinets(ctx context.Context) ([]dashboard.Cabinet, error)
	Listings(ctx context.Context, req dashboard.ListingsRequest) (dashboard.ListingsPage, error)
	CabinetFile(ctx context.Context, input queries.CabinetFileInput) (dashboard.ListingsPage, error)
	CabinetImages(ctx context.Context, cabinetID string) ([]string, error)
	CreateListings(ctx context.Context, form dashboard.ListingForm) (int, error)
	UpdateListing(ctx context.Context, input commands.UpdateListingInput) error
	DeleteListing(ctx context.Context, input commands.DeleteListingInput) error
	ReplaceCities(ctx context.Context, form dashboard.CityReplaceForm) error
	UploadImages(ctx context.Context, cabinetID string, files []dashboard.ImageFile) ([]string, error)
	Theme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeSelection, error)
	SetTheme(ctx context.Context, input commands.SetThemeInput) error
	Comparison(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.Account, error)
	UpdateComparison(ctx context.Context, input commands.ComparisonInput) error
	WarmStats(ctx context.Context, input commands.WarmStatsInput) error
	Reports(ctx context.Context) ([]reports.SavedReport, error)
	SaveReport(ctx context.Context, cfg reports.Config) (reports.Ref, error)
	ReportPreview(ctx context.Context, cfg reports.Config) (reports.Tree, error)
	ReportView(ctx context.Context, id string) (reports.Tree, error)
	ReportSchedule(ctx context.Context, cfg reports.Config) (reports.ScheduleInfo, error)
}

// CommandExecutor implements Executor on top of go-command commanders and queriers.
type CommandExecutor struct {
	OverviewQuerier      gocommand.Querier[dashboard.DateRange, dashboard.OverviewPage]
	AccountsQuerier      gocommand.Querier[dashboard.PageRequest, dashboard.AccountsPage]
	AddAccountCommander  gocommand.Commander[dashboard.NewAccount]
	BalancesQuerier      gocommand.Querier[dashboard.PageRequest, dashboard.BalancesPage]
	StatisticsQuerier    gocommand.Querier[dashboard.StatisticsRequest, dashboard.StatisticsPage]
	CabinetsQuerier      gocommand.Querier[struct{}, []dashboard.Cabinet]
	ListingsQuerier      gocommand.Querier[dashboard.ListingsRequest, dashboard.ListingsPage]
	CabinetFileQuerier   gocommand.Querier[queries.CabinetFileInput, dashboard.ListingsPage]
	CabinetImagesQuerier gocommand.Querier[string, []string]
	CreateCommander      gocommand.Commander[commands.CreateListingsInput]
	UpdateCommander      gocommand.Commander[commands.UpdateListingInput]
	DeleteCommander      gocommand.Commander[commands.DeleteListingInput]
	ReplaceCommander     gocommand.Commander[dashboard.CityReplaceForm]
	UploadCommander      gocommand.Commander[commands.UploadImagesInput]
	ThemeQuerier         gocommand.Querier[dashboard.ViewerContext, dashboard.ThemeSelection]
	ThemeCommander       gocommand.Commander[commands.SetThemeInput]
	ComparisonQuerier    gocommand.Querier[dashboard.ViewerContext, []dashboard.Account]
	ComparisonCommander  gocommand.Commander[commands.ComparisonInput]
	WarmCommander        gocommand.Commander[commands.WarmStatsInput]
	ReportsQuerier       gocommand.Querier[struct{}, []reports.SavedReport]
	SaveReportCommander  gocommand.Commander[commands.SaveReportInput]
	PreviewQuerier       gocommand.Querier[reports.Config, reports.Tree]
	ViewQuerier          gocommand.Querier[string, reports.Tree]
	ScheduleQuerier      gocommand.Querier[reports.Config, reports.ScheduleInfo]
}

var _ Executor = (*CommandExecutor)(nil)

// DashboardServices lists the services NewCommandExecutor wires into commands and queries.
type DashboardServices struct {
	Dashboard *dashboard.Service
	Reports   *reports.Service
	Telemetry commands.Telemetry
}

// NewCommandExecutor wires every commander and querier to the given services.
func NewCommandExecutor(svc DashboardServices) *CommandExecutor {
	exec := &CommandExecutor{}
	if d := svc.Dashboard; d != nil {
		exec.OverviewQuerier = queries.NewOverviewQuery(d)
		exec.AccountsQuerier = queries.NewAccountsQuery(d)
		exec.AddAccountCommander = commands.NewAddAccountCommand(d, svc.Telemetry)
		exec.BalancesQuerier = queries.NewBalancesQuery(d)
		exec.StatisticsQuerier = queries.NewStatisticsQuery(d)
		exec.CabinetsQuerier = queries.NewCabinetsQuery(d)
		exec.ListingsQuerier = queries.NewListingsQuery(d)
		exec.CabinetFileQuerier = queries.NewCabinetFileQuery(d)
		exec.CabinetImagesQuerier = queries.NewCabinetImagesQuery(d)
		exec.CreateCommander = commands.NewCreateListingsCommand(d, svc.Telemetry)
		exec.UpdateCommander = commands.NewUpdateListingCommand(d, svc.Telemetry)
		exec.DeleteCommander = commands.NewDeleteListingCommand(d, svc.Telemetry)
		exec.ReplaceCommander = commands.NewReplaceCitiesCommand(d, svc.Telemetry)
		exec.UploadCommander = commands.NewUploadImagesCommand(d, svc.Telemetry)
		exec.ThemeQuerier = queries.NewThemeQuery(d)
		exec.ThemeCommander = commands.NewSetThemeCommand(d, svc.Telemetry)
		exec.ComparisonQuerier = queries.NewComparisonQuery(d)
		exec.ComparisonCommander = commands.NewUpdateComparisonCommand(d, svc.Telemetry)
		exec.WarmCommander = commands.NewWarmStatsCommand(d, svc.Telemetry)
	}
	if r := svc.Reports; r != nil {
		exec.ReportsQuerier = queries.NewReportsQuery(r)
		exec.SaveReportCommander = commands.NewSaveReportCommand(r, svc.Telemetry)
		exec.PreviewQuerier = queries.NewReportPreviewQuery(r)
		exec.ViewQuerier = queries.NewReportViewQuery(r)
		exec.ScheduleQuerier = queries.NewReportScheduleQuery(r)
	}
	return exec
}

func query[In, Out any](ctx context.Context, q gocommand.Querier[In, Out], in In) (Out, error) {
	if q == nil {
		var zero Out
		return zero, ErrNotConfigured
	}
	return q.Query(ctx, in)
}

func execute[T any](ctx context.Context, c gocommand.Commander[T], msg T) error {
	if c == nil {
		return ErrNotConfigured
	}
	return c.Execute(ctx, msg)
}

func (e *CommandExecutor) Overview(ctx context.Context, dates dashboard.DateRange) (dashboard.OverviewPage, error) {
	return query(ctx, e.OverviewQuerier, dates)
}

func (e *CommandExecutor) Accounts(ctx context.Context, page dashboard.PageRequest) (dashboard.AccountsPage, error) {
	return query(ctx, e.AccountsQuerier, page)
}

func (e *CommandExecutor) AddAccount(ctx context.Context, account dashboard.NewAccount) error {
	return execute(ctx, e.AddAccountCommander, account)
}

func (e *CommandExecutor) Balances(ctx context.Context, page dashboard.PageRequest) (dashboard.BalancesPage, error) {
	return query(ctx, e.BalancesQuerier, page)
}

func (e *CommandExecutor) Statistics(ctx context.Context, req dashboard.StatisticsRequest) (dashboard.StatisticsPage, error) {
	return query(ctx, e.StatisticsQuerier, req)
}

func (e *CommandExecutor) Cabinets(ctx context.Context) ([]dashboard.Cabinet, error) {
	return query(ctx, e.CabinetsQuerier, struct{}{})
}

func (e *CommandExecutor) Listings(ctx context.Context, req dashboard.ListingsRequest) (dashboard.ListingsPage, error) {
	return query(ctx, e.ListingsQuerier, req)
}

func (e *CommandExecutor) CabinetFile(ctx context.Context, input queries.CabinetFileInput) (dashboard.ListingsPage, error) {
	return query(ctx, e.CabinetFileQuerier, input)
}

func (e *CommandExecutor) CabinetImages(ctx context.Context, cabinetID string) ([]string, error) {
	return query(ctx, e.CabinetImagesQuerier, cabinetID)
}

// CreateListings returns how many listings were created.
func (e *CommandExecutor) CreateListings(ctx context.Context, form dashboard.ListingForm) (int, error) {
	var created int
	err := execute(ctx, e.CreateCommander, commands.CreateListingsInput{Form: form, Created: &created})
	return created, err
}

func (e *CommandExecutor) UpdateListing(ctx context.Context, input commands.UpdateListingInput) error {
	return execute(ctx, e.UpdateCommander, input)
}

func (e *CommandExecutor) DeleteListing(ctx context.Context, input commands.DeleteListingInput) error {
	return execute(ctx, e.DeleteCommander, input)
}

func (e *CommandExecutor) ReplaceCities(ctx context.Context, form dashboard.CityReplaceForm) error {
	return execute(ctx, e.ReplaceCommander, form)
}

// UploadImages returns the URLs of the stored images.
func (e *CommandExecutor) UploadImages(ctx context.Context, cabinetID string, files []dashboard.ImageFile) ([]string, error) {
	var urls []string
	err := execute(ctx, e.UploadCommander, commands.UploadImagesInput{CabinetID: cabinetID, Files: files, URLs: &urls})
	return urls, err
}

func (e *CommandExecutor) Theme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeSelection, error) {
	return query(ctx, e.ThemeQuerier, viewer)
}

func (e *CommandExecutor) SetTheme(ctx context.Context, input commands.SetThemeInput) error {
	return execute(ctx, e.ThemeCommander, input)
}

func (e *CommandExecutor) Comparison(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.Account, error) {
	return query(ctx, e.ComparisonQuerier, viewer)
}

func (e *CommandExecutor) UpdateComparison(ctx context.Context, input commands.ComparisonInput) error {
	return execute(ctx, e.ComparisonCommander, input)
}

func (e *CommandExecutor) WarmStats(ctx context.Context, input commands.WarmStatsInput) error {
	return execute(ctx, e.WarmCommander, input)
}

func (e *CommandExecutor) Reports(ctx context.Context) ([]reports.SavedReport, error) {
	return query(ctx, e.ReportsQuerier, struct{}{})
}

// SaveReport submits the configuration and returns the backend reference.
func (e *CommandExecutor) SaveReport(ctx context.Context, cfg reports.Config) (reports.Ref, error) {
	var ref reports.Ref
	err := execute(ctx, e.SaveReportCommander, commands.SaveReportInput{Config: cfg, Result: &ref})
	return ref, err
}

func (e *CommandExecutor) ReportPreview(ctx context.Context, cfg reports.Config) (reports.Tree, error) {
	return query(ctx, e.PreviewQuerier, cfg)
}

func (e *CommandExecutor) ReportView(ctx context.Context, id string) (reports.Tree, error) {
	return query(ctx, e.ViewQuerier, id)
}

func (e *CommandExecutor) ReportSchedule(ctx context.Context, cfg reports.Config) (reports.ScheduleInfo, error) {
	return query(ctx, e.ScheduleQuerier, cfg)
}
