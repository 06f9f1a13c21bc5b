package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/reports"
)

type reportService interface {
	List(ctx context.Context) ([]reports.SavedReport, error)
	Preview(ctx context.Context, cfg reports.Config) (reports.Tree, error)
	View(ctx context.Context, id string) (reports.Tree, error)
	Schedule(cfg reports.Config) (reports.ScheduleInfo, error)
}

// ReportsQuery lists saved reports.
type ReportsQuery struct {
	service reportService
}

// NewReportsQuery builds the query.
func NewReportsQuery(service reportService) *ReportsQuery {
	return &ReportsQuery{service: service}
}

var _ gocommand.Querier[struct{}, []reports.SavedReport] = (*ReportsQuery)(nil)

// Query returns the saved reports.
func (q *ReportsQuery) Query(ctx context.Context, _ struct{}) ([]reports.SavedReport, error) {
	return q.service.List(ctx)
}

// ReportPreviewQuery composes an unsaved configuration with sample values.
type ReportPreviewQuery struct {
	service reportService
}

// NewReportPreviewQuery builds the query.
func NewReportPreviewQuery(service reportService) *ReportPreviewQuery {
	return &ReportPreviewQuery{service: service}
}

var _ gocommand.Querier[reports.Config, reports.Tree] = (*ReportPreviewQuery)(nil)

// Query composes the preview tree.
func (q *ReportPreviewQuery) Query(ctx context.Context, cfg reports.Config) (reports.Tree, error) {
	return q.service.Preview(ctx, cfg)
}

// ReportViewQuery composes a saved report from its render data.
type ReportViewQuery struct {
	service reportService
}

// NewReportViewQuery builds the query.
func NewReportViewQuery(service reportService) *ReportViewQuery {
	return &ReportViewQuery{service: service}
}

var _ gocommand.Querier[string, reports.Tree] = (*ReportViewQuery)(nil)

// Query composes the view tree.
func (q *ReportViewQuery) Query(ctx context.Context, id string) (reports.Tree, error) {
	return q.service.View(ctx, id)
}

// ReportScheduleQuery describes a configuration's delivery schedule.
type ReportScheduleQuery struct {
	service reportService
}

// NewReportScheduleQuery builds the query.
func NewReportScheduleQuery(service reportService) *ReportScheduleQuery {
	return &ReportScheduleQuery{service: service}
}

var _ gocommand.Querier[reports.Config, reports.ScheduleInfo] = (*ReportScheduleQuery)(nil)

// Query returns the schedule description and next run.
func (q *ReportScheduleQuery) Query(_ context.Context, cfg reports.Config) (reports.ScheduleInfo, error) {
	return q.service.Schedule(cfg)
}
