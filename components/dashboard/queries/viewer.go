package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

type viewerService interface {
	Theme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeSelection, error)
	Comparison(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.Account, error)
}

// ThemeQuery resolves the viewer's theme.
type ThemeQuery struct {
	service viewerService
}

// NewThemeQuery builds the query.
func NewThemeQuery(service viewerService) *ThemeQuery {
	return &ThemeQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.ThemeSelection] = (*ThemeQuery)(nil)

// Query returns the viewer's theme selection.
func (q *ThemeQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeSelection, error) {
	return q.service.Theme(ctx, viewer)
}

// ComparisonQuery lists the viewer's compared accounts.
type ComparisonQuery struct {
	service viewerService
}

// NewComparisonQuery builds the query.
func NewComparisonQuery(service viewerService) *ComparisonQuery {
	return &ComparisonQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, []dashboard.Account] = (*ComparisonQuery)(nil)

// Query returns the selection.
func (q *ComparisonQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.Account, error) {
	return q.service.Comparison(ctx, viewer)
}
