package dashboard

import (
	core "github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// ReportsService exposes the report builder service.
type ReportsService = reports.Service

// ReportsOptions re-export for convenience.
type ReportsOptions = reports.Options

// NewReportsService proxies to the report builder constructor.
func NewReportsService(opts ReportsOptions) *ReportsService {
	return reports.NewService(opts)
}
