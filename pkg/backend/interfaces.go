package backend

import (
	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// Client is the full remote API consumed by the dashboard and reports services.
type Client interface {
	dashboard.Backend
	reports.Backend
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
