package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

type listingsService interface {
	Listings(ctx context.Context, req dashboard.ListingsRequest) (dashboard.ListingsPage, error)
	CabinetFile(ctx context.Context, cabinetID string, req dashboard.PageRequest) (dashboard.ListingsPage, error)
	CabinetImages(ctx context.Context, cabinetID string) ([]string, error)
	Cabinets(ctx context.Context) []dashboard.Cabinet
}

// ListingsQuery pages through a cabinet's listings.
type ListingsQuery struct {
	service listingsService
}

// NewListingsQuery builds the query.
func NewListingsQuery(service listingsService) *ListingsQuery {
	return &ListingsQuery{service: service}
}

var _ gocommand.Querier[dashboard.ListingsRequest, dashboard.ListingsPage] = (*ListingsQuery)(nil)

// Query returns one page of listings.
func (q *ListingsQuery) Query(ctx context.Context, req dashboard.ListingsRequest) (dashboard.ListingsPage, error) {
	return q.service.Listings(ctx, req)
}

// CabinetFileInput selects a page of a cabinet file.
type CabinetFileInput struct {
	CabinetID string
	Page      dashboard.PageRequest
}

// CabinetFileQuery pages through the cabinet's listing file.
type CabinetFileQuery struct {
	service listingsService
}

// NewCabinetFileQuery builds the query.
func NewCabinetFileQuery(service listingsService) *CabinetFileQuery {
	return &CabinetFileQuery{service: service}
}

var _ gocommand.Querier[CabinetFileInput, dashboard.ListingsPage] = (*CabinetFileQuery)(nil)

// Query returns one page of the file.
func (q *CabinetFileQuery) Query(ctx context.Context, input CabinetFileInput) (dashboard.ListingsPage, error) {
	return q.service.CabinetFile(ctx, input.CabinetID, input.Page)
}

// CabinetImagesQuery lists uploaded image URLs.
type CabinetImagesQuery struct {
	service listingsService
}

// NewCabinetImagesQuery builds the query.
func NewCabinetImagesQuery(service listingsService) *CabinetImagesQuery {
	return &CabinetImagesQuery{service: service}
}

var _ gocommand.Querier[string, []string] = (*CabinetImagesQuery)(nil)

// Query returns the cabinet's image URLs.
func (q *CabinetImagesQuery) Query(ctx context.Context, cabinetID string) ([]string, error) {
	return q.service.CabinetImages(ctx, cabinetID)
}

// CabinetsQuery lists selector options. It never fails; the fallback list is served instead.
type CabinetsQuery struct {
	service listingsService
}

// NewCabinetsQuery builds the query.
func NewCabinetsQuery(service listingsService) *CabinetsQuery {
	return &CabinetsQuery{service: service}
}

var _ gocommand.Querier[struct{}, []dashboard.Cabinet] = (*CabinetsQuery)(nil)

// Query returns the cabinet options.
func (q *CabinetsQuery) Query(ctx context.Context, _ struct{}) ([]dashboard.Cabinet, error) {
	return q.service.Cabinets(ctx), nil
}
