package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"sync"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// ErrNotFound is returned by MockClient for unknown cabinets, listings and reports.
var ErrNotFound = errors.New("backend: not found")

// MockData seeds deterministic responses for tests or local demos.
type MockData struct {
	Accounts   []dashboard.Account
	Balances   []dashboard.BalanceRow
	Statistics []dashboard.StatisticsRow
	Stats      dashboard.AggregatedStats
	Vacancies  map[string][]dashboard.Vacancy
	Images     map[string][]string
	Reports    []reports.StoredReport
	RenderData map[string]reports.StoredRenderData
}

// MockClient implements Client using in-memory fixtures. Writes mutate the fixtures.
type MockClient struct {
	mu   sync.RWMutex
	data MockData
	next int
}

// NewMockClient builds a mock client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Vacancies == nil {
		data.Vacancies = map[string][]dashboard.Vacancy{}
	}
	if data.Images == nil {
		data.Images = map[string][]string{}
	}
	if data.RenderData == nil {
		data.RenderData = map[string]reports.StoredRenderData{}
	}
	return &MockClient{data: data, next: len(data.Reports)}
}

func (c *MockClient) AllCabinets(context.Context) ([]dashboard.Cabinet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dashboard.Cabinet, len(c.data.Accounts))
	for i, acc := range c.data.Accounts {
		out[i] = dashboard.Cabinet{ID: strconv.FormatInt(acc.ID, 10), Name: acc.Name}
	}
	return out, nil
}

func (c *MockClient) ListCabinets(_ context.Context, page dashboard.PageRequest) (dashboard.Page[dashboard.Account], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slicePage(c.data.Accounts, page), nil
}

func (c *MockClient) AddCabinet(_ context.Context, account dashboard.NewAccount) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Accounts = append(c.data.Accounts, dashboard.Account{ID: account.ID, Name: account.Name, ClientID: account.ClientID})
	return nil
}

func (c *MockClient) ListBalances(_ context.Context, page dashboard.PageRequest) (dashboard.Page[dashboard.BalanceRow], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slicePage(c.data.Balances, page), nil
}

func (c *MockClient) ListStatistics(_ context.Context, _ dashboard.DateRange, page dashboard.PageRequest) (dashboard.Page[dashboard.StatisticsRow], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slicePage(c.data.Statistics, page), nil
}

func (c *MockClient) AggregatedStats(context.Context, dashboard.DateRange) (dashboard.AggregatedStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Stats, nil
}

func (c *MockClient) ListVacancies(_ context.Context, cabinetID string, _ dashboard.DateRange, page dashboard.PageRequest) (dashboard.Page[dashboard.Vacancy], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slicePage(c.data.Vacancies[cabinetID], page), nil
}

func (c *MockClient) CabinetFile(ctx context.Context, cabinetID string, page dashboard.PageRequest) (dashboard.Page[dashboard.Vacancy], error) {
	return c.ListVacancies(ctx, cabinetID, dashboard.DateRange{}, page)
}

func (c *MockClient) AddVacancies(_ context.Context, cabinetID string, batch dashboard.VacancyBatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range batch.IDs {
		v := dashboard.Vacancy{
			ID:          id,
			ExternalID:  id,
			Description: batch.Description,
			Profession:  batch.Profession,
			Industry:    batch.Industry,
			SalaryFrom:  batch.SalaryFrom,
			SalaryTo:    batch.SalaryTo,
		}
		if len(batch.Titles) > 0 {
			v.Title = batch.Titles[i%len(batch.Titles)]
		}
		if len(batch.Addresses) > 0 {
			v.Address = batch.Addresses[i%len(batch.Addresses)]
		}
		if len(batch.ImageURLs) > 0 {
			v.ImageURL = batch.ImageURLs[0]
		}
		c.data.Vacancies[cabinetID] = append(c.data.Vacancies[cabinetID], v)
	}
	return nil
}

func (c *MockClient) UpdateVacancy(_ context.Context, cabinetID string, vacancy dashboard.Vacancy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.data.Vacancies[cabinetID]
	for i := range list {
		if list[i].ID == vacancy.ID {
			list[i] = vacancy
			return nil
		}
	}
	return ErrNotFound
}

func (c *MockClient) DeleteVacancy(_ context.Context, cabinetID, externalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.data.Vacancies[cabinetID]
	for i := range list {
		if list[i].ExternalID == externalID {
			c.data.Vacancies[cabinetID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ReplaceCities rewrites the address of every listing whose address equals one
// of the old cities, pairing cities and addresses by position.
func (c *MockClient) ReplaceCities(_ context.Context, cabinetID string, replacement dashboard.CityReplacement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(replacement.NewAddresses) == 0 {
		return nil
	}
	mapping := make(map[string]string, len(replacement.OldCities))
	for i, city := range replacement.OldCities {
		mapping[city] = replacement.NewAddresses[min(i, len(replacement.NewAddresses)-1)]
	}
	list := c.data.Vacancies[cabinetID]
	for i := range list {
		if addr, ok := mapping[list[i].Address]; ok {
			list[i].Address = addr
		}
	}
	return nil
}

func (c *MockClient) CabinetImages(_ context.Context, cabinetID string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.data.Images[cabinetID]...), nil
}

// UploadCabinetImages records a fake URL per file and returns them.
func (c *MockClient) UploadCabinetImages(_ context.Context, cabinetID string, files []dashboard.ImageFile) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	urls := make([]string, 0, len(files))
	for i, file := range files {
		name := path.Base(file.Name)
		if name == "." || name == "/" || name == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		urls = append(urls, "/static/images/"+url.PathEscape(cabinetID)+"/"+url.PathEscape(name))
	}
	c.data.Images[cabinetID] = append(c.data.Images[cabinetID], urls...)
	return urls, nil
}

func (c *MockClient) CreateReport(_ context.Context, payload reports.CreatePayload) (reports.Ref, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	id := strconv.Itoa(c.next)
	graphs := ""
	if payload.Graphs != nil {
		graphs = *payload.Graphs
	}
	c.data.Reports = append(c.data.Reports, reports.StoredReport{
		ID:        id,
		Name:      payload.Name,
		Template:  payload.Template,
		CabinetID: payload.CabinetID,
		Metrics:   payload.Metrics,
		Graphs:    graphs,
		Period:    payload.Period,
		Time:      payload.Time,
		TgID:      payload.TgID,
	})
	c.data.RenderData[id] = reports.StoredRenderData{
		Template:        payload.Template,
		Metrics:         payload.Metrics,
		Graphs:          graphs,
		TotalViews:      c.data.Stats.TotalViews,
		TotalContacts:   c.data.Stats.TotalResponses,
		TotalFavourites: 0,
		ActiveListings:  c.data.Stats.TotalVacancies,
	}
	return reports.Ref{ID: id, Name: payload.Name}, nil
}

func (c *MockClient) ListReports(context.Context) ([]reports.StoredReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]reports.StoredReport{}, c.data.Reports...), nil
}

func (c *MockClient) ReportRenderData(_ context.Context, id string) (reports.StoredRenderData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data.RenderData[id]
	if !ok {
		return reports.StoredRenderData{}, ErrNotFound
	}
	return data, nil
}

func slicePage[T any](rows []T, req dashboard.PageRequest) dashboard.Page[T] {
	req = dashboard.NormalizePage(req)
	start := (req.Page - 1) * req.Limit
	if start > len(rows) {
		start = len(rows)
	}
	end := min(start+req.Limit, len(rows))
	return dashboard.Page[T]{Results: append([]T{}, rows[start:end]...), Total: len(rows)}
}
