package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// flexibleID accepts identifiers encoded as JSON strings or numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

type cabinetWire struct {
	ID   flexibleID `json:"id"`
	Name string     `json:"name"`
}

// AllCabinets lists every cabinet for selectors.
func (c *HTTPClient) AllCabinets(ctx context.Context) ([]dashboard.Cabinet, error) {
	var resp []cabinetWire
	if err := c.do(ctx, http.MethodGet, "/cabinet/all", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]dashboard.Cabinet, len(resp))
	for i, row := range resp {
		out[i] = dashboard.Cabinet{ID: string(row.ID), Name: row.Name}
	}
	return out, nil
}

// ListCabinets pages through the accounts list.
func (c *HTTPClient) ListCabinets(ctx context.Context, page dashboard.PageRequest) (dashboard.Page[dashboard.Account], error) {
	var resp dashboard.Page[dashboard.Account]
	err := c.do(ctx, http.MethodGet, "/cabinet/list", pageQuery(page.Page, page.Limit), nil, &resp)
	return resp, err
}

// AddCabinet registers a new cabinet.
func (c *HTTPClient) AddCabinet(ctx context.Context, account dashboard.NewAccount) error {
	return c.do(ctx, http.MethodPost, "/cabinet/", nil, account, nil)
}

// ListBalances pages through cabinet balances.
func (c *HTTPClient) ListBalances(ctx context.Context, page dashboard.PageRequest) (dashboard.Page[dashboard.BalanceRow], error) {
	var resp dashboard.Page[dashboard.BalanceRow]
	err := c.do(ctx, http.MethodGet, "/profile/balance/list", pageQuery(page.Page, page.Limit), nil, &resp)
	return resp, err
}

// ListStatistics pages through per-cabinet statistics for the range.
func (c *HTTPClient) ListStatistics(ctx context.Context, dates dashboard.DateRange, page dashboard.PageRequest) (dashboard.Page[dashboard.StatisticsRow], error) {
	var resp dashboard.Page[dashboard.StatisticsRow]
	err := c.do(ctx, http.MethodGet, "/profile/stats/list", rangeQuery(dates, page), nil, &resp)
	return resp, err
}

const aggregatedStatsQuery = `query GetAggregatedStats($dateFrom: String!, $dateTo: String!) {
  aggregatedStats(dateFrom: $dateFrom, dateTo: $dateTo) {
    activeCabinets
    totalViews
    totalResponses
    totalVacancies
    averageCtr
    averageConnectionConversion
    averageExitConversion
  }
}`

type statsRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type statsResponse struct {
	Data struct {
		AggregatedStats dashboard.AggregatedStats `json:"aggregatedStats"`
	} `json:"data"`
}

// AggregatedStats runs the overview statistics query.
func (c *HTTPClient) AggregatedStats(ctx context.Context, dates dashboard.DateRange) (dashboard.AggregatedStats, error) {
	req := statsRequest{
		Query:     aggregatedStatsQuery,
		Variables: map[string]string{"dateFrom": dates.APIFrom(), "dateTo": dates.APITo()},
	}
	var resp statsResponse
	if err := c.do(ctx, http.MethodPost, "/statistics", nil, req, &resp); err != nil {
		return dashboard.AggregatedStats{}, err
	}
	return resp.Data.AggregatedStats, nil
}

// ListVacancies pages through a cabinet's listings for the range.
func (c *HTTPClient) ListVacancies(ctx context.Context, cabinetID string, dates dashboard.DateRange, page dashboard.PageRequest) (dashboard.Page[dashboard.Vacancy], error) {
	var resp dashboard.Page[dashboard.Vacancy]
	err := c.do(ctx, http.MethodGet, "/cabinet/"+url.PathEscape(cabinetID)+"/vacancies", rangeQuery(dates, page), nil, &resp)
	return resp, err
}

// CabinetFile pages through the cabinet's listing file.
func (c *HTTPClient) CabinetFile(ctx context.Context, cabinetID string, page dashboard.PageRequest) (dashboard.Page[dashboard.Vacancy], error) {
	var resp dashboard.Page[dashboard.Vacancy]
	err := c.do(ctx, http.MethodGet, "/cabinet/"+url.PathEscape(cabinetID)+"/file", pageQuery(page.Page, page.Limit), nil, &resp)
	return resp, err
}

// AddVacancies creates a batch of listings.
func (c *HTTPClient) AddVacancies(ctx context.Context, cabinetID string, batch dashboard.VacancyBatch) error {
	return c.do(ctx, http.MethodPost, "/cabinet/"+url.PathEscape(cabinetID)+"/add_vacancy", nil, batch, nil)
}

// UpdateVacancy saves an edited listing.
func (c *HTTPClient) UpdateVacancy(ctx context.Context, cabinetID string, vacancy dashboard.Vacancy) error {
	path := "/cabinet/" + url.PathEscape(cabinetID) + "/vacancy/" + url.PathEscape(vacancy.ID)
	return c.do(ctx, http.MethodPut, path, nil, vacancy, nil)
}

// DeleteVacancy removes a listing by external id.
func (c *HTTPClient) DeleteVacancy(ctx context.Context, cabinetID, externalID string) error {
	path := "/vacancies/" + url.PathEscape(cabinetID) + "/" + url.PathEscape(externalID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ReplaceCities rewrites listing addresses in bulk.
func (c *HTTPClient) ReplaceCities(ctx context.Context, cabinetID string, replacement dashboard.CityReplacement) error {
	return c.do(ctx, http.MethodPost, "/vacancies/"+url.PathEscape(cabinetID)+"/edit/bulk", nil, replacement, nil)
}

// CabinetImages lists the uploaded image URLs.
func (c *HTTPClient) CabinetImages(ctx context.Context, cabinetID string) ([]string, error) {
	var resp struct {
		URLs []string `json:"urls"`
	}
	if err := c.do(ctx, http.MethodGet, "/cabinet/"+url.PathEscape(cabinetID)+"/get-images", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.URLs == nil {
		return []string{}, nil
	}
	return resp.URLs, nil
}

// UploadCabinetImages posts the files as multipart "files" parts and returns the stored URLs.
func (c *HTTPClient) UploadCabinetImages(ctx context.Context, cabinetID string, files []dashboard.ImageFile) ([]string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(file.Name)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("backend: create upload part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("backend: write upload part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("backend: close upload body: %w", err)
	}
	var resp struct {
		URLs []string `json:"urls"`
	}
	path := "/cabinet/" + url.PathEscape(cabinetID) + "/upload-images"
	if err := c.send(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	if resp.URLs == nil {
		return []string{}, nil
	}
	return resp.URLs, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type refWire struct {
	ID   flexibleID `json:"id"`
	Name string     `json:"name"`
}

// CreateReport submits a report definition.
func (c *HTTPClient) CreateReport(ctx context.Context, payload reports.CreatePayload) (reports.Ref, error) {
	var resp refWire
	if err := c.do(ctx, http.MethodPost, "/report/create", nil, payload, &resp); err != nil {
		return reports.Ref{}, err
	}
	return reports.Ref{ID: string(resp.ID), Name: resp.Name}, nil
}

type storedReportWire struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	Template  string     `json:"template"`
	CabinetID int        `json:"cabinet_id"`
	Metrics   string     `json:"metrics"`
	Graphs    string     `json:"graphs"`
	Period    string     `json:"period"`
	Time      string     `json:"time"`
	TgID      int64      `json:"tg_id"`
}

// ListReports returns the stored report rows with tokens still encoded.
func (c *HTTPClient) ListReports(ctx context.Context) ([]reports.StoredReport, error) {
	var resp []storedReportWire
	if err := c.do(ctx, http.MethodGet, "/report/get", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]reports.StoredReport, len(resp))
	for i, row := range resp {
		out[i] = reports.StoredReport{
			ID:        string(row.ID),
			Name:      row.Name,
			Template:  row.Template,
			CabinetID: row.CabinetID,
			Metrics:   row.Metrics,
			Graphs:    row.Graphs,
			Period:    row.Period,
			Time:      row.Time,
			TgID:      row.TgID,
		}
	}
	return out, nil
}

// ReportRenderData fetches the values of a saved report.
func (c *HTTPClient) ReportRenderData(ctx context.Context, id string) (reports.StoredRenderData, error) {
	var resp reports.StoredRenderData
	err := c.do(ctx, http.MethodGet, "/report/"+url.PathEscape(id)+"/render_data", nil, nil, &resp)
	return resp, err
}

func rangeQuery(dates dashboard.DateRange, page dashboard.PageRequest) url.Values {
	q := pageQuery(page.Page, page.Limit)
	if !dates.From.IsZero() {
		q.Set("date_from", dates.APIFrom())
	}
	if !dates.To.IsZero() {
		q.Set("date_to", dates.APITo())
	}
	return q
}
