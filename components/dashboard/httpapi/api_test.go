package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/queries"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[In, Out any] struct {
	last In
	out  Out
	err  error
}

func (s *stubQuerier[In, Out]) Query(ctx context.Context, in In) (Out, error) {
	s.last = in
	return s.out, s.err
}

func newRequest(method, path string, payload any) *http.Request {
	buf, _ := json.Marshal(payload)
	return httptest.NewRequest(method, path, bytes.NewReader(buf))
}

func TestHandleAddAccount(t *testing.T) {
	add := &stubCommander[dashboard.NewAccount]{}
	api := &Handlers{API: &CommandExecutor{AddAccountCommander: add}}
	rec := httptest.NewRecorder()
	api.HandleAddAccount(rec, newRequest(http.MethodPost, "/accounts", dashboard.NewAccount{ID: 4, Name: "Main"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if add.calls != 1 || add.last.ID != 4 {
		t.Fatalf("expected add account to execute with payload, got %#v", add.last)
	}
}

func TestHandleCreateListingsReportsCount(t *testing.T) {
	create := &stubCommander[commands.CreateListingsInput]{}
	exec := &CommandExecutor{CreateCommander: commanderFunc[commands.CreateListingsInput](func(ctx context.Context, msg commands.CreateListingsInput) error {
		*msg.Created = msg.Form.Count
		return create.Execute(ctx, msg)
	})}
	api := &Handlers{API: exec}
	rec := httptest.NewRecorder()
	api.HandleCreateListings(rec, newRequest(http.MethodPost, "/listings", dashboard.ListingForm{Count: 3}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["created"] != 3 {
		t.Fatalf("expected created count 3, got %v", body)
	}
}

func TestHandleFormErrorReturnsFields(t *testing.T) {
	formErr := &dashboard.FormError{Form: dashboard.FormAccount, Fields: []dashboard.FieldError{{Field: "name", Message: "Название кабинета обязательно"}}}
	add := &stubCommander[dashboard.NewAccount]{err: formErr}
	api := &Handlers{API: &CommandExecutor{AddAccountCommander: add}}
	rec := httptest.NewRecorder()
	api.HandleAddAccount(rec, newRequest(http.MethodPost, "/accounts", dashboard.NewAccount{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Fields) != 1 || body.Fields[0].Field != "name" {
		t.Fatalf("expected field errors, got %#v", body)
	}
}

func TestHandleSaveReportValidation(t *testing.T) {
	save := &stubCommander[commands.SaveReportInput]{err: &reports.ValidationError{
		Message: "invalid",
		Fields:  []reports.FieldError{{Field: "metrics", Message: "required"}},
	}}
	api := &Handlers{API: &CommandExecutor{SaveReportCommander: save}}
	rec := httptest.NewRecorder()
	api.HandleSaveReport(rec, newRequest(http.MethodPost, "/reports", reports.Config{Name: "x"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body ErrorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "invalid" || len(body.Fields) != 1 {
		t.Fatalf("unexpected error body %#v", body)
	}
}

func TestHandleDeleteListingThroughMux(t *testing.T) {
	remove := &stubCommander[commands.DeleteListingInput]{}
	api := &Handlers{API: &CommandExecutor{DeleteCommander: remove}}
	mux := http.NewServeMux()
	api.Mount(mux, "/api")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/listings/7/ext-1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.CabinetID != "7" || remove.last.ExternalID != "ext-1" {
		t.Fatalf("expected path values propagated, got %#v", remove.last)
	}
}

func TestHandleReplaceCitiesSplitsLines(t *testing.T) {
	replace := &stubCommander[dashboard.CityReplaceForm]{}
	api := &Handlers{API: &CommandExecutor{ReplaceCommander: replace}}
	rec := httptest.NewRecorder()
	payload := map[string]string{"cabinet": "7", "old_cities": "Москва\n\nКазань", "new_addresses": "ул. Ленина 1"}
	api.HandleReplaceCities(rec, newRequest(http.MethodPost, "/listings/cities", payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(replace.last.OldCities) != 2 || len(replace.last.NewAddresses) != 1 {
		t.Fatalf("expected blank lines dropped, got %#v", replace.last)
	}
}

func TestHandleUploadImagesThroughMux(t *testing.T) {
	var got commands.UploadImagesInput
	upload := commanderFunc[commands.UploadImagesInput](func(_ context.Context, msg commands.UploadImagesInput) error {
		got = msg
		*msg.URLs = []string{"https://cdn.test/7/a.png", "https://cdn.test/7/b.png"}
		return nil
	})
	api := &Handlers{API: &CommandExecutor{UploadCommander: upload}}
	mux := http.NewServeMux()
	api.Mount(mux, "/api")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range []string{"a.png", "b.png"} {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	}
	_ = writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/listings/7/images", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.CabinetID != "7" || len(got.Files) != 2 || got.Files[1].Name != "b.png" {
		t.Fatalf("expected both files forwarded, got %#v", got)
	}
	if got.Files[0].ContentType != "application/octet-stream" || len(got.Files[0].Data) != 8 {
		t.Fatalf("unexpected file payload %#v", got.Files[0])
	}
	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["urls"]) != 2 {
		t.Fatalf("expected urls in response, got %v", resp)
	}
}

func TestHandleUploadImagesRejectsMissingFiles(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("note", "no files")
	_ = writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/listings/7/images", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	api.HandleUploadImages(rec, req, "7")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSetThemeUsesViewer(t *testing.T) {
	set := &stubCommander[commands.SetThemeInput]{}
	theme := &stubQuerier[dashboard.ViewerContext, dashboard.ThemeSelection]{out: dashboard.SelectTheme(dashboard.ThemeLight)}
	api := &Handlers{
		API:    &CommandExecutor{ThemeCommander: set, ThemeQuerier: theme},
		Viewer: func(*http.Request) dashboard.ViewerContext { return dashboard.ViewerContext{UserID: "u1"} },
	}
	rec := httptest.NewRecorder()
	api.HandleSetTheme(rec, newRequest(http.MethodPost, "/theme", map[string]any{"toggle": true}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if set.last.Viewer.UserID != "u1" || !set.last.Toggle {
		t.Fatalf("expected viewer and toggle propagated, got %#v", set.last)
	}
	if theme.last.UserID != "u1" {
		t.Fatalf("expected theme query for viewer")
	}
}

func TestMissingHandlerIsNotImplemented(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	rec := httptest.NewRecorder()
	api.HandleAddAccount(rec, newRequest(http.MethodPost, "/accounts", dashboard.NewAccount{}))
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		nil:                          http.StatusOK,
		dashboard.ErrInvalidForm:     http.StatusBadRequest,
		reports.ErrInvalidConfig:     http.StatusBadRequest,
		ErrNotConfigured:             http.StatusNotImplemented,
		errors.New("backend failed"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestCommandExecutorDelegatesQueries(t *testing.T) {
	file := &stubQuerier[queries.CabinetFileInput, dashboard.ListingsPage]{out: dashboard.ListingsPage{CabinetID: "9"}}
	exec := &CommandExecutor{CabinetFileQuerier: file}
	page, err := exec.CabinetFile(context.Background(), queries.CabinetFileInput{CabinetID: "9"})
	if err != nil || page.CabinetID != "9" {
		t.Fatalf("unexpected result %#v, %v", page, err)
	}
	if _, err := exec.Overview(context.Background(), dashboard.DateRange{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

type commanderFunc[T any] func(ctx context.Context, msg T) error

func (f commanderFunc[T]) Execute(ctx context.Context, msg T) error { return f(ctx, msg) }

func TestMountStreamsNoticesOverSSE(t *testing.T) {
	hub := dashboard.NewNoticeHub()
	api := &Handlers{API: &CommandExecutor{}, Notices: hub}
	mux := http.NewServeMux()
	api.Mount(mux, "/api")
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/notices/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", got)
	}
}
