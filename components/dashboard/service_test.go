package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	cabinets    []Cabinet
	cabinetsErr error
	accounts    Page[Account]
	balances    Page[BalanceRow]
	statistics  Page[StatisticsRow]
	stats       AggregatedStats
	statsErr    error
	vacancies   Page[Vacancy]
	images      []string
	writeErr    error

	statsCalls   int
	added        []NewAccount
	batches      []VacancyBatch
	updated      []Vacancy
	deleted      []string
	replacements []CityReplacement
	uploads      []ImageFile
	lastPage     PageRequest
	lastRange    DateRange
}

func (f *fakeBackend) AllCabinets(context.Context) ([]Cabinet, error) {
	return f.cabinets, f.cabinetsErr
}

func (f *fakeBackend) ListCabinets(_ context.Context, page PageRequest) (Page[Account], error) {
	f.lastPage = page
	return f.accounts, f.writeErr
}

func (f *fakeBackend) AddCabinet(_ context.Context, account NewAccount) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.added = append(f.added, account)
	return nil
}

func (f *fakeBackend) ListBalances(_ context.Context, page PageRequest) (Page[BalanceRow], error) {
	f.lastPage = page
	return f.balances, nil
}

func (f *fakeBackend) ListStatistics(_ context.Context, dates DateRange, page PageRequest) (Page[StatisticsRow], error) {
	f.lastRange = dates
	f.lastPage = page
	return f.statistics, nil
}

func (f *fakeBackend) AggregatedStats(context.Context, DateRange) (AggregatedStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	return f.stats, f.statsErr
}

func (f *fakeBackend) ListVacancies(_ context.Context, _ string, dates DateRange, page PageRequest) (Page[Vacancy], error) {
	f.lastRange = dates
	f.lastPage = page
	return f.vacancies, f.writeErr
}

func (f *fakeBackend) CabinetFile(_ context.Context, _ string, page PageRequest) (Page[Vacancy], error) {
	f.lastPage = page
	return f.vacancies, f.writeErr
}

func (f *fakeBackend) AddVacancies(_ context.Context, _ string, batch VacancyBatch) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeBackend) UpdateVacancy(_ context.Context, _ string, vacancy Vacancy) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updated = append(f.updated, vacancy)
	return nil
}

func (f *fakeBackend) DeleteVacancy(_ context.Context, _ string, externalID string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, externalID)
	return nil
}

func (f *fakeBackend) ReplaceCities(_ context.Context, _ string, replacement CityReplacement) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.replacements = append(f.replacements, replacement)
	return nil
}

func (f *fakeBackend) CabinetImages(context.Context, string) ([]string, error) {
	return f.images, f.writeErr
}

func (f *fakeBackend) UploadCabinetImages(_ context.Context, cabinetID string, files []ImageFile) ([]string, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.uploads = append(f.uploads, files...)
	urls := make([]string, 0, len(files))
	for _, file := range files {
		urls = append(urls, "https://cdn.test/"+cabinetID+"/"+file.Name)
	}
	return urls, nil
}

type recordingNotices struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotices) Notify(_ context.Context, notice Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	return nil
}

func (r *recordingNotices) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type recordingTelemetry struct {
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.events = append(r.events, event)
}

var testNow = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func newTestService(backend *fakeBackend, notices *recordingNotices) *Service {
	return NewService(Options{
		Backend:  backend,
		Cabinets: NewCabinetDirectory(backend, WithCabinetBackoff(0)),
		Notices:  notices,
		Now:      func() time.Time { return testNow },
	})
}

func validListingForm() ListingForm {
	return ListingForm{
		Cabinet:      "7",
		DateBegin:    "2024-03-01",
		DateEnd:      "2024-03-31",
		ManagerName:  "Анна",
		ContactPhone: "+79990000000",
		Industry:     "Логистика",
		Profession:   "Курьер",
		SalaryFrom:   50000,
		SalaryTo:     80000,
		Count:        3,
		Addresses:    []string{"Москва, Тверская 1", " "},
		Titles:       []string{"Курьер"},
		Description:  "Доставка заказов",
	}
}

func TestServiceOverviewCachesByRange(t *testing.T) {
	backend := &fakeBackend{stats: AggregatedStats{ActiveCabinets: 4, TotalViews: 12345, AverageConnectionConversion: 0.0534, AverageCTR: 3.21}}
	service := newTestService(backend, &recordingNotices{})
	dates, err := service.Range("2024-03-01", "2024-03-07")
	require.NoError(t, err)

	first, err := service.Overview(context.Background(), dates)
	require.NoError(t, err)
	second, err := service.Overview(context.Background(), dates)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.statsCalls)
	assert.Equal(t, first, second)
	require.Len(t, first.Cards, 6)
	assert.Equal(t, "Активных аккаунтов", first.Cards[0].Title)
	assert.Equal(t, "4", first.Cards[0].Value)
	assert.Equal(t, "12,345", first.Cards[2].Value)
	assert.Equal(t, "5.3%", first.Cards[4].Value)
	assert.Equal(t, "3.2%", first.Cards[5].Value)
}

func TestServiceOverviewServesStaleStatsOnFailure(t *testing.T) {
	backend := &fakeBackend{stats: AggregatedStats{TotalViews: 10}}
	notices := &recordingNotices{}
	cache := NewStatsCache(time.Nanosecond, nil)
	service := NewService(Options{Backend: backend, Stats: cache, Notices: notices})
	dates := PresetRange(PresetLast7Days, testNow)

	_, err := service.Overview(context.Background(), dates)
	require.NoError(t, err)

	backend.statsErr = errors.New("boom")
	time.Sleep(time.Millisecond)
	page, err := service.Overview(context.Background(), dates)
	require.NoError(t, err)
	assert.True(t, page.Stale)
	assert.Equal(t, int64(10), page.Stats.TotalViews)
	assert.Equal(t, NoticeError, notices.last().Kind)
}

func TestServiceOverviewFailsWithoutStats(t *testing.T) {
	backend := &fakeBackend{statsErr: errors.New("boom")}
	service := newTestService(backend, &recordingNotices{})
	_, err := service.Overview(context.Background(), PresetRange(PresetToday, testNow))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load aggregated stats")
}

func TestServiceWarmStatsFillsCache(t *testing.T) {
	backend := &fakeBackend{stats: AggregatedStats{TotalVacancies: 8}}
	service := newTestService(backend, &recordingNotices{})
	ranges := []DateRange{PresetRange(PresetToday, testNow), PresetRange(PresetLast7Days, testNow)}

	require.NoError(t, service.WarmStats(context.Background(), ranges...))
	assert.Equal(t, 2, backend.statsCalls)

	_, err := service.Overview(context.Background(), ranges[1])
	require.NoError(t, err)
	assert.Equal(t, 2, backend.statsCalls)
}

func TestServiceCabinetsFallsBackWithNotice(t *testing.T) {
	backend := &fakeBackend{cabinetsErr: errors.New("offline")}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	list := service.Cabinets(context.Background())
	assert.Equal(t, FallbackCabinets(), list)
	assert.Equal(t, "Не удалось загрузить список кабинетов", notices.last().Description)
}

func TestServiceAccountsPaginates(t *testing.T) {
	backend := &fakeBackend{accounts: Page[Account]{Results: []Account{{ID: 1, Name: "A"}}, Total: 45}}
	service := newTestService(backend, &recordingNotices{})

	page, err := service.Accounts(context.Background(), PageRequest{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 5, Limit: 10}, backend.lastPage)
	assert.Equal(t, 5, page.Pagination.TotalPages)
	assert.Equal(t, 41, page.Pagination.Start)
	assert.Equal(t, 45, page.Pagination.End)
}

func TestServiceAddAccountValidatesBeforeBackend(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(backend, &recordingNotices{})

	err := service.AddAccount(context.Background(), NewAccount{ID: 0, Name: " "})
	require.ErrorIs(t, err, ErrInvalidForm)
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	messages := map[string]string{}
	for _, f := range formErr.Fields {
		messages[f.Field] = f.Message
	}
	assert.Equal(t, "Название кабинета обязательно", messages["name"])
	assert.Equal(t, "Client ID обязателен", messages["client_id"])
	assert.Empty(t, backend.added)

	require.NoError(t, service.AddAccount(context.Background(), NewAccount{ID: 3, Name: "Новый", ClientID: "cid", ClientSecret: "secret"}))
	require.Len(t, backend.added, 1)
}

func TestServiceBalancesSummary(t *testing.T) {
	backend := &fakeBackend{balances: Page[BalanceRow]{
		Results: []BalanceRow{
			{ID: 1, Wallet: 100, Prepayment: 5000, Spent: 10, Status: BalanceStatusNormal},
			{ID: 2, Wallet: 20, Prepayment: 0, Spent: 5, Status: BalanceStatusWarning},
			{ID: 3, Wallet: 0, Prepayment: 250, Spent: 1, Status: BalanceStatusCritical},
		},
		Total: 3,
	}}
	service := newTestService(backend, &recordingNotices{})

	page, err := service.Balances(context.Background(), PageRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 172.5, page.Summary.TotalBalance, 0.001)
	assert.InDelta(t, 16, page.Summary.TotalSpent, 0.001)
	assert.Equal(t, 2, page.Summary.Alerts)
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, backend.lastPage)
}

func TestServiceStatisticsSummaryAndChart(t *testing.T) {
	backend := &fakeBackend{statistics: Page[StatisticsRow]{
		Results: []StatisticsRow{
			{ID: 1, Name: "Север", TotalViews: 100, TotalResponses: 10, CTR: 400, AmoCTR: 0.2},
			{ID: 2, Name: "Юг", TotalViews: 50, TotalResponses: 5, CTR: 200, AmoCTR: 0.4},
		},
		Total: 2,
	}}
	service := newTestService(backend, &recordingNotices{})
	dates := PresetRange(PresetLast30Days, testNow)

	page, err := service.Statistics(context.Background(), StatisticsRequest{Range: dates, Theme: ThemeLight})
	require.NoError(t, err)
	assert.Equal(t, dates, backend.lastRange)
	assert.Equal(t, int64(150), page.Summary.TotalViews)
	assert.Equal(t, int64(15), page.Summary.TotalResponses)
	assert.InDelta(t, 3, page.Summary.AverageCTR, 0.0001)
	assert.InDelta(t, 0.3, page.Summary.AverageAmoCTR, 0.0001)
	assert.Contains(t, page.Chart, "Север")
	assert.Contains(t, page.Chart, "westeros")
}

func TestServiceListingsRequireCabinet(t *testing.T) {
	service := newTestService(&fakeBackend{}, &recordingNotices{})
	_, err := service.Listings(context.Background(), ListingsRequest{})
	require.ErrorIs(t, err, errMissingCabinet)
}

func TestServiceListingsFailureNotifies(t *testing.T) {
	backend := &fakeBackend{writeErr: errors.New("down")}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	_, err := service.Listings(context.Background(), ListingsRequest{CabinetID: "7"})
	require.Error(t, err)
	assert.Equal(t, "Не удалось загрузить вакансии", notices.last().Description)
}

func TestServiceCreateListingsBuildsBatch(t *testing.T) {
	backend := &fakeBackend{}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	created, err := service.CreateListings(context.Background(), validListingForm())
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.Len(t, backend.batches, 1)
	batch := backend.batches[0]
	assert.Len(t, batch.IDs, 3)
	assert.NotEqual(t, batch.IDs[0], batch.IDs[1])
	assert.Equal(t, []string{"Москва, Тверская 1"}, batch.Addresses)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), batch.DateFrom)
	assert.Equal(t, "3 объявлений успешно создано", notices.last().Description)
	assert.Equal(t, "Объявление создано", notices.last().Title)
}

func TestServiceCreateListingsRejectsInvalidForm(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(backend, &recordingNotices{})
	form := validListingForm()
	form.Count = 0
	form.Titles = nil

	_, err := service.CreateListings(context.Background(), form)
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	fields := map[string]string{}
	for _, f := range formErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Количество объявлений должно быть больше 0", fields["count"])
	assert.Equal(t, "Добавьте хотя бы один заголовок", fields["titles"])
	assert.Empty(t, backend.batches)
}

func TestServiceUpdateAndDeleteListing(t *testing.T) {
	backend := &fakeBackend{}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)
	current := Vacancy{ID: "v1", ExternalID: "ext-1", Title: "Old", Views: 12}

	updated, err := service.UpdateListing(context.Background(), "7", current, VacancyForm{
		Title: "Новый", Description: "Описание", Address: "Казань", Profession: "Водитель",
		Industry: "Транспорт", SalaryFrom: 1, SalaryTo: 2, Images: []string{"https://img/1.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", updated.ID)
	assert.Equal(t, int64(12), updated.Views)
	assert.Equal(t, "https://img/1.png", updated.ImageURL)
	assert.Equal(t, "Вакансия обновлена", notices.last().Description)

	require.NoError(t, service.DeleteListing(context.Background(), "7", "ext-1"))
	assert.Equal(t, []string{"ext-1"}, backend.deleted)
	assert.Equal(t, "Вакансия удалена", notices.last().Description)

	require.ErrorIs(t, service.DeleteListing(context.Background(), "7", ""), errMissingExternal)
}

func TestServiceUpdateListingFailureNotifies(t *testing.T) {
	backend := &fakeBackend{writeErr: errors.New("conflict")}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	_, err := service.UpdateListing(context.Background(), "7", Vacancy{ID: "v1"}, VacancyForm{
		Title: "T", Description: "D", Address: "A", Profession: "P", Industry: "I", SalaryFrom: 1, SalaryTo: 1,
	})
	require.Error(t, err)
	assert.Equal(t, "Не удалось обновить вакансию", notices.last().Description)
	assert.Equal(t, "Ошибка", notices.last().Title)
}

func TestServiceReplaceCities(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(backend, &recordingNotices{})

	err := service.ReplaceCities(context.Background(), ParseCityReplace("7", "Москва\n\nКазань", ""))
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "Пожалуйста, заполните все поля", formErr.Fields[0].Message)

	require.NoError(t, service.ReplaceCities(context.Background(), ParseCityReplace("7", "Москва\nКазань", "Москва, Арбат 1\nКазань, Баумана 2")))
	require.Len(t, backend.replacements, 1)
	assert.Equal(t, []string{"Москва", "Казань"}, backend.replacements[0].OldCities)
}

func TestServiceCabinetImages(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(backend, &recordingNotices{})
	images, err := service.CabinetImages(context.Background(), "7")
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestServiceUploadImagesNotifiesSuccess(t *testing.T) {
	backend := &fakeBackend{}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	urls, err := service.UploadImages(context.Background(), " 7 ", []ImageFile{
		{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
		{Name: "back.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/7/front.jpg", "https://cdn.test/7/back.jpg"}, urls)
	assert.Len(t, backend.uploads, 2)
	assert.Equal(t, NoticeSuccess, notices.last().Kind)
	assert.Equal(t, "Изображения успешно загружены", notices.last().Description)
}

func TestServiceUploadImagesNotifiesFailure(t *testing.T) {
	backend := &fakeBackend{writeErr: errors.New("storage down")}
	notices := &recordingNotices{}
	service := newTestService(backend, notices)

	_, err := service.UploadImages(context.Background(), "7", []ImageFile{{Name: "a.png"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage down")
	assert.Equal(t, NoticeError, notices.last().Kind)
	assert.Equal(t, "Не удалось загрузить изображения", notices.last().Description)
}

func TestServiceUploadImagesValidatesInput(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(backend, &recordingNotices{})

	_, err := service.UploadImages(context.Background(), "", []ImageFile{{Name: "a.png"}})
	require.ErrorIs(t, err, errMissingCabinet)
	_, err = service.UploadImages(context.Background(), "7", nil)
	require.ErrorIs(t, err, errNoImages)
	assert.Empty(t, backend.uploads)
}

func TestServiceWithoutBackend(t *testing.T) {
	service := NewService(Options{})
	_, err := service.Accounts(context.Background(), PageRequest{})
	require.ErrorIs(t, err, errMissingBackend)
	assert.Equal(t, FallbackCabinets(), service.Cabinets(context.Background()))
}

func TestServiceRecordsTelemetry(t *testing.T) {
	telemetry := &recordingTelemetry{}
	service := NewService(Options{Backend: &fakeBackend{}, Telemetry: telemetry})
	require.NoError(t, service.DeleteListing(context.Background(), "7", "ext"))
	assert.True(t, strings.Contains(strings.Join(telemetry.events, ","), "dashboard.listings.delete"))
}
