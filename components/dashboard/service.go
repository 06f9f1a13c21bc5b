package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultStatsTTL = 5 * time.Minute

var (
	errMissingBackend  = errors.New("dashboard: backend not configured")
	errMissingCabinet  = errors.New("dashboard: cabinet id is required")
	errMissingExternal = errors.New("dashboard: listing external id is required")
	errNoImages        = errors.New("dashboard: at least one image is required")
)

// Options configures the dashboard Service. Every collaborator is an
// interface or a nil-safe helper so applications can swap implementations.
type Options struct {
	Backend     Backend
	Cabinets    *CabinetDirectory
	Stats       *StatsCache
	Preferences PreferenceStore
	Comparison  ComparisonStore
	Forms       FormValidator
	Notices     NoticeHook
	Telemetry   Telemetry
	Logger      *zap.Logger
	Now         func() time.Time
	Location    *time.Location
	ChartAssets string
}

// Service backs every dashboard page on top of the remote cabinet API.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Cabinets == nil && opts.Backend != nil {
		opts.Cabinets = NewCabinetDirectory(opts.Backend, WithCabinetLogger(opts.Logger))
	}
	if opts.Stats == nil {
		opts.Stats = NewStatsCache(defaultStatsTTL, nil)
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.Comparison == nil {
		opts.Comparison = NewInMemoryComparisonStore()
	}
	if opts.Forms == nil {
		opts.Forms = NewJSONSchemaValidator()
	}
	if opts.Notices == nil {
		opts.Notices = noopNoticeHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// Range parses a from/to pair relative to the service clock.
func (s *Service) Range(from, to string) (DateRange, error) {
	return ParseDateRange(from, to, s.opts.Now().In(s.opts.Location))
}

// Presets lists the date range shortcuts for the current day.
func (s *Service) Presets() []PresetOption {
	return Presets(s.opts.Now().In(s.opts.Location))
}

// Overview loads the aggregated statistics for a range, serving the stats
// cache first. A failed refresh falls back to the last known value.
func (s *Service) Overview(ctx context.Context, dates DateRange) (OverviewPage, error) {
	key := dates.StatsCacheKey()
	if stats, ok := s.opts.Stats.Get(ctx, key); ok {
		s.recordTelemetry(ctx, "dashboard.overview", map[string]any{"key": key, "cached": true})
		return newOverviewPage(dates, stats, false), nil
	}
	stats, err := s.fetchStats(ctx, dates)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить статистику"))
		if stale, ok := s.opts.Stats.Stale(ctx, key); ok {
			s.opts.Logger.Warn("serving stale statistics", zap.String("key", key), zap.Error(err))
			return newOverviewPage(dates, stale, true), nil
		}
		return OverviewPage{}, err
	}
	s.recordTelemetry(ctx, "dashboard.overview", map[string]any{"key": key, "cached": false})
	return newOverviewPage(dates, stats, false), nil
}

// WarmStats refreshes the stats cache for each range, bypassing fresh entries.
func (s *Service) WarmStats(ctx context.Context, ranges ...DateRange) error {
	var errs []error
	for _, dates := range ranges {
		if _, err := s.fetchStats(ctx, dates); err != nil {
			errs = append(errs, err)
		}
	}
	s.recordTelemetry(ctx, "dashboard.stats.warm", map[string]any{"ranges": len(ranges), "failed": len(errs)})
	return errors.Join(errs...)
}

func (s *Service) fetchStats(ctx context.Context, dates DateRange) (AggregatedStats, error) {
	backend, err := s.backend()
	if err != nil {
		return AggregatedStats{}, err
	}
	stats, err := backend.AggregatedStats(ctx, dates)
	if err != nil {
		return AggregatedStats{}, fmt.Errorf("dashboard: load aggregated stats: %w", err)
	}
	if err := s.opts.Stats.Put(ctx, dates.StatsCacheKey(), stats); err != nil {
		s.opts.Logger.Warn("stats snapshot not saved", zap.String("key", dates.StatsCacheKey()), zap.Error(err))
	}
	return stats, nil
}

// Cabinets returns the selector options. Fetch failures publish a notice and
// serve the fallback list.
func (s *Service) Cabinets(ctx context.Context) []Cabinet {
	if s.opts.Cabinets == nil {
		return FallbackCabinets()
	}
	list, err := s.opts.Cabinets.Cabinets(ctx)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить список кабинетов"))
	}
	return list
}

// Accounts lists cabinets page by page.
func (s *Service) Accounts(ctx context.Context, req PageRequest) (AccountsPage, error) {
	backend, err := s.backend()
	if err != nil {
		return AccountsPage{}, err
	}
	req = NormalizePage(req)
	page, err := backend.ListCabinets(ctx, req)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить список кабинетов"))
		return AccountsPage{}, fmt.Errorf("dashboard: list accounts: %w", err)
	}
	return AccountsPage{
		Rows:       nonNil(page.Results),
		Pagination: Paginate(page.Total, req.Limit, req.Page),
	}, nil
}

// AddAccount validates and registers a cabinet.
func (s *Service) AddAccount(ctx context.Context, account NewAccount) error {
	account.Name = strings.TrimSpace(account.Name)
	account.ClientID = strings.TrimSpace(account.ClientID)
	account.ClientSecret = strings.TrimSpace(account.ClientSecret)
	if err := s.validateForm(FormAccount, account); err != nil {
		return err
	}
	backend, err := s.backend()
	if err != nil {
		return err
	}
	if err := backend.AddCabinet(ctx, account); err != nil {
		s.notify(ctx, ErrorNotice("Не удалось добавить кабинет"))
		return fmt.Errorf("dashboard: add account %d: %w", account.ID, err)
	}
	s.opts.Cabinets.Invalidate()
	s.notify(ctx, SuccessNotice("Кабинет добавлен"))
	s.recordTelemetry(ctx, "dashboard.account.add", map[string]any{"account_id": account.ID})
	return nil
}

// Balances lists balances with page-level totals.
func (s *Service) Balances(ctx context.Context, req PageRequest) (BalancesPage, error) {
	backend, err := s.backend()
	if err != nil {
		return BalancesPage{}, err
	}
	req = NormalizePage(req)
	page, err := backend.ListBalances(ctx, req)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить балансы"))
		return BalancesPage{}, fmt.Errorf("dashboard: list balances: %w", err)
	}
	rows := nonNil(page.Results)
	return BalancesPage{
		Rows:       rows,
		Summary:    SummarizeBalances(rows),
		Pagination: Paginate(page.Total, req.Limit, req.Page),
	}, nil
}

// StatisticsRequest selects a page of per-cabinet statistics.
type StatisticsRequest struct {
	Range DateRange
	Page  PageRequest
	Theme ThemeMode
}

// Statistics lists per-cabinet statistics with totals and a comparison chart.
func (s *Service) Statistics(ctx context.Context, req StatisticsRequest) (StatisticsPage, error) {
	backend, err := s.backend()
	if err != nil {
		return StatisticsPage{}, err
	}
	pageReq := NormalizePage(req.Page)
	page, err := backend.ListStatistics(ctx, req.Range, pageReq)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить статистику"))
		return StatisticsPage{}, fmt.Errorf("dashboard: list statistics: %w", err)
	}
	rows := nonNil(page.Results)
	out := StatisticsPage{
		Range:      req.Range,
		Rows:       rows,
		Summary:    SummarizeStatistics(rows),
		Pagination: Paginate(page.Total, pageReq.Limit, pageReq.Page),
	}
	if len(rows) > 0 {
		chart, err := RenderStatisticsChart(rows, req.Theme.ChartTheme(), s.opts.ChartAssets)
		if err != nil {
			s.opts.Logger.Warn("statistics chart failed", zap.Error(err))
		}
		out.Chart = chart
	}
	return out, nil
}

// ListingsRequest selects a page of a cabinet's listings.
type ListingsRequest struct {
	CabinetID string
	Range     DateRange
	Page      PageRequest
}

// Listings lists a cabinet's vacancies for a date range.
func (s *Service) Listings(ctx context.Context, req ListingsRequest) (ListingsPage, error) {
	cabinetID := strings.TrimSpace(req.CabinetID)
	if cabinetID == "" {
		return ListingsPage{}, errMissingCabinet
	}
	backend, err := s.backend()
	if err != nil {
		return ListingsPage{}, err
	}
	pageReq := NormalizePage(req.Page)
	page, err := backend.ListVacancies(ctx, cabinetID, req.Range, pageReq)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить вакансии"))
		return ListingsPage{}, fmt.Errorf("dashboard: list vacancies for %s: %w", cabinetID, err)
	}
	return ListingsPage{
		CabinetID:  cabinetID,
		Range:      req.Range,
		Rows:       nonNil(page.Results),
		Pagination: Paginate(page.Total, pageReq.Limit, pageReq.Page),
	}, nil
}

// CabinetFile lists the cabinet's listing file page by page.
func (s *Service) CabinetFile(ctx context.Context, cabinetID string, req PageRequest) (ListingsPage, error) {
	cabinetID = strings.TrimSpace(cabinetID)
	if cabinetID == "" {
		return ListingsPage{}, errMissingCabinet
	}
	backend, err := s.backend()
	if err != nil {
		return ListingsPage{}, err
	}
	req = NormalizePage(req)
	page, err := backend.CabinetFile(ctx, cabinetID, req)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить вакансии"))
		return ListingsPage{}, fmt.Errorf("dashboard: load cabinet file %s: %w", cabinetID, err)
	}
	return ListingsPage{
		CabinetID:  cabinetID,
		Rows:       nonNil(page.Results),
		Pagination: Paginate(page.Total, req.Limit, req.Page),
	}, nil
}

// CreateListings validates the form and creates Count listings in one batch.
// It returns the number of listings created.
func (s *Service) CreateListings(ctx context.Context, form ListingForm) (int, error) {
	form = form.Normalize()
	if err := s.validateForm(FormListing, form); err != nil {
		return 0, err
	}
	batch, err := form.Batch(s.opts.Location)
	if err != nil {
		return 0, err
	}
	backend, err := s.backend()
	if err != nil {
		return 0, err
	}
	if err := backend.AddVacancies(ctx, form.Cabinet, batch); err != nil {
		s.notify(ctx, ErrorNotice("Не удалось создать объявления"))
		return 0, fmt.Errorf("dashboard: create listings for %s: %w", form.Cabinet, err)
	}
	s.notify(ctx, NewNotice(NoticeSuccess, "Объявление создано", fmt.Sprintf("%d объявлений успешно создано", batch.Count)))
	s.recordTelemetry(ctx, "dashboard.listings.create", map[string]any{"cabinet_id": form.Cabinet, "count": batch.Count})
	return batch.Count, nil
}

// UpdateListing applies the edit form to the current listing and saves it.
func (s *Service) UpdateListing(ctx context.Context, cabinetID string, current Vacancy, form VacancyForm) (Vacancy, error) {
	cabinetID = strings.TrimSpace(cabinetID)
	if cabinetID == "" {
		return Vacancy{}, errMissingCabinet
	}
	if form.ID == "" {
		form.ID = current.ID
	}
	if err := s.validateForm(FormVacancy, form); err != nil {
		return Vacancy{}, err
	}
	backend, err := s.backend()
	if err != nil {
		return Vacancy{}, err
	}
	updated := form.Apply(current)
	if err := backend.UpdateVacancy(ctx, cabinetID, updated); err != nil {
		s.notify(ctx, ErrorNotice("Не удалось обновить вакансию"))
		return Vacancy{}, fmt.Errorf("dashboard: update vacancy %s: %w", updated.ID, err)
	}
	s.notify(ctx, SuccessNotice("Вакансия обновлена"))
	s.recordTelemetry(ctx, "dashboard.listings.update", map[string]any{"cabinet_id": cabinetID, "vacancy_id": updated.ID})
	return updated, nil
}

// DeleteListing removes a listing by its external id.
func (s *Service) DeleteListing(ctx context.Context, cabinetID, externalID string) error {
	cabinetID = strings.TrimSpace(cabinetID)
	externalID = strings.TrimSpace(externalID)
	if cabinetID == "" {
		return errMissingCabinet
	}
	if externalID == "" {
		return errMissingExternal
	}
	backend, err := s.backend()
	if err != nil {
		return err
	}
	if err := backend.DeleteVacancy(ctx, cabinetID, externalID); err != nil {
		s.notify(ctx, ErrorNotice("Не удалось удалить вакансию"))
		return fmt.Errorf("dashboard: delete vacancy %s: %w", externalID, err)
	}
	s.notify(ctx, SuccessNotice("Вакансия удалена"))
	s.recordTelemetry(ctx, "dashboard.listings.delete", map[string]any{"cabinet_id": cabinetID, "external_id": externalID})
	return nil
}

// ReplaceCities rewrites the given cities to new addresses across a cabinet's listings.
func (s *Service) ReplaceCities(ctx context.Context, form CityReplaceForm) error {
	if err := s.validateForm(FormCityReplace, form); err != nil {
		return err
	}
	backend, err := s.backend()
	if err != nil {
		return err
	}
	replacement := CityReplacement{OldCities: form.OldCities, NewAddresses: form.NewAddresses}
	if err := backend.ReplaceCities(ctx, form.Cabinet, replacement); err != nil {
		s.notify(ctx, ErrorNotice("Не удалось заменить города"))
		return fmt.Errorf("dashboard: replace cities for %s: %w", form.Cabinet, err)
	}
	s.notify(ctx, SuccessNotice("Города успешно заменены"))
	s.recordTelemetry(ctx, "dashboard.listings.replace_cities", map[string]any{
		"cabinet_id": form.Cabinet,
		"cities":     len(form.OldCities),
	})
	return nil
}

// CabinetImages lists the image URLs uploaded to a cabinet.
func (s *Service) CabinetImages(ctx context.Context, cabinetID string) ([]string, error) {
	cabinetID = strings.TrimSpace(cabinetID)
	if cabinetID == "" {
		return nil, errMissingCabinet
	}
	backend, err := s.backend()
	if err != nil {
		return nil, err
	}
	urls, err := backend.CabinetImages(ctx, cabinetID)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить изображения"))
		return nil, fmt.Errorf("dashboard: list images for %s: %w", cabinetID, err)
	}
	return nonNil(urls), nil
}

// UploadImages stores images for a cabinet and returns their public URLs.
func (s *Service) UploadImages(ctx context.Context, cabinetID string, files []ImageFile) ([]string, error) {
	cabinetID = strings.TrimSpace(cabinetID)
	if cabinetID == "" {
		return nil, errMissingCabinet
	}
	if len(files) == 0 {
		return nil, errNoImages
	}
	backend, err := s.backend()
	if err != nil {
		return nil, err
	}
	urls, err := backend.UploadCabinetImages(ctx, cabinetID, files)
	if err != nil {
		s.notify(ctx, ErrorNotice("Не удалось загрузить изображения"))
		return nil, fmt.Errorf("dashboard: upload images for %s: %w", cabinetID, err)
	}
	s.notify(ctx, SuccessNotice("Изображения успешно загружены"))
	s.recordTelemetry(ctx, "dashboard.listings.upload_images", map[string]any{
		"cabinet_id": cabinetID,
		"files":      len(files),
	})
	return nonNil(urls), nil
}

func (s *Service) validateForm(code string, payload any) error {
	def, ok := Form(code)
	if !ok {
		return fmt.Errorf("dashboard: unknown form %q", code)
	}
	if err := s.opts.Forms.Validate(def, payload); err != nil {
		s.recordTelemetry(context.Background(), "dashboard.form.rejected", map[string]any{"form": code})
		return err
	}
	return nil
}

func (s *Service) notify(ctx context.Context, notice Notice) {
	if err := s.opts.Notices.Notify(ctx, notice); err != nil {
		s.opts.Logger.Warn("notice not delivered", zap.String("title", notice.Title), zap.Error(err))
	}
}

func (s *Service) backend() (Backend, error) {
	if s.opts.Backend == nil {
		return nil, errMissingBackend
	}
	return s.opts.Backend, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
