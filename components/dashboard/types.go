package dashboard

import (
	"context"
	"time"
)

// Backend encapsulates the remote cabinet API. Implementations live in pkg/backend.
type Backend interface {
	AllCabinets(ctx context.Context) ([]Cabinet, error)
	ListCabinets(ctx context.Context, page PageRequest) (Page[Account], error)
	AddCabinet(ctx context.Context, account NewAccount) error
	ListBalances(ctx context.Context, page PageRequest) (Page[BalanceRow], error)
	ListStatistics(ctx context.Context, dates DateRange, page PageRequest) (Page[StatisticsRow], error)
	AggregatedStats(ctx context.Context, dates DateRange) (AggregatedStats, error)
	ListVacancies(ctx context.Context, cabinetID string, dates DateRange, page PageRequest) (Page[Vacancy], error)
	CabinetFile(ctx context.Context, cabinetID string, page PageRequest) (Page[Vacancy], error)
	AddVacancies(ctx context.Context, cabinetID string, batch VacancyBatch) error
	UpdateVacancy(ctx context.Context, cabinetID string, vacancy Vacancy) error
	DeleteVacancy(ctx context.Context, cabinetID, externalID string) error
	ReplaceCities(ctx context.Context, cabinetID string, replacement CityReplacement) error
	CabinetImages(ctx context.Context, cabinetID string) ([]string, error)
	UploadCabinetImages(ctx context.Context, cabinetID string, files []ImageFile) ([]string, error)
}

// ImageFile is one uploaded listing image.
type ImageFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ViewerContext captures the active user information needed to render pages.
type ViewerContext struct {
	UserID string
	Locale string
}

// Cabinet is a selector option for an advertising cabinet.
type Cabinet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is a cabinet row as listed on the accounts page.
type Account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}

// NewAccount is the add-account form payload.
type NewAccount struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Balance statuses reported by the backend.
const (
	BalanceStatusNormal   = "Норма"
	BalanceStatusWarning  = "Предупреждение"
	BalanceStatusCritical = "Критично"
)

// BalanceRow is one cabinet balance. Prepayment is reported in kopecks.
type BalanceRow struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Prepayment float64 `json:"prepayment"`
	Wallet     float64 `json:"wallet"`
	Spent      float64 `json:"spent"`
	Threshold  float64 `json:"threshold"`
	Status     string  `json:"status"`
}

// StatisticsRow holds per-cabinet statistics for a date range.
type StatisticsRow struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	TotalViews     int64   `json:"total_views"`
	TotalResponses int64   `json:"total_responses"`
	CTR            float64 `json:"ctr"`
	AmoCTR         float64 `json:"amo_ctr"`
	AmoECR         float64 `json:"amo_ecr"`
}

// AggregatedStats are the overview totals returned by the statistics query.
type AggregatedStats struct {
	ActiveCabinets              int64   `json:"activeCabinets"`
	TotalViews                  int64   `json:"totalViews"`
	TotalResponses              int64   `json:"totalResponses"`
	TotalVacancies              int64   `json:"totalVacancies"`
	AverageCTR                  float64 `json:"averageCtr"`
	AverageConnectionConversion float64 `json:"averageConnectionConversion"`
	AverageExitConversion       float64 `json:"averageExitConversion"`
}

// Vacancy is a listing owned by a cabinet.
type Vacancy struct {
	ID          string  `json:"id"`
	ExternalID  string  `json:"external_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	SalaryFrom  int     `json:"salary_from"`
	SalaryTo    int     `json:"salary_to"`
	Profession  string  `json:"profession"`
	Industry    string  `json:"industry"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Status      string  `json:"status,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Views       int64   `json:"views"`
	Contacts    int64   `json:"contacts"`
	Favourites  int64   `json:"favourites"`
}

// VacancyBatch is the create-listings wire payload. One id is generated per listing.
type VacancyBatch struct {
	IDs          []string  `json:"id"`
	DateFrom     time.Time `json:"date_from"`
	DateTo       time.Time `json:"date_to"`
	ManagerName  string    `json:"manager_name"`
	ContactPhone string    `json:"contact_phone"`
	Addresses    []string  `json:"address"`
	Titles       []string  `json:"title"`
	Description  string    `json:"description"`
	Industry     string    `json:"industry"`
	Profession   string    `json:"profession"`
	SalaryFrom   int       `json:"salary_from"`
	SalaryTo     int       `json:"salary_to"`
	Count        int       `json:"count"`
	ImageURLs    []string  `json:"images_url"`
}

// CityReplacement is the bulk city to address rewrite payload.
type CityReplacement struct {
	OldCities    []string `json:"old_cities"`
	NewAddresses []string `json:"new_addresses"`
}

// PageRequest selects a page of a remote list.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is a slice of remote results plus the total row count.
type Page[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
}
