package dashboard

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Form codes.
const (
	FormListing     = "listing"
	FormVacancy     = "vacancy"
	FormAccount     = "account"
	FormCityReplace = "city_replace"
)

const datePattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

func requiredString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func nonEmptyStrings() map[string]any {
	return map[string]any{"type": "array", "minItems": 1, "items": requiredString()}
}

var formDefinitions = map[string]FormDefinition{
	FormListing: {
		Code: FormListing,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cabinet":       requiredString(),
				"date_begin":    map[string]any{"type": "string", "pattern": datePattern},
				"date_end":      map[string]any{"type": "string", "pattern": datePattern},
				"manager_name":  requiredString(),
				"contact_phone": requiredString(),
				"industry":      requiredString(),
				"profession":    requiredString(),
				"salary_from":   map[string]any{"type": "integer", "minimum": 1},
				"salary_to":     map[string]any{"type": "integer", "minimum": 1},
				"count":         map[string]any{"type": "integer", "minimum": 1},
				"addresses":     nonEmptyStrings(),
				"titles":        nonEmptyStrings(),
				"description":   map[string]any{"type": "string", "pattern": `\S`},
				"images":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		Messages: map[string]string{
			"cabinet":       "Выберите кабинет",
			"date_begin":    "Укажите дату начала",
			"date_end":      "Укажите дату окончания",
			"manager_name":  "Имя менеджера обязательно",
			"contact_phone": "Телефон обязателен",
			"industry":      "Отрасль обязательна",
			"profession":    "Профессия обязательна",
			"salary_from":   "Зарплата от обязательна",
			"salary_to":     "Зарплата до обязательна",
			"count":         "Количество объявлений должно быть больше 0",
			"addresses":     "Добавьте хотя бы один адрес",
			"titles":        "Добавьте хотя бы один заголовок",
			"description":   "Описание обязательно",
		},
	},
	FormVacancy: {
		Code: FormVacancy,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":          requiredString(),
				"title":       requiredString(),
				"description": requiredString(),
				"address":     requiredString(),
				"profession":  requiredString(),
				"industry":    requiredString(),
				"salary_from": map[string]any{"type": "integer", "minimum": 1},
				"salary_to":   map[string]any{"type": "integer", "minimum": 1},
			},
		},
		Messages: map[string]string{
			"id":          "Вакансия не выбрана",
			"title":       "Заголовок обязателен",
			"description": "Описание обязательно",
			"address":     "Адрес обязателен",
			"profession":  "Профессия обязательна",
			"industry":    "Отрасль обязательна",
			"salary_from": "Минимальная зарплата обязательна",
			"salary_to":   "Максимальная зарплата обязательна",
		},
	},
	FormAccount: {
		Code: FormAccount,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":            map[string]any{"type": "integer", "minimum": 1},
				"name":          requiredString(),
				"client_id":     requiredString(),
				"client_secret": requiredString(),
			},
		},
		Messages: map[string]string{
			"id":            "ID кабинета должен быть больше 0",
			"name":          "Название кабинета обязательно",
			"client_id":     "Client ID обязателен",
			"client_secret": "Client Secret обязателен",
		},
	},
	FormCityReplace: {
		Code: FormCityReplace,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cabinet":       requiredString(),
				"old_cities":    nonEmptyStrings(),
				"new_addresses": nonEmptyStrings(),
			},
		},
		Messages: map[string]string{
			"cabinet":       "Пожалуйста, заполните все поля",
			"old_cities":    "Пожалуйста, заполните все поля",
			"new_addresses": "Пожалуйста, заполните все поля",
		},
	},
}

// Form returns the definition registered under code.
func Form(code string) (FormDefinition, bool) {
	def, ok := formDefinitions[code]
	return def, ok
}

// ListingForm is the create-listings form.
type ListingForm struct {
	Cabinet      string   `json:"cabinet"`
	DateBegin    string   `json:"date_begin"`
	DateEnd      string   `json:"date_end"`
	ManagerName  string   `json:"manager_name"`
	ContactPhone string   `json:"contact_phone"`
	Industry     string   `json:"industry"`
	Profession   string   `json:"profession"`
	SalaryFrom   int      `json:"salary_from"`
	SalaryTo     int      `json:"salary_to"`
	Count        int      `json:"count"`
	Addresses    []string `json:"addresses"`
	Titles       []string `json:"titles"`
	Description  string   `json:"description"`
	Images       []string `json:"images,omitempty"`
}

// Normalize trims inputs and drops blank addresses and titles.
func (f ListingForm) Normalize() ListingForm {
	f.Cabinet = strings.TrimSpace(f.Cabinet)
	f.ManagerName = strings.TrimSpace(f.ManagerName)
	f.ContactPhone = strings.TrimSpace(f.ContactPhone)
	f.Description = strings.TrimSpace(f.Description)
	f.Addresses = compactLines(f.Addresses)
	f.Titles = compactLines(f.Titles)
	if f.Images == nil {
		f.Images = []string{}
	}
	return f
}

// Batch converts the form into the wire payload, generating one id per listing.
func (f ListingForm) Batch(loc *time.Location) (VacancyBatch, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, err := time.ParseInLocation(APIDateLayout, f.DateBegin, loc)
	if err != nil {
		return VacancyBatch{}, &FormError{Form: FormListing, Fields: []FieldError{{Field: "date_begin", Message: "Укажите дату начала"}}}
	}
	to, err := time.ParseInLocation(APIDateLayout, f.DateEnd, loc)
	if err != nil {
		return VacancyBatch{}, &FormError{Form: FormListing, Fields: []FieldError{{Field: "date_end", Message: "Укажите дату окончания"}}}
	}
	ids := make([]string, f.Count)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return VacancyBatch{
		IDs:          ids,
		DateFrom:     from.UTC(),
		DateTo:       to.UTC(),
		ManagerName:  f.ManagerName,
		ContactPhone: f.ContactPhone,
		Addresses:    append([]string(nil), f.Addresses...),
		Titles:       append([]string(nil), f.Titles...),
		Description:  f.Description,
		Industry:     f.Industry,
		Profession:   f.Profession,
		SalaryFrom:   f.SalaryFrom,
		SalaryTo:     f.SalaryTo,
		Count:        f.Count,
		ImageURLs:    append([]string{}, f.Images...),
	}, nil
}

// VacancyForm is the edit-vacancy form.
type VacancyForm struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Profession  string   `json:"profession"`
	Industry    string   `json:"industry"`
	SalaryFrom  int      `json:"salary_from"`
	SalaryTo    int      `json:"salary_to"`
	Images      []string `json:"images,omitempty"`
}

// Apply overlays the form onto an existing vacancy. The first selected image becomes the cover.
func (f VacancyForm) Apply(v Vacancy) Vacancy {
	v.ID = f.ID
	v.Title = strings.TrimSpace(f.Title)
	v.Description = strings.TrimSpace(f.Description)
	v.Address = strings.TrimSpace(f.Address)
	v.Profession = strings.TrimSpace(f.Profession)
	v.Industry = strings.TrimSpace(f.Industry)
	v.SalaryFrom = f.SalaryFrom
	v.SalaryTo = f.SalaryTo
	if len(f.Images) > 0 {
		v.ImageURL = f.Images[0]
	}
	return v
}

// CityReplaceForm is the bulk city replacement form. Lists arrive as newline separated text.
type CityReplaceForm struct {
	Cabinet      string   `json:"cabinet"`
	OldCities    []string `json:"old_cities"`
	NewAddresses []string `json:"new_addresses"`
}

// ParseCityReplace splits the two text areas into non-blank lines.
func ParseCityReplace(cabinet, oldCities, newAddresses string) CityReplaceForm {
	return CityReplaceForm{
		Cabinet:      strings.TrimSpace(cabinet),
		OldCities:    compactLines(strings.Split(oldCities, "\n")),
		NewAddresses: compactLines(strings.Split(newAddresses, "\n")),
	}
}

func compactLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
