package backend

import (
	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// DemoData returns fixtures for local demos.
func DemoData() MockData {
	return MockData{
		Accounts: []dashboard.Account{
			{ID: 1, Name: "Основной кабинет", ClientID: "client-1"},
			{ID: 2, Name: "Регионы", ClientID: "client-2"},
			{ID: 3, Name: "Склады", ClientID: "client-3"},
		},
		Balances: []dashboard.BalanceRow{
			{ID: 1, Name: "Основной кабинет", Prepayment: 150000, Wallet: 12500, Spent: 8400, Threshold: 5000, Status: dashboard.BalanceStatusNormal},
			{ID: 2, Name: "Регионы", Prepayment: 20000, Wallet: 900, Spent: 6100, Threshold: 1000, Status: dashboard.BalanceStatusWarning},
			{ID: 3, Name: "Склады", Prepayment: 0, Wallet: 120, Spent: 3200, Threshold: 1000, Status: dashboard.BalanceStatusCritical},
		},
		Statistics: []dashboard.StatisticsRow{
			{ID: 1, Name: "Основной кабинет", TotalViews: 18450, TotalResponses: 612, CTR: 3.3, AmoCTR: 2.1, AmoECR: 0.8},
			{ID: 2, Name: "Регионы", TotalViews: 7320, TotalResponses: 198, CTR: 2.7, AmoCTR: 1.4, AmoECR: 0.5},
			{ID: 3, Name: "Склады", TotalViews: 2950, TotalResponses: 71, CTR: 2.4, AmoCTR: 1.1, AmoECR: 0.3},
		},
		Stats: dashboard.AggregatedStats{
			ActiveCabinets:              3,
			TotalViews:                  28720,
			TotalResponses:              881,
			TotalVacancies:              46,
			AverageCTR:                  2.8,
			AverageConnectionConversion: 0.124,
			AverageExitConversion:       0.043,
		},
		Vacancies: map[string][]dashboard.Vacancy{
			"1": {
				{ID: "v-1", ExternalID: "ext-1", Title: "Кладовщик", Address: "Москва", Profession: "Кладовщик", Industry: "Логистика", SalaryFrom: 60000, SalaryTo: 80000, Status: "active", Views: 920, Contacts: 41, Favourites: 12},
				{ID: "v-2", ExternalID: "ext-2", Title: "Водитель погрузчика", Address: "Казань", Profession: "Водитель", Industry: "Логистика", SalaryFrom: 70000, SalaryTo: 90000, Status: "active", Views: 610, Contacts: 22, Favourites: 5},
			},
		},
		Images: map[string][]string{
			"1": {"https://images.example.com/warehouse.png"},
		},
		Reports: []reports.StoredReport{
			{ID: "1", Name: "Еженедельный отчет", Template: "executive", CabinetID: 1, Metrics: "просмотры,контакты,конверсия", Graphs: "линейный_график,круговая_диаграмма", Period: "Еженедельно", Time: "09:00:00", TgID: 100500},
		},
		RenderData: map[string]reports.StoredRenderData{
			"1": {Template: "executive", Metrics: "просмотры,контакты,конверсия", Graphs: "линейный_график,круговая_диаграмма", TotalViews: 28720, TotalContacts: 881, TotalFavourites: 214, ActiveListings: 46},
		},
	}
}
