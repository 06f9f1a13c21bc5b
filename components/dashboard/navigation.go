package dashboard

// MenuItem is a sidebar navigation entry.
type MenuItem struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
	Position int    `json:"position"`
}

var navigation = []MenuItem{
	{Code: "overview", Label: "Главная", Path: "/", Icon: "home"},
	{Code: "accounts", Label: "Аккаунты", Path: "/accounts", Icon: "users"},
	{Code: "statistics", Label: "Статистика", Path: "/statistics", Icon: "bar-chart"},
	{Code: "listings", Label: "Объявления", Path: "/listings", Icon: "file-text"},
	{Code: "balance", Label: "Баланс", Path: "/balance", Icon: "wallet"},
	{Code: "reports", Label: "Отчеты", Path: "/reports", Icon: "send"},
	{Code: "comparison", Label: "Сравнение", Path: "/comparison", Icon: "git-compare"},
}

// Navigation returns the sidebar entries in display order.
func Navigation() []MenuItem {
	out := make([]MenuItem, len(navigation))
	for i, item := range navigation {
		item.Position = i + 1
		out[i] = item
	}
	return out
}

// ActiveMenu marks which entry matches the current path.
func ActiveMenu(path string) string {
	for _, item := range navigation {
		if item.Path == path {
			return item.Code
		}
	}
	for _, item := range navigation {
		if item.Path != "/" && len(path) > len(item.Path) && path[:len(item.Path)+1] == item.Path+"/" {
			return item.Code
		}
	}
	return ""
}
