package goadmin

import (
	"context"
	"errors"
	"fmt"
	"path"

	core "github.com/goliatone/go-cabinet-admin/components/dashboard"
	dashboardpkg "github.com/goliatone/go-cabinet-admin/pkg/dashboard"
)

// MenuBuilder ensures cabinet admin entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures navigation link metadata.
type MenuItem struct {
	Code     string
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the dashboard service into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	BasePath        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	// Items overrides the seeded entries. Empty seeds the dashboard navigation.
	Items []MenuItem
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed navigation menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin"
	}
	if len(cfg.Items) == 0 {
		cfg.Items = NavigationItems(cfg.BasePath)
	}
	return &Admin{cfg: cfg}, nil
}

// NavigationItems maps the dashboard sidebar onto menu items mounted under base.
func NavigationItems(base string) []MenuItem {
	nav := core.Navigation()
	out := make([]MenuItem, len(nav))
	for i, item := range nav {
		out[i] = MenuItem{
			Code:     "cabinet." + item.Code,
			Label:    item.Label,
			Route:    path.Join(base, item.Path),
			Icon:     item.Icon,
			Position: item.Position,
		}
	}
	return out
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// Items returns the entries Bootstrap seeds.
func (a *Admin) Items() []MenuItem {
	return append([]MenuItem(nil), a.cfg.Items...)
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.cfg.Items {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: seed menu item %s: %w", item.Code, err)
		}
	}
	return nil
}
