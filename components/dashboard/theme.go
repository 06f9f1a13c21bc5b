package dashboard

import (
	"context"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// ThemeMode is the viewer's light/dark preference.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"

	// DefaultThemeMode is used until a viewer picks one.
	DefaultThemeMode = ThemeDark
)

// Normalize maps unknown values onto the default mode.
func (m ThemeMode) Normalize() ThemeMode {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(string(m)))) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return DefaultThemeMode
	}
}

// Toggle returns the opposite mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m.Normalize() == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ChartTheme returns the go-echarts theme paired with the mode.
func (m ThemeMode) ChartTheme() string {
	if m.Normalize() == ThemeLight {
		return types.ThemeWesteros
	}
	return types.ThemeWalden
}

// ThemeSelection carries the resolved theme details used by templates.
type ThemeSelection struct {
	Mode       ThemeMode         `json:"mode"`
	ChartTheme string            `json:"chart_theme"`
	Tokens     map[string]string `json:"tokens"`
}

var themeTokens = map[ThemeMode]map[string]string{
	ThemeLight: {
		"background":      "#f8fafc",
		"surface":         "#ffffff",
		"text":            "#0f172a",
		"muted":           "#64748b",
		"border":          "rgba(15, 23, 42, 0.1)",
		"accent":          "#3b82f6",
		"success":         "#10b981",
		"warning":         "#f59e0b",
		"danger":          "#ef4444",
		"card-background": "rgba(255, 255, 255, 0.9)",
	},
	ThemeDark: {
		"background":      "#0b1120",
		"surface":         "#111827",
		"text":            "#f9fafb",
		"muted":           "#9ca3af",
		"border":          "rgba(255, 255, 255, 0.1)",
		"accent":          "#60a5fa",
		"success":         "#34d399",
		"warning":         "#fb923c",
		"danger":          "#f87171",
		"card-background": "rgba(255, 255, 255, 0.05)",
	},
}

// SelectTheme resolves the selection for a mode.
func SelectTheme(mode ThemeMode) ThemeSelection {
	mode = mode.Normalize()
	tokens := make(map[string]string, len(themeTokens[mode]))
	for k, v := range themeTokens[mode] {
		tokens[k] = v
	}
	return ThemeSelection{Mode: mode, ChartTheme: mode.ChartTheme(), Tokens: tokens}
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme ThemeSelection) CSSVariables() map[string]string {
	if len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string in key order.
func (theme ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// Theme resolves the viewer's theme selection.
func (s *Service) Theme(ctx context.Context, viewer ViewerContext) (ThemeSelection, error) {
	mode, err := s.opts.Preferences.ThemeMode(ctx, viewer)
	if err != nil {
		return SelectTheme(DefaultThemeMode), err
	}
	return SelectTheme(mode), nil
}

// SetTheme stores the viewer's mode.
func (s *Service) SetTheme(ctx context.Context, viewer ViewerContext, mode ThemeMode) (ThemeSelection, error) {
	mode = mode.Normalize()
	if err := s.opts.Preferences.SaveThemeMode(ctx, viewer, mode); err != nil {
		return ThemeSelection{}, err
	}
	s.recordTelemetry(ctx, "dashboard.theme.set", map[string]any{"viewer": viewer.UserID, "mode": string(mode)})
	return SelectTheme(mode), nil
}

// ToggleTheme flips the viewer's mode.
func (s *Service) ToggleTheme(ctx context.Context, viewer ViewerContext) (ThemeSelection, error) {
	current, err := s.opts.Preferences.ThemeMode(ctx, viewer)
	if err != nil {
		return ThemeSelection{}, err
	}
	return s.SetTheme(ctx, viewer, current.Toggle())
}
