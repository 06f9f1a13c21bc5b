package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

// SetThemeInput stores a mode, or flips the current one when Toggle is set.
type SetThemeInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Mode   dashboard.ThemeMode     `json:"mode"`
	Toggle bool                    `json:"toggle"`
}

type themeService interface {
	SetTheme(ctx context.Context, viewer dashboard.ViewerContext, mode dashboard.ThemeMode) (dashboard.ThemeSelection, error)
	ToggleTheme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeSelection, error)
}

// SetThemeCommand persists the viewer's theme preference.
type SetThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewSetThemeCommand creates the command.
func NewSetThemeCommand(service themeService, telemetry Telemetry) *SetThemeCommand {
	return &SetThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetThemeInput] = (*SetThemeCommand)(nil)

// Execute stores the mode for the viewer.
func (c *SetThemeCommand) Execute(ctx context.Context, msg SetThemeInput) error {
	if c.service == nil {
		return errors.New("theme command requires service")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("theme command requires viewer user id")
	}
	var (
		selection dashboard.ThemeSelection
		err       error
	)
	if msg.Toggle {
		selection, err = c.service.ToggleTheme(ctx, msg.Viewer)
	} else {
		selection, err = c.service.SetTheme(ctx, msg.Viewer, msg.Mode)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.theme", map[string]any{
		"user_id": msg.Viewer.UserID,
		"mode":    string(selection.Mode),
	})
	return nil
}

// Comparison actions.
const (
	ComparisonAdd    = "add"
	ComparisonRemove = "remove"
	ComparisonClear  = "clear"
)

// ComparisonInput changes the viewer's comparison selection.
type ComparisonInput struct {
	Viewer  dashboard.ViewerContext `json:"-"`
	Action  string                  `json:"action"`
	Account dashboard.Account       `json:"account"`
}

type comparisonService interface {
	AddToComparison(ctx context.Context, viewer dashboard.ViewerContext, account dashboard.Account) ([]dashboard.Account, error)
	RemoveFromComparison(ctx context.Context, viewer dashboard.ViewerContext, accountID int64) ([]dashboard.Account, error)
	ClearComparison(ctx context.Context, viewer dashboard.ViewerContext) error
}

// UpdateComparisonCommand adds, removes or clears compared accounts.
type UpdateComparisonCommand struct {
	service   comparisonService
	telemetry Telemetry
}

// NewUpdateComparisonCommand creates the command.
func NewUpdateComparisonCommand(service comparisonService, telemetry Telemetry) *UpdateComparisonCommand {
	return &UpdateComparisonCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ComparisonInput] = (*UpdateComparisonCommand)(nil)

// Execute applies the action.
func (c *UpdateComparisonCommand) Execute(ctx context.Context, msg ComparisonInput) error {
	if c.service == nil {
		return errors.New("comparison command requires service")
	}
	var err error
	switch msg.Action {
	case ComparisonAdd:
		_, err = c.service.AddToComparison(ctx, msg.Viewer, msg.Account)
	case ComparisonRemove:
		_, err = c.service.RemoveFromComparison(ctx, msg.Viewer, msg.Account.ID)
	case ComparisonClear:
		err = c.service.ClearComparison(ctx, msg.Viewer)
	default:
		return fmt.Errorf("comparison command: unknown action %q", msg.Action)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.comparison", map[string]any{
		"user_id":    msg.Viewer.UserID,
		"action":     msg.Action,
		"account_id": msg.Account.ID,
	})
	return nil
}
