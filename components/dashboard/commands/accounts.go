package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

type accountService interface {
	AddAccount(ctx context.Context, account dashboard.NewAccount) error
}

// AddAccountCommand registers a cabinet with the backend.
type AddAccountCommand struct {
	service   accountService
	telemetry Telemetry
}

// NewAddAccountCommand creates the command.
func NewAddAccountCommand(service accountService, telemetry Telemetry) *AddAccountCommand {
	return &AddAccountCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.NewAccount] = (*AddAccountCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddAccountCommand) Execute(ctx context.Context, msg dashboard.NewAccount) error {
	if c.service == nil {
		return errors.New("add account command requires service")
	}
	if err := c.service.AddAccount(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.add_account", map[string]any{"account_id": msg.ID})
	return nil
}
