package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// SaveReportInput carries a report configuration to create. Result receives
// the backend reference when set.
type SaveReportInput struct {
	Config reports.Config `json:"config"`
	Result *reports.Ref   `json:"-"`
}

type reportSaver interface {
	Save(ctx context.Context, cfg reports.Config) (reports.Ref, error)
}

// SaveReportCommand validates and submits a report configuration.
type SaveReportCommand struct {
	service   reportSaver
	telemetry Telemetry
}

// NewSaveReportCommand creates the command.
func NewSaveReportCommand(service reportSaver, telemetry Telemetry) *SaveReportCommand {
	return &SaveReportCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveReportInput] = (*SaveReportCommand)(nil)

// Execute delegates to the reports service.
func (c *SaveReportCommand) Execute(ctx context.Context, msg SaveReportInput) error {
	if c.service == nil {
		return errors.New("save report command requires service")
	}
	ref, err := c.service.Save(ctx, msg.Config)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = ref
	}
	c.telemetry.Record(ctx, "reports.command.save", map[string]any{
		"id":     ref.ID,
		"layout": string(msg.Config.Layout),
	})
	return nil
}
