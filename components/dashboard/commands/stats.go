package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

// WarmStatsInput lists the ranges to refresh.
type WarmStatsInput struct {
	Ranges []dashboard.DateRange `json:"ranges"`
}

type statsWarmer interface {
	WarmStats(ctx context.Context, ranges ...dashboard.DateRange) error
}

// WarmStatsCommand refreshes the aggregated statistics cache.
type WarmStatsCommand struct {
	service   statsWarmer
	telemetry Telemetry
}

// NewWarmStatsCommand creates the command.
func NewWarmStatsCommand(service statsWarmer, telemetry Telemetry) *WarmStatsCommand {
	return &WarmStatsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WarmStatsInput] = (*WarmStatsCommand)(nil)

// Execute refreshes every requested range.
func (c *WarmStatsCommand) Execute(ctx context.Context, msg WarmStatsInput) error {
	if c.service == nil {
		return errors.New("warm stats command requires service")
	}
	if len(msg.Ranges) == 0 {
		return nil
	}
	err := c.service.WarmStats(ctx, msg.Ranges...)
	c.telemetry.Record(ctx, "dashboard.command.warm_stats", map[string]any{
		"ranges": len(msg.Ranges),
		"failed": err != nil,
	})
	return err
}
