package task

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"go.uber.org/zap"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
)

// StatsWarmer refreshes the aggregated statistics cache for every date preset.
type StatsWarmer struct {
	command  gocommand.Commander[commands.WarmStatsInput]
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger
}

// WarmerOption customizes a StatsWarmer.
type WarmerOption func(*StatsWarmer)

// WithWarmerClock overrides the clock used to resolve presets.
func WithWarmerClock(now func() time.Time) WarmerOption {
	return func(w *StatsWarmer) {
		if now != nil {
			w.now = now
		}
	}
}

// WithWarmerLocation sets the timezone presets are resolved in.
func WithWarmerLocation(loc *time.Location) WarmerOption {
	return func(w *StatsWarmer) {
		if loc != nil {
			w.location = loc
		}
	}
}

// WithWarmerLogger sets the logger used for failed refreshes.
func WithWarmerLogger(logger *zap.Logger) WarmerOption {
	return func(w *StatsWarmer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewStatsWarmer builds a warmer that dispatches through the warm stats command.
func NewStatsWarmer(command gocommand.Commander[commands.WarmStatsInput], opts ...WarmerOption) *StatsWarmer {
	w := &StatsWarmer{
		command:  command,
		now:      time.Now,
		location: time.UTC,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Ranges returns the distinct preset ranges for the current day.
func (w *StatsWarmer) Ranges() []dashboard.DateRange {
	presets := dashboard.Presets(w.now().In(w.location))
	seen := make(map[string]struct{}, len(presets))
	out := make([]dashboard.DateRange, 0, len(presets))
	for _, p := range presets {
		key := p.Range.StatsCacheKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p.Range)
	}
	return out
}

// Run refreshes all preset ranges. It matches RunnerFunc so it can be scheduled directly.
func (w *StatsWarmer) Run(ctx context.Context) {
	if w == nil || w.command == nil {
		return
	}
	ranges := w.Ranges()
	if err := w.command.Execute(ctx, commands.WarmStatsInput{Ranges: ranges}); err != nil {
		w.logger.Warn("stats warm-up failed", zap.Int("ranges", len(ranges)), zap.Error(err))
		return
	}
	w.logger.Debug("stats warmed", zap.Int("ranges", len(ranges)))
}
