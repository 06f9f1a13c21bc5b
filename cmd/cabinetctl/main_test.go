package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/pkg/config"
	"github.com/goliatone/go-cabinet-admin/pkg/storage"
)

const testManifest = `
version: "1"
reports:
  - id: weekly
    config:
      name: Еженедельный обзор
      metrics: [views, contacts]
      charts: [line]
      layout: standard
      period: weekly
      time: "10:00"
      weekday: friday
      channel_id: "-100123"
`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))
	return path
}

func TestEncodeAndDecodeMetrics(t *testing.T) {
	var out bytes.Buffer
	g := &globals{Out: &out}

	require.NoError(t, (&encodeCmd{Kind: "metric", Values: []string{"views", "contacts"}}).Run(context.Background(), g))
	encoded := strings.TrimSpace(out.String())
	require.Contains(t, encoded, "просмотры")
	require.Contains(t, encoded, "контакты")

	out.Reset()
	require.NoError(t, (&decodeCmd{Kind: "metric", Encoded: encoded}).Run(context.Background(), g))
	require.Equal(t, "views,contacts", strings.TrimSpace(out.String()))
}

func TestEncodePeriodRequiresSingleValue(t *testing.T) {
	g := &globals{Out: &bytes.Buffer{}}
	err := (&encodeCmd{Kind: "period", Values: []string{"daily", "weekly"}}).Run(context.Background(), g)
	require.Error(t, err)
}

func TestEncodeRejectsUnknownTag(t *testing.T) {
	g := &globals{Out: &bytes.Buffer{}}
	err := (&encodeCmd{Kind: "chart", Values: []string{"radar"}}).Run(context.Background(), g)
	require.Error(t, err)
}

func TestDecodePeriod(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&decodeCmd{Kind: "period", Encoded: "Ежедневно"}).Run(context.Background(), &globals{Out: &out}))
	require.Equal(t, "daily", strings.TrimSpace(out.String()))
}

func TestScheduleDescribesManifestReport(t *testing.T) {
	var out bytes.Buffer
	cmd := &scheduleCmd{Manifest: writeManifest(t), ID: "weekly"}
	require.NoError(t, cmd.Run(context.Background(), &globals{Out: &out}, &cli{}))
	require.Contains(t, out.String(), "каждую неделю")
	require.Contains(t, out.String(), "10:00")
}

func TestScheduleUnknownReport(t *testing.T) {
	cmd := &scheduleCmd{Manifest: writeManifest(t), ID: "missing"}
	err := cmd.Run(context.Background(), &globals{Out: &bytes.Buffer{}}, &cli{})
	require.ErrorContains(t, err, "missing")
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Storage.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.Cache.WarmInterval = time.Hour
	return cfg
}

func TestNewAppWiresMockBackend(t *testing.T) {
	app, err := newApp(testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ctx := context.Background()
	page, err := app.dashboard.Accounts(ctx, dashboard.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, page.Rows)

	viewer := dashboard.ViewerContext{UserID: "admin"}
	_, err = app.executor.Theme(ctx, viewer)
	require.NoError(t, err)
	reports, err := app.executor.Reports(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reports)
}

func TestNewAppSchedulerWarmsStats(t *testing.T) {
	cfg := testConfig()
	app, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	sqlDB, err := app.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	app.scheduler.Start(context.Background())
	app.scheduler.Trigger()

	week := dashboard.PresetRange(dashboard.PresetLast7Days, time.Now().In(cfg.Location()))
	require.Eventually(t, func() bool {
		var count int64
		err := app.db.Model(&storage.StatsSnapshot{}).Where("cache_key = ?", week.StatsCacheKey()).Count(&count).Error
		return err == nil && count == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewAppRejectsUnsupportedStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "oracle"
	_, err := newApp(cfg, nil)
	require.Error(t, err)
}
