package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

var errMissingViewer = errors.New("storage: viewer context missing user id")

// SnapshotStore persists statistics snapshots with gorm.
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore wraps an opened, migrated database.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

var _ dashboard.SnapshotStore = (*SnapshotStore)(nil)

// LoadSnapshot returns the stored entry for key. found is false when none exists.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, key string) (dashboard.AggregatedStats, time.Time, bool, error) {
	var row StatsSnapshot
	err := s.db.WithContext(ctx).First(&row, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dashboard.AggregatedStats{}, time.Time{}, false, nil
	}
	if err != nil {
		return dashboard.AggregatedStats{}, time.Time{}, false, fmt.Errorf("storage: load snapshot %s: %w", key, err)
	}
	return row.Stats, row.FetchedAt, true, nil
}

// SaveSnapshot upserts the entry for key.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, key string, stats dashboard.AggregatedStats, at time.Time) error {
	row := StatsSnapshot{Key: key, Stats: stats, FetchedAt: at.UTC()}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("storage: save snapshot %s: %w", key, err)
	}
	return nil
}

// PreferenceStore persists viewer theme modes and comparison selections.
type PreferenceStore struct {
	db *gorm.DB
}

// NewPreferenceStore wraps an opened, migrated database.
func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

var (
	_ dashboard.PreferenceStore = (*PreferenceStore)(nil)
	_ dashboard.ComparisonStore = (*PreferenceStore)(nil)
)

// ThemeMode returns the stored mode, or the default for unknown viewers.
func (s *PreferenceStore) ThemeMode(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeMode, error) {
	if viewer.UserID == "" {
		return dashboard.DefaultThemeMode, nil
	}
	var row ThemePreference
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", viewer.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dashboard.DefaultThemeMode, nil
	}
	if err != nil {
		return dashboard.DefaultThemeMode, fmt.Errorf("storage: load theme: %w", err)
	}
	return dashboard.ThemeMode(row.Mode).Normalize(), nil
}

// SaveThemeMode upserts the viewer's mode.
func (s *PreferenceStore) SaveThemeMode(ctx context.Context, viewer dashboard.ViewerContext, mode dashboard.ThemeMode) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	row := ThemePreference{UserID: viewer.UserID, Mode: string(mode.Normalize())}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("storage: save theme: %w", err)
	}
	return nil
}

// Selection returns the viewer's compared accounts in insertion order.
func (s *PreferenceStore) Selection(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.Account, error) {
	var rows []ComparisonEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", viewer.UserID).
		Order("position asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("storage: load comparison: %w", err)
	}
	out := make([]dashboard.Account, len(rows))
	for i, row := range rows {
		out[i] = dashboard.Account{ID: row.AccountID, Name: row.Name, ClientID: row.ClientID}
	}
	return out, nil
}

// SaveSelection replaces the viewer's selection in one transaction.
func (s *PreferenceStore) SaveSelection(ctx context.Context, viewer dashboard.ViewerContext, accounts []dashboard.Account) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", viewer.UserID).Delete(&ComparisonEntry{}).Error; err != nil {
			return fmt.Errorf("storage: clear comparison: %w", err)
		}
		if len(accounts) == 0 {
			return nil
		}
		rows := make([]ComparisonEntry, len(accounts))
		for i, acc := range accounts {
			rows[i] = ComparisonEntry{
				ID:        uuid.NewString(),
				UserID:    viewer.UserID,
				AccountID: acc.ID,
				Name:      acc.Name,
				ClientID:  acc.ClientID,
				Position:  i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("storage: save comparison: %w", err)
		}
		return nil
	})
}
