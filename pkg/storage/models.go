package storage

import (
	"time"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

// StatsSnapshot is a persisted aggregated statistics entry keyed by the cache key.
type StatsSnapshot struct {
	Key       string                    `gorm:"primaryKey;column:cache_key;size:64"`
	Stats     dashboard.AggregatedStats `gorm:"serializer:json"`
	FetchedAt time.Time                 `gorm:"not null"`
}

// ThemePreference stores a viewer's theme mode.
type ThemePreference struct {
	UserID    string `gorm:"primaryKey;size:255"`
	Mode      string `gorm:"size:16;not null"`
	UpdatedAt time.Time
}

// ComparisonEntry is one account in a viewer's comparison selection.
type ComparisonEntry struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;size:255;not null"`
	AccountID int64  `gorm:"not null"`
	Name      string
	ClientID  string
	Position  int
}
