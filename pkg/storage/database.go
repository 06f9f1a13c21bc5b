package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverNameSQLite identifies the SQLite driver implementation.
const DriverNameSQLite = "sqlite"

var (
	// ErrMissingDriverName indicates the database driver name was omitted.
	ErrMissingDriverName = errors.New("storage: missing database driver name")
	// ErrUnsupportedDriver indicates the provided database driver is not supported.
	ErrUnsupportedDriver = errors.New("storage: unsupported database driver")
	// ErrMissingDataSourceName indicates the data source name was omitted.
	ErrMissingDataSourceName = errors.New("storage: missing database data source name")
)

type databaseOpener func(Config) (*gorm.DB, error)

var databaseOpeners = map[string]databaseOpener{
	DriverNameSQLite: openSQLiteDatabase,
}

// Config captures database connection configuration.
type Config struct {
	DriverName     string
	DataSourceName string
}

// OpenDatabase opens a connection using the configured driver and data source name.
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	driver := strings.TrimSpace(cfg.DriverName)
	if driver == "" {
		return nil, ErrMissingDriverName
	}
	opener, ok := databaseOpeners[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	db, err := opener(Config{DriverName: driver, DataSourceName: strings.TrimSpace(cfg.DataSourceName)})
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	return db, nil
}

func openSQLiteDatabase(cfg Config) (*gorm.DB, error) {
	if cfg.DataSourceName == "" {
		return nil, ErrMissingDataSourceName
	}
	db, err := gorm.Open(sqlite.Open(cfg.DataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables used by the stores.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&StatsSnapshot{}, &ThemePreference{}, &ComparisonEntry{}); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}
