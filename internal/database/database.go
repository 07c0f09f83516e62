package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"swatchx/internal/logger"
	"swatchx/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	pgURL  string
}

// NewManager creates a new database manager for the configured driver.
// SQLite is the embedded default; Postgres is for shared deployments.
func NewManager(config *Config) (*Manager, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch config.Driver {
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true, // Required for pooled proxies; harmless for direct connections
		}), &gorm.Config{})
	default:
		if dir := filepath.Dir(config.SQLitePath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(config.SQLitePath+"?_foreign_keys=1"), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	} else {
		// SQLite serializes writers; a single connection avoids lock errors.
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, driver: config.Driver, pgURL: config.URL()}, nil
}

// Migrate brings the schema up to date. On Postgres it applies the SQL
// migrations from the migrations/ directory; on SQLite it auto-migrates
// the models directly.
func (m *Manager) Migrate() error {
	logger.Get().Info("Running database migrations...")

	if m.driver == DriverPostgres {
		if err := m.runSQLMigrations(); err != nil {
			return err
		}
	} else {
		if err := m.db.AutoMigrate(
			&models.User{},
			&models.BusinessUnit{},
			&models.Truck{},
			&models.Trailer{},
			&models.FuelStation{},
			&models.Expense{},
			&models.AuditLog{},
		); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

func (m *Manager) runSQLMigrations() error {
	mig, err := migrate.New("file://migrations", m.pgURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}
