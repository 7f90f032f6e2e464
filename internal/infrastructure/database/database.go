package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

//go:embed migrations
var migrationsFS embed.FS

// dialects maps a configured driver to its migration directory and sql-migrate dialect
var dialects = map[string]struct {
	root    string
	dialect string
}{
	config.DriverSQLite:   {root: "migrations/sqlite", dialect: "sqlite3"},
	config.DriverPostgres: {root: "migrations/postgres", dialect: "postgres"},
}

// Open connects to the configured database, retrying with exponential backoff
// until cfg.Database.ConnectTimeout elapses
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = open(cfg.Database.Driver, cfg.GetDatabaseDSN(), cfg.IsProduction())
		if err != nil {
			log.Warn("⏳ Database not ready, retrying", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.Database.ConnectTimeout

	if err := backoff.Retry(connect, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// One writer at a time; the busy timeout in the DSN serializes the rest
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("✅ Database connected successfully", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// OpenDSN opens a connection without retries. Used by tests and one-shot commands.
func OpenDSN(driver, dsn string) (*gorm.DB, error) {
	return open(driver, dsn, true)
}

func open(driver, dsn string, quiet bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLogger := logger.Default.LogMode(logger.Info)
	if quiet {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations for driver and returns how many ran.
// Already-applied migrations are skipped, so it is safe on every start.
func Migrate(db *gorm.DB, driver string) (int, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       d.root,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate up, error: %w", err)
	}

	n, err := migrate.Exec(sqlDB, d.dialect, migrations, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migration, error: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
