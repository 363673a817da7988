package models

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store drivers understood by Open.
const (
	DriverPostgres = "postgres"
	DriverPQ       = "pq"
	DriverSQLite   = "sqlite"
)

// StoreConfig selects the driver and carries the store secrets.
type StoreConfig struct {
	Driver string
	URL    string
	Key    string
}

// Open connects to the store and verifies the connection.
func Open(ctx context.Context, cfg StoreConfig, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsnWithKey(cfg.URL, cfg.Key))
	case DriverPQ:
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        dsnWithKey(cfg.URL, cfg.Key),
		})
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.URL))
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	if log != nil {
		log.Info("opening store", "driver", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One connection keeps the foreign_keys pragma and in-memory databases consistent.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates the categories, products and orders tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Category{}, &Product{}, &OrderRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// dsnWithKey injects the access key as the password of a postgres URL or
// keyword/value DSN. An empty key leaves the DSN untouched.
func dsnWithKey(dsn, key string) string {
	if key == "" {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, key)
		return u.String()
	}
	return fmt.Sprintf("%s password='%s'", strings.TrimSpace(dsn), dsnQuoter.Replace(key))
}

// dsnQuoter escapes a value for a single-quoted libpq keyword/value DSN.
var dsnQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// sqliteDSN turns a path (or ":memory:") into a DSN with foreign keys enforced.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}
