// Package store provides relational persistence through gorm.
package store

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/osa030/onair/internal/domain/admin"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/domain/news"
	"github.com/osa030/onair/internal/domain/podcast"
	"github.com/osa030/onair/internal/domain/program"
	"github.com/osa030/onair/internal/domain/team"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents database connection configuration.
type Config struct {
	Driver        string        // "sqlite" or "postgres"
	DSN           string        // Driver specific data source name
	SlowThreshold time.Duration // Queries slower than this are logged as warnings (default 200ms)
	MaxOpenConns  int           // 0 keeps the driver default
}

// Open opens a database connection.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errors.Newf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewLogger(cfg.SlowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access connection pool")
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	zlog.Debug().Msgf("store: database opened: driver=%s", cfg.Driver)
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access connection pool")
	}
	return sqlDB.Close()
}

// Models returns every persisted model.
func Models() []any {
	return []any{
		&program.Program{},
		&podcast.Podcast{},
		&news.Article{},
		&contact.Message{},
		&team.Member{},
		&admin.Admin{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}
	zlog.Info().Msgf("store: schema migrated: models=%d", len(Models()))
	return nil
}
