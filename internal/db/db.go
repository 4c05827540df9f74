package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vortexgames/internal/config"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Connect opens a GORM connection for APP_DATABASE_URL and migrates the
// schema. The scheme picks the driver: postgres://, mysql:// or sqlite://.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, driver, err := dialectorFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	} else {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	// PrepareStmt keeps the postgres migrator off the simple protocol for
	// its probing queries.
	if driver == "postgres" {
		gormCfg.PrepareStmt = true
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// An in-memory database lives in one connection; files lock anyway.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}

	if err := db.AutoMigrate(&User{}, &APIKey{}, &Game{}, &SystemLog{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, string, error) {
	dsn := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), "postgres", nil
	case strings.HasPrefix(dsn, "mysql://"):
		dsn = strings.TrimPrefix(dsn, "mysql://")
		if !strings.Contains(dsn, "parseTime=") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		return mysql.Open(dsn), "mysql", nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), "sqlite", nil
	default:
		return nil, "", fmt.Errorf("APP_DATABASE_URL must start with postgres://, mysql:// or sqlite://, got %q", url)
	}
}

// Store is the persistence gateway. Every method returns the store error
// to the caller; none of them retries or hides a failure.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the underlying connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Stats counts regular users, API keys and games.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	tx := s.db.WithContext(ctx)
	if err := tx.Model(&User{}).Where("role = ?", RoleUser).Count(&st.Users).Error; err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if err := tx.Model(&APIKey{}).Count(&st.Keys).Error; err != nil {
		return Stats{}, fmt.Errorf("count api keys: %w", err)
	}
	if err := tx.Model(&Game{}).Count(&st.Games).Error; err != nil {
		return Stats{}, fmt.Errorf("count games: %w", err)
	}
	return st, nil
}
