// Package dbtest opens throwaway in-memory stores for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vortexgames/internal/config"
	"vortexgames/internal/db"
)

// Open returns a migrated in-memory SQLite handle closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(&config.Config{DatabaseURL: "sqlite://:memory:", DBMaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// NewStore wraps Open in a db.Store.
func NewStore(t testing.TB) *db.Store {
	t.Helper()
	return db.NewStore(Open(t))
}

// MustUser inserts a user and returns it.
func MustUser(t testing.TB, s *db.Store, username, password, role string) *db.User {
	t.Helper()
	u := &db.User{Username: username, Password: password, Role: role}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
