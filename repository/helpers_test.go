package repository

import (
	"context"
	"testing"

	"legalaid-backend/database"
	"legalaid-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite, "file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(db.Close)
	return db.DB
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", HashedPassword: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
