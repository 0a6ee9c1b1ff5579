package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usermgmt/internal/database"
	"usermgmt/internal/models"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestOpenMigratesUsersTable(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, memoryDSN(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open("mongo", "mongodb://localhost", true)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestPingFailsAfterClose(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, memoryDSN(), true)
	require.NoError(t, err)

	require.NoError(t, database.Close(db))
	assert.Error(t, database.Ping(context.Background(), db))
}

func TestResetDeletesEveryUser(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, memoryDSN(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	for i := range 3 {
		require.NoError(t, db.Create(&models.User{
			ID:    uuid.NewString(),
			Email: fmt.Sprintf("user%d@example.com", i),
			Name:  "User",
			Role:  models.RoleUser,
			Theme: models.ThemeSystem,
		}).Error)
	}

	require.NoError(t, database.Reset(context.Background(), db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
