package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"usermgmt/internal/database"
	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Both implementations must behave the same way.
func repositoriesUnderTest(t *testing.T) map[string]repositories.UserRepository {
	return map[string]repositories.UserRepository{
		"gorm":   repositories.NewGORMUserRepository(openTestDB(t)),
		"memory": repositories.NewMemoryUserRepository(),
	}
}

func newUser(email string) *models.User {
	return &models.User{
		Email:         email,
		Name:          "Test User",
		IsActive:      true,
		Role:          models.RoleUser,
		NotifyByEmail: true,
		Theme:         models.ThemeSystem,
	}
}

func TestUserRepository_InsertAndGet(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser("john@example.com")
			u.ID = "client-chosen"

			require.NoError(t, repo.Insert(ctx, u))
			assert.NotEqual(t, "client-chosen", u.ID)
			_, err := uuid.Parse(u.ID)
			assert.NoError(t, err)
			assert.False(t, u.CreatedAt.IsZero())

			got, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, u.Email, got.Email)
			assert.Equal(t, models.ThemeSystem, got.Theme)
		})
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Insert(ctx, newUser("dup@example.com")))

			err := repo.Insert(ctx, newUser("dup@example.com"))
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.GetByID(context.Background(), uuid.NewString())
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})
	}
}

func TestUserRepository_UpdateByID(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			bio := "hello"
			u := newUser("a@example.com")
			u.Bio = &bio
			require.NoError(t, repo.Insert(ctx, u))
			other := newUser("b@example.com")
			require.NoError(t, repo.Insert(ctx, other))

			birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
			err := repo.UpdateByID(ctx, u.ID, repositories.Changes{
				repositories.ColumnName:      "Renamed",
				repositories.ColumnIsActive:  false,
				repositories.ColumnRole:      models.RoleEditor,
				repositories.ColumnBio:       nil,
				repositories.ColumnBirthDate: &birth,
			})
			require.NoError(t, err)

			got, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Name)
			assert.False(t, got.IsActive)
			assert.Equal(t, models.RoleEditor, got.Role)
			assert.Nil(t, got.Bio)
			require.NotNil(t, got.BirthDate)
			assert.True(t, birth.Equal(*got.BirthDate))
			assert.Equal(t, "a@example.com", got.Email)

			err = repo.UpdateByID(ctx, u.ID, repositories.Changes{repositories.ColumnEmail: "b@example.com"})
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

			err = repo.UpdateByID(ctx, uuid.NewString(), repositories.Changes{repositories.ColumnName: "x"})
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})
	}
}

func TestUserRepository_DeleteByID(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser("gone@example.com")
			require.NoError(t, repo.Insert(ctx, u))

			require.NoError(t, repo.DeleteByID(ctx, u.ID))
			_, err := repo.GetByID(ctx, u.ID)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

			assert.ErrorIs(t, repo.DeleteByID(ctx, u.ID), gorm.ErrRecordNotFound)
		})
	}
}

func TestUserRepository_ReadsDoNotAliasStorage(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			bio := "original"
			u := newUser("alias@example.com")
			u.Bio = &bio
			require.NoError(t, repo.Insert(ctx, u))
			bio = "changed by caller after insert"

			got, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			require.NotNil(t, got.Bio)
			assert.Equal(t, "original", *got.Bio)
			*got.Bio = "changed through GetByID"

			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			require.NotNil(t, all[0].Bio)
			assert.Equal(t, "original", *all[0].Bio)
			*all[0].Bio = "changed through ListAll"

			again, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, "original", *again.Bio)
		})
	}
}
