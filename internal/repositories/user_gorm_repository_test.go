package repositories_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGORMUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 1, user.Version)
	assert.Equal(t, models.RoleUser, user.Role)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_EmailUniqueAmongActiveUsers(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	first := &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.User{Name: "Other", Email: "a@x.com", Password: "hash"})
	require.ErrorIs(t, err, repositories.ErrDuplicateKey)
	var dup *repositories.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)

	// Once the first account is soft-deleted the address can be reused.
	first.IsDeleted = true
	require.NoError(t, repo.Update(ctx, first))

	second := &models.User{Name: "Alice Again", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, second))

	found, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
}

func TestGORMUserRepository_UpdateVersionGuard(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	copyA, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	copyB, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	copyA.FavouritePosts = append(copyA.FavouritePosts, "p-1")
	require.NoError(t, repo.Update(ctx, copyA))
	assert.Equal(t, 2, copyA.Version)

	copyB.Name = "Stale"
	err = repo.Update(ctx, copyB)
	assert.ErrorIs(t, err, repositories.ErrVersionConflict)
	assert.Equal(t, 1, copyB.Version)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, []string{"p-1"}, stored.FavouritePosts)

	err = repo.Update(ctx, &models.User{ID: "missing", Version: 1})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	for _, u := range []*models.User{
		{Name: "Alice", Email: "alice@x.com", Password: "h", Address: "Dhaka"},
		{Name: "Bob", Email: "bob@x.com", Password: "h", Address: "Khulna"},
		{Name: "Carol", Email: "carol@x.com", Password: "h", Address: "Dhaka", IsDeleted: true},
	} {
		require.NoError(t, repo.Create(ctx, u))
	}

	params, err := query.Parse(map[string]string{"searchTerm": "dhaka", "sort": "name"}, query.UserSchema)
	require.NoError(t, err)

	users, total, err := repo.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)

	params, err = query.Parse(map[string]string{"limit": "1", "page": "2", "sort": "name"}, query.UserSchema)
	require.NoError(t, err)
	users, total, err = repo.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}

func TestGORMUserRepository_WrapsDriverErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	repo := repositories.NewGORMUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("u-1", 1).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.GetByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get user by ID u-1")
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
