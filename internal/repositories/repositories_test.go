package repositories_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"garden/internal/database"
	"garden/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(database.DriverSQLite, "file:"+name+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{ID: "u-" + name, Name: name, Email: email, Password: "hash", Role: models.RoleUser, Version: 1}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

func newPost(authorID, title string, category models.Category, createdAt time.Time) *models.Post {
	return &models.Post{
		AuthorID:  authorID,
		Title:     title,
		Content:   "All about " + title,
		Category:  category,
		Images:    []string{"https://img.example.com/" + title + ".png"},
		CreatedAt: createdAt,
	}
}
