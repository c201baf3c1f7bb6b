package services_test

import (
	"net/http"
	"testing"

	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/repositories"
	"garden/internal/security"
	"garden/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService() (*services.UserService, *MockUserRepository, *MockPostRepository) {
	users := new(MockUserRepository)
	posts := new(MockPostRepository)
	return services.NewUserService(users, posts, security.NewPasswordHasher(bcrypt.MinCost), testLogger), users, posts
}

func strPtr(s string) *string { return &s }

func TestUserService_ListUsers(t *testing.T) {
	service, users, _ := newUserService()
	params := query.Params{Page: 2, Limit: 1}

	users.On("List", ctx, params).Return([]models.User{{ID: "u-2"}}, int64(3), nil).Once()
	list, meta, err := service.ListUsers(ctx, params)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, query.Meta{Page: 2, Limit: 1, Total: 3, TotalPage: 3}, meta)
	users.AssertExpectations(t)
}

func TestUserService_GetUser(t *testing.T) {
	service, users, _ := newUserService()

	users.On("GetByID", ctx, "u-1").Return(&models.User{ID: "u-1"}, nil).Once()
	user, err := service.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	users.On("GetByID", ctx, "u-2").Return(&models.User{ID: "u-2", IsDeleted: true}, nil).Once()
	_, err = service.GetUser(ctx, "u-2")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	users.On("GetByID", ctx, "u-3").Return(nil, repositories.ErrNotFound).Once()
	_, err = service.GetUser(ctx, "u-3")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	users.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, users, _ := newUserService()
	user := &models.User{ID: "u-1", Name: "Alice", Email: "a@x.com", Password: "old-hash", Role: models.RoleUser}

	users.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	users.On("GetByEmail", ctx, "new@x.com").Return(nil, repositories.ErrNotFound).Once()
	users.On("Update", ctx, user).Return(nil).Once()

	updated, err := service.UpdateProfile(ctx, "a@x.com", services.UpdateProfileInput{
		Name:     strPtr("Alice B"),
		Email:    strPtr("New@x.com"),
		Password: strPtr("secret9"),
		Phone:    strPtr("0123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.Equal(t, "0123", updated.Phone)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.NotEqual(t, "old-hash", updated.Password)
	assert.NotNil(t, updated.PasswordChangedAt)
	users.AssertExpectations(t)
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	service, users, _ := newUserService()
	user := &models.User{ID: "u-1", Email: "a@x.com"}

	users.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	users.On("GetByEmail", ctx, "b@x.com").Return(&models.User{ID: "u-2", Email: "b@x.com"}, nil).Once()

	_, err := service.UpdateProfile(ctx, "a@x.com", services.UpdateProfileInput{Email: strPtr("b@x.com")})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestUserService_DeleteUser(t *testing.T) {
	service, users, _ := newUserService()
	user := &models.User{ID: "u-1"}

	users.On("GetByID", ctx, "u-1").Return(user, nil).Once()
	users.On("Update", ctx, user).Return(nil).Once()
	deleted, err := service.DeleteUser(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	users.On("GetByID", ctx, "u-1").Return(user, nil).Once()
	_, err = service.DeleteUser(ctx, "u-1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	users.AssertExpectations(t)
}

func TestUserService_Favorites(t *testing.T) {
	service, users, posts := newUserService()
	user := &models.User{ID: "u-1", FavouritePosts: []string{}}

	// Add
	users.On("GetByID", ctx, "u-1").Return(user, nil)
	posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1"}, nil)
	users.On("Update", ctx, user).Return(nil)

	favorites, err := service.AddFavorite(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1"}, favorites)

	// Duplicate add
	_, err = service.AddFavorite(ctx, "u-1", "p-1")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.EqualError(t, err, "Post is already in favorites")

	// Unknown post
	posts.On("GetByID", ctx, "p-404").Return(nil, repositories.ErrNotFound).Once()
	_, err = service.AddFavorite(ctx, "u-1", "p-404")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	// List
	posts.On("ListByIDs", ctx, []string{"p-1"}).Return([]models.Post{{ID: "p-1"}}, nil).Once()
	list, err := service.ListFavorites(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p-1", list[0].ID)

	// Remove never-favorited
	_, err = service.RemoveFavorite(ctx, "u-1", "p-2")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.EqualError(t, err, "Post not found in favorites")

	// Remove
	favorites, err = service.RemoveFavorite(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	users.AssertExpectations(t)
	posts.AssertExpectations(t)
}

func TestUserService_Favorites_ConcurrentUpdate(t *testing.T) {
	service, users, posts := newUserService()
	user := &models.User{ID: "u-1"}

	users.On("GetByID", ctx, "u-1").Return(user, nil).Once()
	posts.On("GetByID", ctx, "p-1").Return(&models.Post{ID: "p-1"}, nil).Once()
	users.On("Update", ctx, user).Return(repositories.ErrVersionConflict).Once()

	_, err := service.AddFavorite(ctx, "u-1", "p-1")
	assert.ErrorIs(t, err, repositories.ErrVersionConflict)
}
