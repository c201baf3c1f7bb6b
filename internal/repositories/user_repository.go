package repositories

import (
	"context"

	"garden/internal/models"
	"garden/internal/query"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID returns the user whether or not it is soft-deleted.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail prefers the active account when deleted ones share the address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, params query.Params) ([]models.User, int64, error)
	// Update persists the whole user, failing with ErrVersionConflict when the stored
	// version no longer matches.
	Update(ctx context.Context, user *models.User) error
}
