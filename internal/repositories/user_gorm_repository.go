package repositories

import (
	"context"
	"fmt"

	"garden/internal/models"
	"garden/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user, assigning an id and initial version.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Version = 1
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err, "email"))
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translate(err, "id"))
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("is_deleted ASC").
		Order("updated_at DESC").
		Take(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, translate(err, "email"))
	}
	return &user, nil
}

// List returns one page of active users and the total number of matches.
func (r *GORMUserRepository) List(ctx context.Context, params query.Params) ([]models.User, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_deleted = ?", false).
		Scopes(whereParams(params)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := base.Scopes(pageParams(params)).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Update writes every column of user when the stored version matches.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	expected := user.Version
	user.Version = expected + 1

	res := r.db.WithContext(ctx).
		Model(user).
		Where("version = ?", expected).
		Select("*").
		Omit("created_at").
		Updates(user)
	if res.Error != nil {
		user.Version = expected
		return fmt.Errorf("failed to update user: %w", translate(res.Error, "email"))
	}
	if res.RowsAffected == 0 {
		user.Version = expected
		return missingOrConflict(r.db.WithContext(ctx), &models.User{}, user.ID)
	}
	return nil
}

// missingOrConflict explains a guarded update that touched no rows.
func missingOrConflict(db *gorm.DB, model any, id string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check record %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("record %s: %w", id, ErrVersionConflict)
}

var _ UserRepository = (*GORMUserRepository)(nil)
