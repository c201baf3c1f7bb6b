package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/repositories"
	"garden/internal/security"
)

// UserService handles profiles and favorites.
type UserService struct {
	users  repositories.UserRepository
	posts  repositories.PostRepository
	hasher security.PasswordHasher
	log    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, posts repositories.PostRepository, hasher security.PasswordHasher, log *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		posts:  posts,
		hasher: hasher,
		log:    log,
	}
}

// ListUsers returns one page of active users.
func (s *UserService) ListUsers(ctx context.Context, params query.Params) ([]models.User, query.Meta, error) {
	users, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, query.Meta{}, err
	}
	return users, query.NewMeta(params, total), nil
}

// GetUser returns an active user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.activeUser(ctx, id)
}

// UpdateProfile applies in to the active user owning email.
func (s *UserService) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return nil, models.NewNotFoundError(msgUserNotFound)
	}

	if in.Email != nil {
		newEmail := normalizeEmail(*in.Email)
		if newEmail != user.Email {
			if err := emailFree(ctx, s.users, newEmail, user.ID); err != nil {
				return nil, err
			}
			user.Email = newEmail
		}
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		user.Password = hashed
		user.PasswordChangedAt = &now
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// DeleteUser soft-deletes an active user.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsDeleted = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info("user deleted", slog.String("user_id", id))
	return user, nil
}

// AddFavorite stores postID in the favorites of userID and returns the updated list.
func (s *UserService) AddFavorite(ctx context.Context, userID, postID string) ([]string, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	if user.HasFavorite(postID) {
		return nil, models.NewConflictError("Post is already in favorites")
	}

	user.FavouritePosts = append(user.FavouritePosts, postID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return user.FavouritePosts, nil
}

// RemoveFavorite drops postID from the favorites of userID and returns the updated list.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, postID string) ([]string, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.RemoveFavorite(postID) {
		return nil, models.NewNotFoundError("Post not found in favorites")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return user.FavouritePosts, nil
}

// ListFavorites resolves the favorites of userID to their active posts.
func (s *UserService) ListFavorites(ctx context.Context, userID string) ([]models.Post, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByIDs(ctx, user.FavouritePosts)
	if err != nil {
		return nil, err
	}
	return models.PublicPosts(posts), nil
}

func (s *UserService) activeUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	if user.IsDeleted {
		return nil, models.NewNotFoundError(msgUserNotFound)
	}
	return user, nil
}
