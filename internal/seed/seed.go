// Package seed fills a store with demo users, posts and comments for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"garden/internal/models"
	"garden/internal/repositories"
	"garden/internal/security"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options controls how much data Run creates.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// Seed makes the generated content reproducible; zero picks a random seed.
	Seed int64
}

// Summary counts what Run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder writes generated entities through the repositories.
type Seeder struct {
	users  repositories.UserRepository
	posts  repositories.PostRepository
	hasher security.PasswordHasher
	log    *slog.Logger
}

func NewSeeder(users repositories.UserRepository, posts repositories.PostRepository, hasher security.PasswordHasher, log *slog.Logger) *Seeder {
	return &Seeder{users: users, posts: posts, hasher: hasher, log: log}
}

// Run creates opts.Users users, the first one an admin, each with opts.PostsPerUser
// posts carrying opts.CommentsPerPost comments by random users.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary
	if opts.Users <= 0 {
		return summary, nil
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	password, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return summary, err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := NewUser(faker, password, i)
		if i == 0 {
			user.Role = models.RoleAdmin
		}
		if err := s.users.Create(ctx, user); err != nil {
			return summary, fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		}
		users = append(users, user)
		summary.Users++
	}

	for _, author := range users {
		for j := 0; j < opts.PostsPerUser; j++ {
			post := NewPost(faker, author.ID)
			for k := 0; k < opts.CommentsPerPost; k++ {
				commentator := users[faker.Number(0, len(users)-1)]
				post.Comments = append(post.Comments, NewComment(faker, commentator.ID))
			}
			if err := s.posts.Create(ctx, post); err != nil {
				return summary, fmt.Errorf("failed to seed post %q: %w", post.Title, err)
			}
			summary.Posts++
			summary.Comments += len(post.Comments)
		}
	}

	s.log.Info("seeding finished",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments))
	return summary, nil
}

// NewUser builds an unsaved user. n keeps generated emails unique.
func NewUser(faker *gofakeit.Faker, passwordHash string, n int) *models.User {
	first := strings.ToLower(faker.FirstName())
	return &models.User{
		Name:           faker.Name(),
		Email:          fmt.Sprintf("%s.%d@garden.test", first, n),
		Password:       passwordHash,
		Phone:          faker.Phone(),
		Address:        faker.Address().Address,
		Role:           models.RoleUser,
		ProfileImage:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
		FavouritePosts: []string{},
		Followers:      []string{},
		Followings:     []string{},
	}
}

// NewPost builds an unsaved post by authorID in a random category.
func NewPost(faker *gofakeit.Faker, authorID string) *models.Post {
	category := models.Categories[faker.Number(0, len(models.Categories)-1)]
	return &models.Post{
		AuthorID:  authorID,
		Title:     strings.TrimSuffix(faker.Sentence(5), "."),
		Content:   faker.Paragraph(2, 4, 12, "\n\n"),
		Category:  category,
		Images:    []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/600", faker.UUID())},
		IsPremium: faker.Number(1, 5) == 1,
		Comments:  []models.Comment{},
	}
}

func NewComment(faker *gofakeit.Faker, commentatorID string) models.Comment {
	now := time.Now().UTC()
	return models.Comment{
		ID:            uuid.New().String(),
		CommentatorID: commentatorID,
		Comment:       faker.Sentence(12),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
