package repositories

import (
	"context"
	"fmt"

	"garden/internal/models"
	"garden/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

func (r *GORMPostRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Where("posts.is_deleted = ?", false)
}

// Create inserts a new post, assigning an id and initial version.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	post.Version = 1
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", translate(err, "id"))
	}
	return nil
}

// GetByID retrieves an active post by its ID from the database.
func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.active(ctx).First(&post, "posts.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, translate(err, "id"))
	}
	return &post, nil
}

// GetByIDIncludingDeleted retrieves a post regardless of its deleted flag.
func (r *GORMPostRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, translate(err, "id"))
	}
	return &post, nil
}

// List returns one page of active posts and the total number of matches.
func (r *GORMPostRepository) List(ctx context.Context, params query.Params) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_deleted = ?", false).
		Scopes(whereParams(params)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post
	if err := base.Scopes(pageParams(params)).Preload("Author").Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// ListByAuthor returns the active posts written by authorID, newest first.
func (r *GORMPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.active(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by author %s: %w", authorID, err)
	}
	return posts, nil
}

// ListByIDs returns the active posts among ids, newest first. Unknown ids are skipped.
func (r *GORMPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	posts := []models.Post{}
	if len(ids) == 0 {
		return posts, nil
	}
	if err := r.active(ctx).Where("id IN ?", ids).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}
	return posts, nil
}

// Update writes every column of post when the stored version matches.
func (r *GORMPostRepository) Update(ctx context.Context, post *models.Post) error {
	expected := post.Version
	post.Version = expected + 1

	res := r.db.WithContext(ctx).
		Model(post).
		Where("version = ?", expected).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(post)
	if res.Error != nil {
		post.Version = expected
		return fmt.Errorf("failed to update post: %w", translate(res.Error, "id"))
	}
	if res.RowsAffected == 0 {
		post.Version = expected
		return missingOrConflict(r.db.WithContext(ctx), &models.Post{}, post.ID)
	}
	return nil
}

// IncrementVote atomically bumps the up or down counter of an active post.
func (r *GORMPostRepository) IncrementVote(ctx context.Context, id string, vote Vote) error {
	column := "up_vote_count"
	if vote == DownVote {
		column = "down_vote_count"
	}

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			column:    gorm.Expr(column+" + ?", 1),
			"version": gorm.Expr("version + ?", 1),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to vote on post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

var _ PostRepository = (*GORMPostRepository)(nil)
