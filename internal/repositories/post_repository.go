package repositories

import (
	"context"

	"garden/internal/models"
	"garden/internal/query"
)

// Vote selects the counter changed by IncrementVote.
type Vote int

const (
	UpVote Vote = iota
	DownVote
)

// PostRepository defines the interface for post data access. Reads other than
// GetByIDIncludingDeleted only return active posts, with the author summary attached.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, params query.Params) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	// Update persists the whole post, comments included, guarded by its version.
	Update(ctx context.Context, post *models.Post) error
	IncrementVote(ctx context.Context, id string, vote Vote) error
}
