package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"garden/internal/metrics"
	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/repositories"

	"github.com/google/uuid"
)

// PostService handles posts, votes and the comments embedded in them.
type PostService struct {
	posts   repositories.PostRepository
	events  eventBus
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewPostService creates a new PostService. pub may be nil to disable events.
func NewPostService(posts repositories.PostRepository, pub EventPublisher, log *slog.Logger, m *metrics.Metrics) *PostService {
	return &PostService{
		posts:   posts,
		events:  eventBus{pub: pub, log: log, metrics: m},
		log:     log,
		metrics: m,
	}
}

// CreatePost stores a post as submitted.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		AuthorID:  in.AuthorID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Category:  models.Category(in.Category),
		Images:    in.Images,
		IsPremium: in.IsPremium,
		Comments:  []models.Comment{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.metrics.PostAction("create")

	s.events.publish(EventPostCreated, PostCreatedEvent{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Category:  string(post.Category),
		CreatedAt: post.CreatedAt,
	})

	return s.posts.GetByID(ctx, post.ID)
}

// ListPosts returns one page of active posts.
func (s *PostService) ListPosts(ctx context.Context, params query.Params) ([]models.Post, query.Meta, error) {
	posts, total, err := s.posts.List(ctx, params)
	if err != nil {
		return nil, query.Meta{}, err
	}
	return models.PublicPosts(posts), query.NewMeta(params, total), nil
}

// GetPost returns an active post with its visible comments.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	public := post.Public()
	return &public, nil
}

// AuditPost returns a post as stored, deleted or not.
func (s *PostService) AuditPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	return post, nil
}

// PostsByAuthor returns the active posts of authorID.
func (s *PostService) PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return models.PublicPosts(posts), nil
}

// UpdatePost merges the present fields of in into an active post.
func (s *PostService) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Category != nil {
		post.Category = models.Category(*in.Category)
	}
	if in.Images != nil {
		post.Images = in.Images
	}
	if in.IsPremium != nil {
		post.IsPremium = *in.IsPremium
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	s.metrics.PostAction("update")
	public := post.Public()
	return &public, nil
}

// DeletePost soft-deletes an active post.
func (s *PostService) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	post.IsDeleted = true
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	s.metrics.PostAction("delete")
	s.log.Info("post deleted", slog.String("post_id", id))
	return post, nil
}

// Vote increments a vote counter and returns the updated post.
func (s *PostService) Vote(ctx context.Context, id string, vote repositories.Vote) (*models.Post, error) {
	if err := s.posts.IncrementVote(ctx, id, vote); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	if vote == repositories.DownVote {
		s.metrics.PostAction("downvote")
	} else {
		s.metrics.PostAction("upvote")
	}
	return s.GetPost(ctx, id)
}

// AddComment appends a comment by commentatorID to an active post.
func (s *PostService) AddComment(ctx context.Context, postID, commentatorID string, in CommentInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:            uuid.New().String(),
		CommentatorID: commentatorID,
		Comment:       in.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	post.Comments = append(post.Comments, comment)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	s.metrics.PostAction("comment_add")

	s.events.publish(EventCommentAdded, CommentAddedEvent{
		PostID:        post.ID,
		CommentID:     comment.ID,
		CommentatorID: commentatorID,
		CreatedAt:     now,
	})
	public := post.Public()
	return &public, nil
}

// UpdateComment replaces the text of a comment owned by requesterID.
func (s *PostService) UpdateComment(ctx context.Context, postID, commentID, requesterID string, in CommentInput) (*models.Post, error) {
	return s.mutateComment(ctx, postID, commentID, requesterID, "update", func(c *models.Comment) {
		c.Comment = in.Comment
	})
}

// DeleteComment soft-deletes a comment owned by requesterID.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, requesterID string) (*models.Post, error) {
	return s.mutateComment(ctx, postID, commentID, requesterID, "delete", func(c *models.Comment) {
		c.IsDeleted = true
	})
}

func (s *PostService) mutateComment(ctx context.Context, postID, commentID, requesterID, action string, apply func(*models.Comment)) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, msgPostNotFound)
	}

	comment := post.FindComment(commentID)
	if comment == nil || comment.IsDeleted {
		return nil, models.NewNotFoundError(msgCommentNotFound)
	}
	if comment.CommentatorID != requesterID {
		return nil, models.NewForbiddenError(fmt.Sprintf("You are not authorized to %s this comment", action))
	}

	apply(comment)
	comment.UpdatedAt = time.Now().UTC()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, msgPostNotFound)
	}
	s.metrics.PostAction("comment_" + action)
	public := post.Public()
	return &public, nil
}
