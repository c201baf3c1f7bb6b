package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"garden/internal/metrics"
)

// Routing keys of the domain events.
const (
	EventPostCreated            = "post.created"
	EventCommentAdded           = "comment.added"
	EventPasswordResetRequested = "password.reset_requested"
)

// EventPublisher hands events to the message broker.
type EventPublisher interface {
	PublishJSON(routingKey string, payload any) error
}

type PostCreatedEvent struct {
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentAddedEvent struct {
	PostID        string    `json:"postId"`
	CommentID     string    `json:"commentId"`
	CommentatorID string    `json:"commentatorId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PasswordResetRequestedEvent struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetLink string    `json:"resetLink"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// eventBus publishes best-effort: a broker failure is logged and never fails the request.
type eventBus struct {
	pub     EventPublisher
	log     *slog.Logger
	metrics *metrics.Metrics
}

func (b eventBus) publish(routingKey string, payload any) {
	if b.pub == nil {
		return
	}
	err := b.pub.PublishJSON(routingKey, payload)
	b.metrics.EventPublished(routingKey, err == nil)
	if err != nil {
		b.log.Warn("failed to publish event", slog.String("routing_key", routingKey), slog.Any("error", err))
	}
}

// NotificationHandler consumes domain events. Mail delivery is out of scope, so reset
// requests are logged for an operator or an external mailer to pick up.
func NotificationHandler(log *slog.Logger) func(routingKey string, body []byte) error {
	return func(routingKey string, body []byte) error {
		switch routingKey {
		case EventPasswordResetRequested:
			var evt PasswordResetRequestedEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				return fmt.Errorf("malformed %s event: %w", routingKey, err)
			}
			log.Info("password reset requested",
				slog.String("user_id", evt.UserID),
				slog.String("email", evt.Email),
				slog.Time("expires_at", evt.ExpiresAt))
		case EventPostCreated:
			var evt PostCreatedEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				return fmt.Errorf("malformed %s event: %w", routingKey, err)
			}
			log.Info("post created", slog.String("post_id", evt.PostID), slog.String("author_id", evt.AuthorID))
		case EventCommentAdded:
			var evt CommentAddedEvent
			if err := json.Unmarshal(body, &evt); err != nil {
				return fmt.Errorf("malformed %s event: %w", routingKey, err)
			}
			log.Info("comment added", slog.String("post_id", evt.PostID), slog.String("comment_id", evt.CommentID))
		default:
			log.Debug("ignoring event", slog.String("routing_key", routingKey))
		}
		return nil
	}
}
