// Package events publishes post activity to a message bus.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"devconnector/internal/middleware"
	"devconnector/internal/observability"
)

// Event types emitted by the post service.
const (
	PostCreated        = "post.created"
	PostLiked          = "post.liked"
	PostUnliked        = "post.unliked"
	PostCommented      = "post.commented"
	PostCommentRemoved = "post.comment_removed"
	PostDeleted        = "post.deleted"
)

// PostEvent is the payload of every post.* event.
type PostEvent struct {
	Type      string    `json:"type"`
	PostID    uint      `json:"post_id"`
	ActorID   uint      `json:"actor_id"`
	OwnerID   uint      `json:"owner_id"`
	CommentID string    `json:"comment_id,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher hands events to a bus.
type Publisher interface {
	Publish(ctx context.Context, event PostEvent) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, PostEvent) error { return nil }
func (Noop) Close() error { return nil }

func encode(event PostEvent) ([]byte, error) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	return json.Marshal(event)
}

// Emit publishes event and only logs a failure. Callers have already
// committed the change the event describes.
func Emit(ctx context.Context, p Publisher, event PostEvent) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, event)
	observability.EventsPublished.WithLabelValues(event.Type, observability.Outcome(err)).Inc()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", event.Type),
			slog.Uint64("post_id", uint64(event.PostID)),
			slog.String("error", err.Error()),
		)
	}
}
