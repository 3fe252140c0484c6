package service

import (
	"context"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/events"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo  repository.PostRepository
	publisher events.Publisher
	now       func() time.Time
}

type CreatePostInput struct {
	Text   string
	Name   string
	Avatar string
}

type CommentInput struct {
	Text   string
	Name   string
	Avatar string
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

// NewPostService creates the service. A nil publisher drops events.
func NewPostService(postRepo repository.PostRepository, publisher events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &PostService{
		postRepo:  postRepo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) emit(ctx context.Context, eventType string, post *models.Post, actor uint, commentID string) {
	events.Emit(ctx, s.publisher, events.PostEvent{
		Type:      eventType,
		PostID:    post.ID,
		ActorID:   actor,
		OwnerID:   post.UserID,
		CommentID: commentID,
		At:        s.now(),
	})
}

func (s *PostService) Create(ctx context.Context, id auth.Identity, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Create",
		attribute.Int64("user.id", int64(id.ID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := validation.ValidatePostText(in.Text).Err(); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   id.ID,
		Text:     in.Text,
		Name:     firstNonEmpty(in.Name, id.Name),
		Avatar:   firstNonEmpty(in.Avatar, id.Avatar),
		Likes:    models.JSONList[models.Like]{},
		Comments: models.JSONList[models.Comment]{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.emit(ctx, events.PostCreated, post, id.ID, "")
	return post, nil
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// List returns posts newest first.
func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset)
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// mutate loads a post, applies change and persists the whole document.
func (s *PostService) mutate(ctx context.Context, action string, id auth.Identity, postID uint, change func(*models.Post) error) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", action,
		attribute.Int64("user.id", int64(id.ID)),
		attribute.Int64("post.id", int64(postID)))
	defer func() {
		observability.PostInteractions.WithLabelValues(action, observability.Outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	post, err = s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := change(post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Like(ctx context.Context, id auth.Identity, postID uint) (*models.Post, error) {
	post, err := s.mutate(ctx, "like", id, postID, func(p *models.Post) error {
		return p.AddLike(id.ID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.PostLiked, post, id.ID, "")
	return post, nil
}

func (s *PostService) Unlike(ctx context.Context, id auth.Identity, postID uint) (*models.Post, error) {
	post, err := s.mutate(ctx, "unlike", id, postID, func(p *models.Post) error {
		return p.RemoveLike(id.ID)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.PostUnliked, post, id.ID, "")
	return post, nil
}

// AddComment validates in before the post is loaded.
func (s *PostService) AddComment(ctx context.Context, id auth.Identity, postID uint, in CommentInput) (*models.Post, error) {
	if err := validation.ValidatePostText(in.Text).Err(); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		Text:   in.Text,
		Name:   firstNonEmpty(in.Name, id.Name),
		Avatar: firstNonEmpty(in.Avatar, id.Avatar),
		User:   id.ID,
		Date:   s.now(),
	}
	post, err := s.mutate(ctx, "comment", id, postID, func(p *models.Post) error {
		p.AddComment(comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.PostCommented, post, id.ID, comment.ID)
	return post, nil
}

// RemoveComment lets the comment's author or the post's owner remove it.
func (s *PostService) RemoveComment(ctx context.Context, id auth.Identity, postID uint, commentID string) (*models.Post, error) {
	post, err := s.mutate(ctx, "uncomment", id, postID, func(p *models.Post) error {
		i := p.CommentIndex(commentID)
		if i < 0 {
			return models.NewCommentNotFoundError()
		}
		if p.Comments[i].User != id.ID && p.UserID != id.ID {
			return models.NewForbiddenError("User not authorized").WithField("notauthorized", "User not authorized")
		}
		_, err := p.RemoveComment(commentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.PostCommentRemoved, post, id.ID, commentID)
	return post, nil
}

// Delete removes a post owned by the caller.
func (s *PostService) Delete(ctx context.Context, id auth.Identity, postID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Delete",
		attribute.Int64("user.id", int64(id.ID)),
		attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != id.ID {
		return models.NewForbiddenError("User not authorized").WithField("notauthorized", "User not authorized")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.emit(ctx, events.PostDeleted, post, id.ID, "")
	return nil
}
