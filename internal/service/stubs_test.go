package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"devconnector/internal/events"
	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// memUserRepo returns a stub backed by an in-memory map keyed by email.
func memUserRepo() *userRepoStub {
	var mu sync.Mutex
	byEmail := map[string]*models.User{}
	var nextID uint
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, u := range byEmail {
				if u.ID == id {
					cp := *u
					return &cp, nil
				}
			}
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			mu.Lock()
			defer mu.Unlock()
			if u, ok := byEmail[email]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, nil
		},
		createFn: func(_ context.Context, u *models.User) error {
			mu.Lock()
			defer mu.Unlock()
			nextID++
			u.ID = nextID
			cp := *u
			byEmail[u.Email] = &cp
			return nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			mu.Lock()
			defer mu.Unlock()
			for k, u := range byEmail {
				if u.ID == id {
					delete(byEmail, k)
				}
			}
			return nil
		},
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn    func(context.Context, uint) (*models.Profile, error)
	getByHandleFn    func(context.Context, string) (*models.Profile, error)
	listFn           func(context.Context) ([]*models.Profile, error)
	createFn         func(context.Context, *models.Profile) error
	updateFn         func(context.Context, *models.Profile) error
	deleteByUserIDFn func(context.Context, uint) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.getByHandleFn(ctx, handle)
}
func (s *profileRepoStub) List(ctx context.Context) ([]*models.Profile, error) {
	return s.listFn(ctx)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.deleteByUserIDFn(ctx, userID)
}

// memProfileRepo returns a stub backed by an in-memory map keyed by owner.
func memProfileRepo() *profileRepoStub {
	byUser := map[uint]*models.Profile{}
	var nextID uint
	clone := func(p *models.Profile) *models.Profile {
		cp := *p
		cp.Skills = append(models.JSONList[string]{}, p.Skills...)
		cp.Experience = append(models.JSONList[models.Experience]{}, p.Experience...)
		cp.Education = append(models.JSONList[models.Education]{}, p.Education...)
		return &cp
	}
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			if p, ok := byUser[userID]; ok {
				return clone(p), nil
			}
			return nil, nil
		},
		getByHandleFn: func(_ context.Context, handle string) (*models.Profile, error) {
			for _, p := range byUser {
				if p.Handle == handle {
					return clone(p), nil
				}
			}
			return nil, nil
		},
		listFn: func(_ context.Context) ([]*models.Profile, error) {
			out := []*models.Profile{}
			for _, p := range byUser {
				out = append(out, clone(p))
			}
			return out, nil
		},
		createFn: func(_ context.Context, p *models.Profile) error {
			nextID++
			p.ID = nextID
			byUser[p.UserID] = clone(p)
			return nil
		},
		updateFn: func(_ context.Context, p *models.Profile) error {
			byUser[p.UserID] = clone(p)
			return nil
		},
		deleteByUserIDFn: func(_ context.Context, userID uint) error {
			delete(byUser, userID)
			return nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// memPostRepo stores posts by id and hands out copies so that only
// Update changes stored state.
func memPostRepo() (*postRepoStub, map[uint]*models.Post) {
	store := map[uint]*models.Post{}
	var nextID uint
	clone := func(p *models.Post) *models.Post {
		cp := *p
		cp.Likes = append(models.JSONList[models.Like]{}, p.Likes...)
		cp.Comments = append(models.JSONList[models.Comment]{}, p.Comments...)
		return &cp
	}
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			nextID++
			p.ID = nextID
			store[p.ID] = clone(p)
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			if p, ok := store[id]; ok {
				return clone(p), nil
			}
			return nil, models.NewPostNotFoundError(id)
		},
		listFn: func(_ context.Context, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, p *models.Post) error {
			store[p.ID] = clone(p)
			return nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			if _, ok := store[id]; !ok {
				return models.NewPostNotFoundError(id)
			}
			delete(store, id)
			return nil
		},
	}, store
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	events []events.PostEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.PostEvent) error {
	p.events = append(p.events, e)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
