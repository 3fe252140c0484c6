// Package service holds the business rules of the API.
package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for new passwords.
const PasswordCost = 10

type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokens      *auth.TokenIssuer
	hashCost    int
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewUserService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokens *auth.TokenIssuer,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		hashCost:    PasswordCost,
	}
}

// GravatarURL derives the avatar of an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Register")
	defer func() {
		observability.AuthAttempts.WithLabelValues("register", observability.Outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.ValidateRegister(in.Name, in.Email, in.Password).Err(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("email", "Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Avatar:   GravatarURL(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))
	return user, nil
}

// Login checks the credentials and returns "Bearer <token>".
func (s *UserService) Login(ctx context.Context, in LoginInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService", "Login")
	defer func() {
		observability.AuthAttempts.WithLabelValues("login", observability.Outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.ValidateLogin(in.Email, in.Password).Err(); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewUserNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", models.NewInvalidCredentialError()
	}

	signed, err := s.tokens.Issue(auth.Identity{ID: user.ID, Name: user.Name, Avatar: user.Avatar})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return auth.BearerPrefix + signed, nil
}

func (s *UserService) Current(ctx context.Context, id auth.Identity) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id.ID)
}

// Logout revokes the token described by claims until it expires.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := cache.RevokeToken(ctx, claims.RegisteredClaims.ID, claims.ExpiresAt.Time); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteAccount removes the caller's profile and then the user record, and
// revokes the token the request was made with. Posts and comments written
// by the user are kept.
func (s *UserService) DeleteAccount(ctx context.Context, id auth.Identity, claims *auth.Claims) error {
	profile, err := s.profileRepo.GetByUserID(ctx, id.ID)
	if err != nil {
		return err
	}
	if profile != nil {
		if err := s.profileRepo.DeleteByUserID(ctx, id.ID); err != nil {
			return err
		}
		cache.InvalidateProfile(ctx, id.ID, profile.Handle)
	}
	if err := s.userRepo.Delete(ctx, id.ID); err != nil {
		return err
	}
	return s.Logout(ctx, claims)
}
