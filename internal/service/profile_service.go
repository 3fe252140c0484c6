package service

import (
	"context"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgNoProfileForUser   = "There is no profile for this user"
	msgNoProfileForHandle = "There is no profile for this handle"
	msgNoProfiles         = "There are no profiles"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Current(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	return s.mustGetByUserID(ctx, id.ID)
}

func (s *ProfileService) mustGetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNoProfileError(msgNoProfileForUser)
	}
	return profile, nil
}

// Upsert creates the caller's profile or merges patch over the existing one.
func (s *ProfileService) Upsert(ctx context.Context, id auth.Identity, patch models.ProfilePatch) (_ *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService", "Upsert",
		attribute.Int64("user.id", int64(id.ID)))
	defer func() { observability.EndSpan(span, err) }()

	if patch.Handle != nil {
		h := strings.TrimSpace(*patch.Handle)
		patch.Handle = &h
	}
	if patch.Skills != nil {
		patch.Skills = cleanSkills(patch.Skills)
	}

	existing, err := s.profileRepo.GetByUserID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProfile(patch, existing == nil).Err(); err != nil {
		return nil, err
	}

	if patch.Handle != nil {
		holder, err := s.profileRepo.GetByHandle(ctx, *patch.Handle)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.UserID != id.ID {
			return nil, models.NewConflictError("handle", "That handle already exists")
		}
	}

	if existing != nil {
		oldHandle := existing.Handle
		patch.Apply(existing)
		if err := s.profileRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		cache.InvalidateProfile(ctx, id.ID, oldHandle, existing.Handle)
		return existing, nil
	}

	profile := &models.Profile{
		UserID:     id.ID,
		Skills:     models.JSONList[string]{},
		Experience: models.JSONList[models.Experience]{},
		Education:  models.JSONList[models.Education]{},
	}
	patch.Apply(profile)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, id.ID, profile.Handle)

	// Re-read to populate the owner.
	return s.mustGetByUserID(ctx, id.ID)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			out = append(out, sk)
		}
	}
	return out
}

// All returns every profile, or a not-found error when there are none.
func (s *ProfileService) All(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := cache.Aside(ctx, cache.ProfilesListKey, &profiles, cache.ListTTL, func() error {
		var err error
		profiles, err = s.profileRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return models.NewNoProfileError(msgNoProfiles)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *ProfileService) ByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileHandleKey(handle), &profile, cache.ProfileTTL, func() error {
		found, err := s.profileRepo.GetByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if found == nil {
			return models.NewNoProfileError(msgNoProfileForHandle)
		}
		profile = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) ByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileUserKey(userID), &profile, cache.ProfileTTL, func() error {
		found, err := s.mustGetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, id auth.Identity, in ExperienceInput) (*models.Profile, error) {
	if err := validation.ValidateExperience(in.Title, in.Company, in.From).Err(); err != nil {
		return nil, err
	}
	profile, err := s.mustGetByUserID(ctx, id.ID)
	if err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	if exp.Current {
		exp.To = nil
	}
	profile.AddExperience(exp)
	return s.save(ctx, profile)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, id auth.Identity, expID string) (*models.Profile, error) {
	profile, err := s.mustGetByUserID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if err := profile.RemoveExperience(expID); err != nil {
		return nil, err
	}
	return s.save(ctx, profile)
}

func (s *ProfileService) AddEducation(ctx context.Context, id auth.Identity, in EducationInput) (*models.Profile, error) {
	if err := validation.ValidateEducation(in.School, in.Degree, in.FieldOfStudy, in.From).Err(); err != nil {
		return nil, err
	}
	profile, err := s.mustGetByUserID(ctx, id.ID)
	if err != nil {
		return nil, err
	}

	edu := models.Education{
		ID:           uuid.NewString(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	if edu.Current {
		edu.To = nil
	}
	profile.AddEducation(edu)
	return s.save(ctx, profile)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, id auth.Identity, eduID string) (*models.Profile, error) {
	profile, err := s.mustGetByUserID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if err := profile.RemoveEducation(eduID); err != nil {
		return nil, err
	}
	return s.save(ctx, profile)
}

func (s *ProfileService) save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	cache.InvalidateProfile(ctx, profile.UserID, profile.Handle)
	return profile, nil
}
