package server

import (
	"encoding/json"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// skillList accepts either a JSON array or a comma separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*s = strings.Split(csv, ",")
	return nil
}

// profileRequest is the flat body of POST /api/profile. Absent keys decode
// to nil and leave the stored value untouched.
type profileRequest struct {
	Handle         *string    `json:"handle"`
	Company        *string    `json:"company"`
	Website        *string    `json:"website"`
	Location       *string    `json:"location"`
	Bio            *string    `json:"bio"`
	Status         *string    `json:"status"`
	GitHubUsername *string    `json:"githubusername"`
	Skills         *skillList `json:"skills"`
	YouTube        *string    `json:"youtube"`
	Instagram      *string    `json:"instagram"`
	Facebook       *string    `json:"facebook"`
	Twitter        *string    `json:"twitter"`
	LinkedIn       *string    `json:"linkedin"`
}

func (r profileRequest) patch() models.ProfilePatch {
	p := models.ProfilePatch{
		Handle:         r.Handle,
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		YouTube:        r.YouTube,
		Instagram:      r.Instagram,
		Facebook:       r.Facebook,
		Twitter:        r.Twitter,
		LinkedIn:       r.LinkedIn,
	}
	if r.Skills != nil {
		p.Skills = append([]string{}, (*r.Skills)...)
	}
	return p
}

type historyRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	Location     string `json:"location"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// dates parses from and to. It writes a 400 naming the bad field.
func (r historyRequest) dates(c *fiber.Ctx) (from time.Time, to *time.Time, err error) {
	from, ok := parseDate(r.From)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"from": "From date is invalid"}))
		return time.Time{}, nil, errResponseWritten
	}
	end, ok := parseDate(r.To)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"to": "To date is invalid"}))
		return time.Time{}, nil, errResponseWritten
	}
	if !end.IsZero() {
		to = &end
	}
	return from, to, nil
}

// GetCurrentProfile handles GET /api/profile
// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile [get]
func (s *Server) GetCurrentProfile(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	profile, err := s.profileService.Current(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update the current user's profile
// @Description Fields left out of the body keep their stored values.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body profileRequest true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.Upsert(c.UserContext(), id, req.patch())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete the current user and their profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool}
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	if err := s.userService.DeleteAccount(c.UserContext(), id, claims); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAllProfiles handles GET /api/profile/all
// @Summary List profiles
// @Tags profile
// @Produce json
// @Success 200 {array} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/all [get]
func (s *Server) GetAllProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.All(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByHandle handles GET /api/profile/handle/:handle
// @Summary Profile by handle
// @Tags profile
// @Produce json
// @Param handle path string true "Handle"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/handle/{handle} [get]
func (s *Server) GetProfileByHandle(c *fiber.Ctx) error {
	profile, err := s.profileService.ByHandle(c.UserContext(), c.Params("handle"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetProfileByUser handles GET /api/profile/user/:user_id
// @Summary Profile by user ID
// @Tags profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{user_id} [get]
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id", models.NewNoProfileError("There is no profile for this user"))
	if err != nil {
		return nil
	}
	profile, err := s.profileService.ByUserID(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// AddExperience handles POST /api/profile/experience
// @Summary Add a work history entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,company=string,location=string,from=string,to=string,current=bool,description=string} true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience [post]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	var req historyRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	from, to, err := req.dates(c)
	if err != nil {
		return nil
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), id, service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
// @Summary Remove a work history entry
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param exp_id path string true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{exp_id} [delete]
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	profile, err := s.profileService.RemoveExperience(c.UserContext(), id, c.Params("exp_id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles POST /api/profile/education
// @Summary Add a schooling entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{school=string,degree=string,fieldofstudy=string,from=string,to=string,current=bool,description=string} true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education [post]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	var req historyRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	from, to, err := req.dates(c)
	if err != nil {
		return nil
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), id, service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
// @Summary Remove a schooling entry
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param edu_id path string true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{edu_id} [delete]
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}
	profile, err := s.profileService.RemoveEducation(c.UserContext(), id, c.Params("edu_id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}
