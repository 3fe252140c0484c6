package server

import (
	"devconnector/internal/auth"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/users/register
// @Summary Register a user
// @Description Create an account. The avatar is derived from the email's Gravatar.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Registration"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(user)
}

// Login handles POST /api/users/login
// @Summary Log in
// @Description Verify credentials and return a bearer token valid for one hour.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// CurrentUser handles GET /api/users/current
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{id=int,name=string,email=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/current [get]
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.Current(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// Logout handles POST /api/users/logout
// @Summary Log out
// @Description Revoke the presented token until it expires.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	if err := s.userService.Logout(c.UserContext(), claims); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
