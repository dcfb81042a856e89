package server

import (
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// issueSession signs a token for user and sets the session cookie.
func (s *Server) issueSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	s.setSessionCookie(c, token, claims.ExpiresAt.Time)
	return token, nil
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an author account and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 201 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	if !s.featureFlags.Enabled(featureflags.FlagRegistration, 0) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Registration is disabled"))
	}

	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	token, err := s.issueSession(c, user)
	if err != nil {
		return mapServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	token, err := s.issueSession(c, user)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(authResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current token and clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if raw := middleware.ExtractToken(c); raw != "" {
		if claims, err := s.tokens.Parse(raw); err == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := cache.RevokeToken(c.UserContext(), claims.ID, ttl); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "token revocation failed", "error", err)
			}
		}
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), actor(c).ID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/auth/profile
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Changed fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	user, err := s.userService.UpdateProfile(c.UserContext(), actor(c).ID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(user)
}

// ListUsers handles GET /api/auth/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number"
// @Success 200 {object} service.UserPage
// @Failure 403 {object} models.ErrorResponse
// @Router /auth/users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	page, err := s.userService.ListUsers(c.UserContext(), actor(c), queryPage(c, "pageNumber"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(page)
}

// DeleteUser handles DELETE /api/auth/users/:id
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.UserContext(), actor(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}
