package handlers

import (
	"strings"

	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication and own-account endpoints
type AuthHandler struct {
	authService    *services.AuthService
	accountService *services.AccountService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
	}
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username and password and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response{data=domain.LoginResult}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 423 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	input.Username = strings.TrimSpace(input.Username)

	result, err := h.authService.Authenticate(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "login successful", result)
}

// GuestLogin handles login of the shared guest account
// @Summary Guest login
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=domain.LoginResult}
// @Failure 401 {object} response.ErrorBody
// @Failure 423 {object} response.ErrorBody
// @Router /auth/guest-login [post]
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	result, err := h.authService.GuestLogin(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "guest login successful", result)
}

// Register handles user registration
// @Summary Register new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response{data=domain.UserInfo}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	info, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, "user registered successfully", info)
}

// Validate reports whether the presented bearer token is still usable
// @Summary Validate token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=domain.TokenStatus}
// @Failure 401 {object} response.ErrorBody
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return writeError(c, domain.NewError(domain.KindMissingToken, "authorization header is required"))
	}
	if !strings.HasPrefix(header, services.TokenType+" ") {
		return writeError(c, domain.NewError(domain.KindInvalidToken, "authorization header must use the Bearer scheme"))
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, services.TokenType+" "))
	status, err := h.authService.TokenStatus(c.UserContext(), token)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "token is valid", status)
}

// Me returns the caller's account
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=domain.UserInfo}
// @Failure 401 {object} response.AuthErrorBody
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	info, err := h.accountService.Me(c.UserContext(), identity)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "user retrieved successfully", info)
}

// UpdateUser changes the caller's profile and, optionally, password
// @Summary Update current user
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateUserInput true "Profile data"
// @Success 200 {object} response.Response{data=domain.UserInfo}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/user [put]
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	info, err := h.accountService.UpdateUser(c.UserContext(), identity, input)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "user updated successfully", info)
}

// DeleteUser deletes the caller's account and every record it owns
// @Summary Delete current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorBody
// @Router /auth/user [delete]
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	if err := h.accountService.DeleteAccount(c.UserContext(), identity); err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "user deleted successfully", nil)
}

// Logout acknowledges a logout. Tokens are stateless and stay valid until they expire.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.Success(c, "logged out, discard the token on the client", nil)
}

// Health reports that the auth module is up
// @Summary Auth health
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/health [get]
func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "auth",
	})
}
