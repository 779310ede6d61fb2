package handlers

import (
	"strconv"

	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/pagination"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles account administration endpoints
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles listing all accounts (Admin only)
// @Summary List users
// @Description Get a paginated list of non-deleted accounts (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Failure 401 {object} response.AuthErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.adminService.ListUsers(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "users retrieved successfully", pagination.NewResponse(users, params, total))
}

// UpdateStatus changes role, enabled flag and lockout state of an account (Admin only)
// @Summary Update account status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.StatusInput true "Status"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "invalid user ID")
	}

	var input services.StatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	user, err := h.adminService.UpdateStatus(c.UserContext(), identity, uint(id), input)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "user status updated successfully", user)
}
