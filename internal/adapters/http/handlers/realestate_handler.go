package handlers

import (
	"strconv"

	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RealestateHandler handles the caller's real estate records.
// Every route runs behind AuthMiddleware; ownership comes from the token only.
type RealestateHandler struct {
	realestateService *services.RealestateService
}

// NewRealestateHandler creates a new real estate handler
func NewRealestateHandler(realestateService *services.RealestateService) *RealestateHandler {
	return &RealestateHandler{realestateService: realestateService}
}

// Search lists the caller's records
// @Summary Search real estate
// @Tags Realestate
// @Produce json
// @Security BearerAuth
// @Param searchProjectName query string false "Project name contains"
// @Param searchParcelAddress query string false "Parcel address contains"
// @Param searchBuildingType query string false "Building type"
// @Param searchBuildingStructure query string false "Building structure"
// @Param searchFinancing query bool false "Has a loan"
// @Success 200 {object} response.Response{data=[]models.RealestateDetail}
// @Failure 400 {object} response.ErrorBody
// @Router /realestate [get]
func (h *RealestateHandler) Search(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	var params services.SearchParams
	if err := c.QueryParser(&params); err != nil {
		return response.BadRequest(c, "invalid search parameters")
	}

	details, err := h.realestateService.Search(c.UserContext(), identity, params)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "realestate retrieved successfully", details)
}

// Get returns one record
// @Summary Get real estate
// @Tags Realestate
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response{data=models.RealestateDetail}
// @Failure 404 {object} response.ErrorBody
// @Router /realestate/{id} [get]
func (h *RealestateHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	id, err := projectID(c)
	if err != nil {
		return response.BadRequest(c, "invalid project ID")
	}

	detail, err := h.realestateService.Get(c.UserContext(), identity, id)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "realestate retrieved successfully", detail)
}

// Register stores a new record
// @Summary Register real estate
// @Tags Realestate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.RealestateDetail true "Project, parcel, building and income/expenses"
// @Success 201 {object} response.Response{data=models.RealestateDetail}
// @Failure 400 {object} response.ErrorBody
// @Router /realestate [post]
func (h *RealestateHandler) Register(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	var detail models.RealestateDetail
	if err := c.BodyParser(&detail); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	saved, err := h.realestateService.Register(c.UserContext(), identity, &detail)
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, "realestate registered successfully", saved)
}

// Update overwrites a record
// @Summary Update real estate
// @Tags Realestate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.RealestateDetail true "Full record with ids"
// @Success 200 {object} response.Response{data=models.RealestateDetail}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /realestate [put]
func (h *RealestateHandler) Update(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	var detail models.RealestateDetail
	if err := c.BodyParser(&detail); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	saved, err := h.realestateService.Update(c.UserContext(), identity, &detail)
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "realestate updated successfully", saved)
}

// Delete removes a record
// @Summary Delete real estate
// @Tags Realestate
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorBody
// @Router /realestate/{id} [delete]
func (h *RealestateHandler) Delete(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.AuthFailure(c, "authentication is required", middleware.DetailsHeaderAbsent)
	}

	id, err := projectID(c)
	if err != nil {
		return response.BadRequest(c, "invalid project ID")
	}

	if err := h.realestateService.Delete(c.UserContext(), identity, id); err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "realestate deleted successfully", nil)
}

func projectID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
