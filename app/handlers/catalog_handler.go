package handlers

import (
	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandlerInterface defines the contract for the audience-builder lookups
type CatalogHandlerInterface interface {
	AudienceOptions(c fiber.Ctx) error
	SearchEntities(c fiber.Ctx) error
}

type CatalogHandler struct {
	baseHandler
	catalogFlow businessflow.CatalogFlow
}

func NewCatalogHandler(catalogFlow businessflow.CatalogFlow) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(),
		catalogFlow: catalogFlow,
	}
}

// AudienceOptions lists the selectable audience tags, genres, age groups and genders
// @Summary Audience Options
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AudienceOptionsResponse} "Options"
// @Router /api/v1/audience-options [get]
func (h *CatalogHandler) AudienceOptions(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/audience-options")
	defer cancel()

	return h.SuccessResponse(c, fiber.StatusOK, "Audience options retrieved successfully", h.catalogFlow.AudienceOptions(ctx))
}

// SearchEntities searches the taste graph by name
// @Summary Search Entities
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param query query string true "Search text"
// @Param type query string false "Entity type" Enums(movie, person, artist, book, brand, place, tv_show, video_game, podcast)
// @Success 200 {object} dto.APIResponse{data=dto.EntitySearchResponse} "Results"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Taste graph failure"
// @Router /api/v1/entities/search [get]
func (h *CatalogHandler) SearchEntities(c fiber.Ctx) error {
	var req dto.EntitySearchRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if msgs := h.validate(&req); msgs != nil {
		return h.validationFailed(c, msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/entities/search")
	defer cancel()

	res, err := h.catalogFlow.SearchEntities(ctx, &req)
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to search entities", "ENTITY_SEARCH_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Entities retrieved successfully", res)
}
