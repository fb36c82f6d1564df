package handlers

import (
	"fmt"

	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AudienceHandlerInterface defines the contract for audience handlers
type AudienceHandlerInterface interface {
	CreateAudience(c fiber.Ctx) error
	ListAudiences(c fiber.Ctx) error
	GetAudience(c fiber.Ctx) error
	ExportAudience(c fiber.Ctx) error
}

// AudienceHandler serves audience aggregation and retrieval
type AudienceHandler struct {
	baseHandler
	audienceFlow businessflow.AudienceFlow
}

func NewAudienceHandler(audienceFlow businessflow.AudienceFlow) *AudienceHandler {
	return &AudienceHandler{
		baseHandler:  newBaseHandler(),
		audienceFlow: audienceFlow,
	}
}

// CreateAudience aggregates a new audience from the caller's selections
// @Summary Create Audience
// @Description Resolve the selected entities, recommend one entity per category, aggregate demographics and persist the audience
// @Tags Audiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAudienceRequest true "Audience selections"
// @Success 201 {object} dto.APIResponse{data=dto.AudienceDTO} "Audience created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Taste graph or storage failure"
// @Router /api/v1/audience [post]
func (h *AudienceHandler) CreateAudience(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateAudienceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/audience", pipelineRequestTimeout)
	defer cancel()

	audience, err := h.audienceFlow.CreateAudience(ctx, caller.UserID, &req)
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to create audience", "AUDIENCE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Audience created successfully", audience)
}

// ListAudiences lists the caller's audiences
// @Summary List Audiences
// @Description List the caller's audiences, newest first
// @Tags Audiences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.AudienceSummaryDTO]} "Audiences"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/audiences [get]
func (h *AudienceHandler) ListAudiences(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences")
	defer cancel()

	list, err := h.audienceFlow.ListAudiences(ctx, caller.UserID)
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to list audiences", "AUDIENCE_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Audiences retrieved successfully", list)
}

// GetAudience returns one audience
// @Summary Get Audience
// @Tags Audiences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Audience ID"
// @Success 200 {object} dto.APIResponse{data=dto.AudienceDTO} "Audience"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Router /api/v1/audiences/{id} [get]
func (h *AudienceHandler) GetAudience(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences/:id")
	defer cancel()

	audience, err := h.audienceFlow.GetAudience(ctx, caller.UserID, c.Params("id"))
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to load audience", "AUDIENCE_LOAD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Audience retrieved successfully", audience)
}

// ExportAudience downloads an audience as a spreadsheet
// @Summary Export Audience
// @Description Download the audience summary and entities as an XLSX workbook
// @Tags Audiences
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Audience ID"
// @Success 200 {file} file "XLSX workbook"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Router /api/v1/audiences/{id}/export [get]
func (h *AudienceHandler) ExportAudience(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/audiences/:id/export")
	defer cancel()

	export, err := h.audienceFlow.ExportAudience(ctx, caller.UserID, c.Params("id"))
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to export audience", "AUDIENCE_EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Status(fiber.StatusOK).Send(export.Content)
}
