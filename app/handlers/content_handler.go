package handlers

import (
	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/gofiber/fiber/v3"
)

// ContentHandlerInterface defines the contract for content generation and job reads
type ContentHandlerInterface interface {
	GenerateContent(c fiber.Ctx) error
	ListJobs(c fiber.Ctx) error
	GetJob(c fiber.Ctx) error
}

// ContentHandler serves generated content
type ContentHandler struct {
	baseHandler
	contentFlow businessflow.ContentFlow
	jobFlow     businessflow.JobFlow
}

func NewContentHandler(contentFlow businessflow.ContentFlow, jobFlow businessflow.JobFlow) *ContentHandler {
	return &ContentHandler{
		baseHandler: newBaseHandler(),
		contentFlow: contentFlow,
		jobFlow:     jobFlow,
	}
}

// GenerateContent produces new content for an audience, or refines existing content
// @Summary Generate Content
// @Description Generate marketing content and an icon for an audience and store it as a job
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateContentRequest true "Generation request"
// @Success 201 {object} dto.APIResponse{data=dto.JobDTO} "Job created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Caller may not generate content"
// @Failure 404 {object} dto.APIResponse "Audience not found"
// @Failure 500 {object} dto.APIResponse "Generation failed"
// @Router /api/v1/generate-content [post]
func (h *ContentHandler) GenerateContent(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.GenerateContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/generate-content", pipelineRequestTimeout)
	defer cancel()

	job, err := h.contentFlow.GenerateContent(ctx, caller, &req)
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to generate content", "GENERATION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Content generated successfully", job)
}

// ListJobs lists the caller's generated content
// @Summary List Jobs
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.JobDTO]} "Jobs"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/jobs [get]
func (h *ContentHandler) ListJobs(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/jobs")
	defer cancel()

	list, err := h.jobFlow.ListJobs(ctx, caller.UserID)
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to list jobs", "JOB_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Jobs retrieved successfully", list)
}

// GetJob returns one generated content job
// @Summary Get Job
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobDTO} "Job"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Job not found"
// @Router /api/v1/jobs/{id} [get]
func (h *ContentHandler) GetJob(c fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/jobs/:id")
	defer cancel()

	job, err := h.jobFlow.GetJob(ctx, caller.UserID, c.Params("id"))
	if err != nil {
		return h.handleFlowError(ctx, c, err, "Failed to load job", "JOB_LOAD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Job retrieved successfully", job)
}
