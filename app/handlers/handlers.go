// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// generation and aggregation call several upstreams in sequence
	pipelineRequestTimeout = 120 * time.Second
)

// baseHandler holds the response helpers and the validator shared by every handler
type baseHandler struct {
	validator *validator.Validate
}

func newBaseHandler() baseHandler {
	v := validator.New()
	setupCustomValidations(v)
	return baseHandler{validator: v}
}

// ErrorResponse writes a failed APIResponse; message is repeated in the error field
func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   message,
		Code:    errorCode,
		Details: details,
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate runs struct validation and reports the messages, first one leading
func (h *baseHandler) validate(req any) []string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

func (h *baseHandler) validationFailed(c fiber.Ctx, messages []string) error {
	return h.ErrorResponse(c, fiber.StatusBadRequest, messages[0], "VALIDATION_ERROR", messages)
}

// createRequestContext derives a bounded context from the request and attaches
// request-scoped values and a logger carrying them
func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, defaultRequestTimeout)
}

func (h *baseHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context(), timeout)

	requestID := requestid.FromContext(c)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestID)
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get(fiber.HeaderUserAgent))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	fields := []zap.Field{zap.String("request_id", requestID), zap.String("endpoint", endpoint)}
	if caller, ok := callerFrom(c); ok {
		fields = append(fields, zap.String("user_id", caller.UserID))
	}
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(fields...))

	return ctx, cancel
}

// handleFlowError maps a business error onto an HTTP status
func (h *baseHandler) handleFlowError(ctx context.Context, c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	message, code := fallbackMessage, fallbackCode
	if be, ok := businessflow.AsBusinessError(err); ok {
		message, code = be.Message, be.Code
	}

	switch {
	case businessflow.IsValidation(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, code, nil)
	case businessflow.IsUnauthenticated(err), businessflow.IsInvalidCredentials(err):
		return h.ErrorResponse(c, fiber.StatusUnauthorized, message, code, nil)
	case businessflow.IsForbidden(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, message, code, nil)
	case businessflow.IsAudienceNotFound(err), businessflow.IsJobNotFound(err), businessflow.IsUserNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
	case businessflow.IsEmailAlreadyExists(err):
		return h.ErrorResponse(c, fiber.StatusConflict, message, code, nil)
	case errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(ctx).Error(fallbackMessage, zap.Error(err))
		return h.ErrorResponse(c, fiber.StatusGatewayTimeout, "Request timed out", "REQUEST_TIMEOUT", nil)
	}

	logger.FromContext(ctx).Error(fallbackMessage, zap.Error(err))
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// callerFrom returns the identity placed by the auth middleware
func callerFrom(c fiber.Ctx) (dto.Caller, bool) {
	caller, ok := c.Locals(utils.CallerLocalsKey).(dto.Caller)
	return caller, ok
}

func setupCustomValidations(v *validator.Validate) {
	// at least one uppercase letter and one digit
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		hasUpper, hasNumber := false, false
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsDigit(r):
				hasNumber = true
			}
		}
		return hasUpper && hasNumber
	})
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "uuid", "uuid4":
		return err.Field() + " must be a valid UUID"
	case "password_strength":
		return "Password must contain at least 1 uppercase letter and 1 number"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
