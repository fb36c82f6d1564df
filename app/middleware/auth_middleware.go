// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"strings"

	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/gofiber/fiber/v3"
)

// Authenticator verifies an access token and returns the caller
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*dto.Caller, error)
}

// AuthMiddleware resolves the caller from a bearer token or the session cookie
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, code, message := extractToken(c)
		if token == "" {
			return unauthorized(c, message, code)
		}

		caller, err := m.authenticator.Authenticate(c.Context(), token)
		if err != nil {
			code, message := "TOKEN_VALIDATION_FAILED", "Token validation failed"
			if be, ok := businessflow.AsBusinessError(err); ok {
				code, message = be.Code, be.Message
			}
			return unauthorized(c, message, code)
		}

		// Store caller for downstream handlers
		c.Locals(utils.CallerLocalsKey, *caller)

		return c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the session cookie
func extractToken(c fiber.Ctx) (token, code, message string) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", "INVALID_AUTHORIZATION_FORMAT", "Invalid authorization header format. Expected 'Bearer <token>'"
		}
		token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return "", "MISSING_ACCESS_TOKEN", "Access token is required"
		}
		return token, "", ""
	}

	if cookie := strings.TrimSpace(c.Cookies(utils.SessionCookieName)); cookie != "" {
		return cookie, "", ""
	}

	return "", "MISSING_AUTHORIZATION_HEADER", "Authorization header is required"
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   message,
		Code:    code,
	})
}
