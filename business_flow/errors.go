// Package businessflow contains the core business logic and use cases of the service
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Input errors
	ErrValidation = errors.New("validation failed")

	// Account errors
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrForbidden = errors.New("not permitted")

	// Lookup errors
	ErrAudienceNotFound = errors.New("audience not found")
	ErrJobNotFound      = errors.New("job not found")

	// Upstream errors
	ErrExternalAPI      = errors.New("external API error")
	ErrGenerationFailed = fmt.Errorf("%w: generation failed", ErrExternalAPI)
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// validationError builds the 400 error carrying a human-readable reason
func validationError(format string, args ...any) *BusinessError {
	return NewBusinessErrorf("VALIDATION_ERROR", format, ErrValidation, args...)
}

// AsBusinessError extracts the outermost BusinessError from an error chain
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsAudienceNotFound(err error) bool {
	return errors.Is(err, ErrAudienceNotFound)
}

func IsJobNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}

func IsExternalAPI(err error) bool {
	return errors.Is(err, ErrExternalAPI)
}

func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}
