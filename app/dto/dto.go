// Package dto contains Data Transfer Objects for API request and response structures
package dto

// APIResponse represents the standard API response structure.
// Failed responses always carry a human-readable Error and a machine-readable Code.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// ListResponse wraps a list of items
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
