package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Success: false,
		Message: message,
	}
	return c.JSON(status, payload)
}

// FieldErrors sends a validation failure carrying the complete field error map.
func FieldErrors(c echo.Context, status int, message string, errs map[string]string) error {
	if status == 0 {
		status = http.StatusBadRequest
	}
	payload := APIResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	}
	return c.JSON(status, payload)
}
