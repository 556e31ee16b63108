package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/service"
)

// WaitlistHandler exposes the public waitlist join endpoint plus the admin
// listing.
type WaitlistHandler struct {
	waitlist *service.WaitlistService
}

// NewWaitlistHandler constructs a waitlist handler.
func NewWaitlistHandler(waitlist *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

// Join handles POST /waitlist requests. Joining twice with the same email is
// not an error: the original entry's identity comes back with a 200.
func (h *WaitlistHandler) Join(c echo.Context) error {
	var req dto.WaitlistRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	entry, created, err := h.waitlist.Join(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWaitlistEmail) {
			return FieldErrors(c, http.StatusBadRequest, "unable to join waitlist", map[string]string{
				"email": "a valid email address is required",
			})
		}
		return Error(c, http.StatusInternalServerError, "unable to join waitlist")
	}

	status := http.StatusCreated
	message := "added to waitlist"
	if !created {
		status = http.StatusOK
		message = "already on waitlist"
	}

	return Success(c, status, message, dto.WaitlistResponse{
		ID:    entry.ID.String(),
		Email: entry.Email,
	})
}

// List handles GET /admin/waitlist requests.
func (h *WaitlistHandler) List(c echo.Context) error {
	entries, err := h.waitlist.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list waitlist entries")
	}
	return Success(c, http.StatusOK, "waitlist retrieved", entries)
}
