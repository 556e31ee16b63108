package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
	"github.com/ukbizhub/directory-api/internal/repository"
	"github.com/ukbizhub/directory-api/internal/service"
	"github.com/ukbizhub/directory-api/internal/service/completeness"
)

// BusinessesHandler exposes directory listing endpoints.
type BusinessesHandler struct {
	submissions *service.SubmissionsService
}

// NewBusinessesHandler creates a new handler instance.
func NewBusinessesHandler(submissions *service.SubmissionsService) *BusinessesHandler {
	return &BusinessesHandler{submissions: submissions}
}

// List handles GET /businesses requests, returning approved listings only.
func (h *BusinessesHandler) List(c echo.Context) error {
	filter := listFilterFromQuery(c)

	businesses, err := h.submissions.ListApproved(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list businesses")
	}

	return Success(c, http.StatusOK, "businesses retrieved", businesses)
}

// GetBySlug handles GET /businesses/:slug requests.
func (h *BusinessesHandler) GetBySlug(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	business, err := h.submissions.GetPublished(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return Error(c, http.StatusNotFound, "business not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch business")
	}
	return Success(c, http.StatusOK, "business retrieved", business)
}

// ListAdmin handles GET /admin/businesses requests across all statuses.
func (h *BusinessesHandler) ListAdmin(c echo.Context) error {
	filter := listFilterFromQuery(c)
	filter.Status = strings.TrimSpace(c.QueryParam("status"))

	businesses, err := h.submissions.List(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return Error(c, http.StatusBadRequest, "invalid status filter")
		}
		return Error(c, http.StatusInternalServerError, "failed to list businesses")
	}

	return Success(c, http.StatusOK, "businesses retrieved", businesses)
}

type adminBusinessResponse struct {
	*entity.Business
	PhoneDisplay   string                   `json:"phoneDisplay,omitempty"`
	WebsiteDisplay string                   `json:"websiteDisplay,omitempty"`
	Completeness   completeness.ScoreResult `json:"completeness"`
}

// GetAdmin handles GET /admin/businesses/:id requests.
func (h *BusinessesHandler) GetAdmin(c echo.Context) error {
	business, err := h.submissions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBusinessID):
			return Error(c, http.StatusBadRequest, "invalid business id")
		case errors.Is(err, repository.ErrBusinessNotFound):
			return Error(c, http.StatusNotFound, "business not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to fetch business")
		}
	}

	resp := adminBusinessResponse{
		Business:     business,
		Completeness: completeness.ComputeScore(completenessFields(business)),
	}
	if business.Phone != nil {
		resp.PhoneDisplay = service.DisplayPhone(*business.Phone)
	}
	if business.Website != nil {
		resp.WebsiteDisplay = service.DisplayWebsite(*business.Website)
	}

	return Success(c, http.StatusOK, "business retrieved", resp)
}

// Update handles PUT /admin/businesses/:id requests. The edited record runs
// through the same validation pipeline as a fresh submission.
func (h *BusinessesHandler) Update(c echo.Context) error {
	var raw any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return Error(c, http.StatusBadRequest, "request body must be valid JSON")
	}

	business, warning, err := h.submissions.Update(c.Request().Context(), c.Param("id"), raw)
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidBusinessID):
			return Error(c, http.StatusBadRequest, "invalid business id")
		case errors.Is(err, service.ErrMalformedRequest):
			return Error(c, http.StatusBadRequest, "request body must be a JSON object")
		case errors.As(err, &valErr):
			return FieldErrors(c, http.StatusBadRequest, "edit failed validation", valErr.Fields)
		case errors.Is(err, repository.ErrBusinessNotFound):
			return Error(c, http.StatusNotFound, "business not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update business")
		}
	}

	return Success(c, http.StatusOK, "business updated", submitBusinessResponse{
		Business: business,
		Warning:  warning,
	})
}

// UpdateStatus handles PATCH /admin/businesses/:id/status requests.
func (h *BusinessesHandler) UpdateStatus(c echo.Context) error {
	var req dto.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	err := h.submissions.SetStatus(c.Request().Context(), c.Param("id"), strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBusinessID):
			return Error(c, http.StatusBadRequest, "invalid business id")
		case errors.Is(err, service.ErrInvalidStatus):
			return Error(c, http.StatusBadRequest, "status must be pending_review, approved or rejected")
		case errors.Is(err, repository.ErrBusinessNotFound):
			return Error(c, http.StatusNotFound, "business not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update status")
		}
	}

	return Success(c, http.StatusOK, "status updated", nil)
}

// Delete handles DELETE /admin/businesses/:id requests.
func (h *BusinessesHandler) Delete(c echo.Context) error {
	if err := h.submissions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBusinessID):
			return Error(c, http.StatusBadRequest, "invalid business id")
		case errors.Is(err, repository.ErrBusinessNotFound):
			return Error(c, http.StatusNotFound, "business not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to delete business")
		}
	}
	return Success(c, http.StatusOK, "business deleted", nil)
}

func completenessFields(business *entity.Business) completeness.ListingFields {
	deref := func(value *string) string {
		if value == nil {
			return ""
		}
		return *value
	}
	return completeness.ListingFields{
		Name:        business.Name,
		Description: business.Description,
		Email:       business.Email,
		Phone:       deref(business.Phone),
		Website:     deref(business.Website),
		OpeningTime: deref(business.OpeningTime),
		ClosingTime: deref(business.ClosingTime),
	}
}

func listFilterFromQuery(c echo.Context) dto.ListFilter {
	return dto.ListFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 20),
	}
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
