package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/entity"
	middlewarepkg "github.com/ukbizhub/directory-api/internal/middleware"
	"github.com/ukbizhub/directory-api/internal/service"
)

// SubmitHandler accepts public business submissions.
type SubmitHandler struct {
	submissions *service.SubmissionsService
	notifier    NotifierPoster
}

// NewSubmitHandler constructs a submit handler. notifier may be nil, in
// which case accepted submissions are not announced.
func NewSubmitHandler(submissions *service.SubmissionsService, notifier NotifierPoster) *SubmitHandler {
	return &SubmitHandler{submissions: submissions, notifier: notifier}
}

type submitBusinessResponse struct {
	*entity.Business
	Warning string `json:"warning,omitempty"`
}

// Submit handles POST /submit-business requests.
func (h *SubmitHandler) Submit(c echo.Context) error {
	var raw any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return Error(c, http.StatusBadRequest, "request body must be valid JSON")
	}

	business, warning, err := h.submissions.Submit(c.Request().Context(), raw)
	if err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrMalformedRequest):
			return Error(c, http.StatusBadRequest, "request body must be a JSON object")
		case errors.As(err, &valErr):
			return FieldErrors(c, http.StatusBadRequest, "submission failed validation", valErr.Fields)
		default:
			return Error(c, http.StatusInternalServerError, "unable to store submission")
		}
	}

	h.announce(business, middlewarepkg.RequestIDFromContext(c))

	return Success(c, http.StatusCreated, "business submitted for review", submitBusinessResponse{
		Business: business,
		Warning:  warning,
	})
}

// announce posts the accepted submission to the ops webhook without blocking
// the response. Delivery failures are logged, never surfaced to the user.
func (h *SubmitHandler) announce(business *entity.Business, requestID string) {
	if h.notifier == nil {
		return
	}

	payload := map[string]any{
		"id":          business.ID.String(),
		"name":        business.Name,
		"slug":        business.Slug,
		"submittedAt": business.SubmittedAt,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := h.notifier.PostJSON(ctx, "/submissions", payload, requestID); err != nil {
			log.Printf("request_id=%s submission notify failed: %v", requestID, err)
		}
	}()
}
