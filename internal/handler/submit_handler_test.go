package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
	"github.com/ukbizhub/directory-api/internal/service"
)

type stubBusinessesRepository struct {
	created  *entity.Business
	business *entity.Business
	filter   dto.ListFilter
	err      error
}

func (s *stubBusinessesRepository) Create(_ context.Context, b *entity.Business) error {
	s.created = b
	return s.err
}

func (s *stubBusinessesRepository) GetByID(_ context.Context, _ uuid.UUID) (*entity.Business, error) {
	return s.business, s.err
}

func (s *stubBusinessesRepository) GetBySlug(_ context.Context, _, _ string) (*entity.Business, error) {
	return s.business, s.err
}

func (s *stubBusinessesRepository) List(_ context.Context, filter dto.ListFilter) ([]entity.Business, error) {
	s.filter = filter
	if s.err != nil {
		return nil, s.err
	}
	if s.business == nil {
		return nil, nil
	}
	return []entity.Business{*s.business}, nil
}

func (s *stubBusinessesRepository) Update(_ context.Context, b *entity.Business) error {
	s.created = b
	return s.err
}

func (s *stubBusinessesRepository) UpdateStatus(_ context.Context, _ uuid.UUID, _ string) error {
	return s.err
}

func (s *stubBusinessesRepository) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

type stubNotifier struct {
	posted chan map[string]any
}

func (s *stubNotifier) PostJSON(_ context.Context, _ string, payload any, _ string) (map[string]any, error) {
	if s.posted != nil {
		record, _ := payload.(map[string]any)
		s.posted <- record
	}
	return nil, nil
}

func newSubmitHandler(repo *stubBusinessesRepository, notifier NotifierPoster) *SubmitHandler {
	submissions := service.NewSubmissionsService(repo, service.NewValidator(service.ValidatorConfig{}))
	return NewSubmitHandler(submissions, notifier)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func TestSubmitHandler_Created(t *testing.T) {
	e := echo.New()
	repo := &stubBusinessesRepository{}
	handler := newSubmitHandler(repo, nil)

	c, rec := postJSON(e, "/submit-business", `{
		"name": "Joe's Cafe",
		"description": "Breakfasts and strong coffee since 1998.",
		"email": "joe@joescafe.co.uk",
		"phone": "07123 456789"
	}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeEnvelope(t, rec)
	if !payload.Success {
		t.Fatalf("expected success envelope, got %+v", payload)
	}
	data, ok := payload.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", payload.Data)
	}
	if data["slug"] != "joe-s-cafe" {
		t.Fatalf("expected slug joe-s-cafe, got %v", data["slug"])
	}
	if data["phone"] != "+447123456789" {
		t.Fatalf("expected normalized phone, got %v", data["phone"])
	}
	if data["status"] != entity.StatusPendingReview {
		t.Fatalf("expected pending_review, got %v", data["status"])
	}
	if _, hasWarning := data["warning"]; hasWarning {
		t.Fatalf("expected no warning field, got %v", data["warning"])
	}
	if repo.created == nil {
		t.Fatal("expected business to be stored")
	}
}

func TestSubmitHandler_ValidationErrors(t *testing.T) {
	e := echo.New()
	handler := newSubmitHandler(&stubBusinessesRepository{}, nil)

	c, rec := postJSON(e, "/submit-business", `{"name": "X", "email": "nope"}`)
	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	payload := decodeEnvelope(t, rec)
	if payload.Success {
		t.Fatalf("expected failure envelope")
	}
	for _, field := range []string{"name", "description", "email"} {
		if _, ok := payload.Errors[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, payload.Errors)
		}
	}
}

func TestSubmitHandler_MalformedBodies(t *testing.T) {
	e := echo.New()
	handler := newSubmitHandler(&stubBusinessesRepository{}, nil)

	tests := map[string]string{
		"invalid json": `{`,
		"json array":   `["name", "description"]`,
		"json scalar":  `"just a string"`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := postJSON(e, "/submit-business", body)
			if err := handler.Submit(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			payload := decodeEnvelope(t, rec)
			if payload.Success || len(payload.Errors) != 0 {
				t.Fatalf("malformed bodies carry no field errors, got %+v", payload)
			}
		})
	}
}

func TestSubmitHandler_WarningIncluded(t *testing.T) {
	e := echo.New()
	handler := newSubmitHandler(&stubBusinessesRepository{}, nil)

	c, rec := postJSON(e, "/submit-business", `{
		"name": "Night Owl Bar",
		"description": "Cocktails until the early hours.",
		"email": "hello@nightowl.co.uk",
		"openingTime": "18:00",
		"closingTime": "02:00"
	}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	if warning, _ := data["warning"].(string); warning == "" {
		t.Fatalf("expected warning in response, got %v", data)
	}
}

func TestSubmitHandler_StoreFailure(t *testing.T) {
	e := echo.New()
	handler := newSubmitHandler(&stubBusinessesRepository{err: errors.New("connection reset")}, nil)

	c, rec := postJSON(e, "/submit-business", `{
		"name": "Joe's Cafe",
		"description": "Breakfasts and strong coffee since 1998.",
		"email": "joe@joescafe.co.uk"
	}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSubmitHandler_NotifiesOps(t *testing.T) {
	e := echo.New()
	notifier := &stubNotifier{posted: make(chan map[string]any, 1)}
	handler := newSubmitHandler(&stubBusinessesRepository{}, notifier)

	c, rec := postJSON(e, "/submit-business", `{
		"name": "Joe's Cafe",
		"description": "Breakfasts and strong coffee since 1998.",
		"email": "joe@joescafe.co.uk"
	}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	select {
	case payload := <-notifier.posted:
		if payload["slug"] != "joe-s-cafe" {
			t.Fatalf("unexpected notification payload: %v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a webhook notification")
	}
}
