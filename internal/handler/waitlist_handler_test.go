package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/entity"
	"github.com/ukbizhub/directory-api/internal/service"
)

type stubWaitlistRepository struct {
	existing *entity.WaitlistEntry
	entries  []entity.WaitlistEntry
	err      error
}

func (s *stubWaitlistRepository) InsertIfAbsent(_ context.Context, entry *entity.WaitlistEntry) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.existing != nil {
		*entry = *s.existing
		return false, nil
	}
	return true, nil
}

func (s *stubWaitlistRepository) GetByEmail(_ context.Context, _ string) (*entity.WaitlistEntry, error) {
	return s.existing, s.err
}

func (s *stubWaitlistRepository) List(_ context.Context) ([]entity.WaitlistEntry, error) {
	return s.entries, s.err
}

func newWaitlistHandler(repo *stubWaitlistRepository) *WaitlistHandler {
	return NewWaitlistHandler(service.NewWaitlistService(repo))
}

func TestWaitlistHandler_JoinCreated(t *testing.T) {
	e := echo.New()
	handler := newWaitlistHandler(&stubWaitlistRepository{})

	c, rec := postJSON(e, "/waitlist", `{"email": "Jane@Example.co.uk", "name": "Jane"}`)
	if err := handler.Join(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeEnvelope(t, rec)
	if !payload.Success || payload.Message != "added to waitlist" {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
	data, _ := payload.Data.(map[string]any)
	if data["email"] != "jane@example.co.uk" {
		t.Fatalf("expected normalized email, got %v", data["email"])
	}
	if id, _ := data["id"].(string); id == "" {
		t.Fatalf("expected entry id, got %v", data)
	}
}

func TestWaitlistHandler_JoinRepeatIsIdempotent(t *testing.T) {
	e := echo.New()
	existing := &entity.WaitlistEntry{Email: "jane@example.co.uk"}
	handler := newWaitlistHandler(&stubWaitlistRepository{existing: existing})

	c, rec := postJSON(e, "/waitlist", `{"email": "jane@example.co.uk"}`)
	if err := handler.Join(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for repeat join, got %d", rec.Code)
	}
	if payload := decodeEnvelope(t, rec); payload.Message != "already on waitlist" {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
}

func TestWaitlistHandler_JoinBadEmail(t *testing.T) {
	e := echo.New()
	handler := newWaitlistHandler(&stubWaitlistRepository{})

	for name, body := range map[string]string{
		"missing email": `{"name": "Jane"}`,
		"invalid email": `{"email": "not-an-email"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := postJSON(e, "/waitlist", body)
			if err := handler.Join(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			payload := decodeEnvelope(t, rec)
			if payload.Errors["email"] == "" {
				t.Fatalf("expected email field error, got %+v", payload)
			}
		})
	}
}

func TestWaitlistHandler_JoinStoreFailure(t *testing.T) {
	e := echo.New()
	handler := newWaitlistHandler(&stubWaitlistRepository{err: errors.New("connection reset")})

	c, rec := postJSON(e, "/waitlist", `{"email": "jane@example.co.uk"}`)
	if err := handler.Join(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWaitlistHandler_List(t *testing.T) {
	e := echo.New()
	handler := newWaitlistHandler(&stubWaitlistRepository{
		entries: []entity.WaitlistEntry{{Email: "jane@example.co.uk"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/waitlist", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload := decodeEnvelope(t, rec)
	entries, _ := payload.Data.([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %v", payload.Data)
	}
}
