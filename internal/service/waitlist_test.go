package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
)

type stubWaitlistRepo struct {
	inserted *entity.WaitlistEntry
	existing *entity.WaitlistEntry
	created  bool
	err      error
}

func (s *stubWaitlistRepo) InsertIfAbsent(_ context.Context, entry *entity.WaitlistEntry) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.inserted = entry
	if s.existing != nil {
		*entry = *s.existing
		return false, nil
	}
	return s.created, nil
}

func (s *stubWaitlistRepo) GetByEmail(_ context.Context, _ string) (*entity.WaitlistEntry, error) {
	return s.existing, s.err
}

func (s *stubWaitlistRepo) List(_ context.Context) ([]entity.WaitlistEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.existing == nil {
		return nil, nil
	}
	return []entity.WaitlistEntry{*s.existing}, nil
}

func TestWaitlistService_JoinNormalizesEmail(t *testing.T) {
	repo := &stubWaitlistRepo{created: true}
	svc := NewWaitlistService(repo)

	entry, created, err := svc.Join(context.Background(), dto.WaitlistRequest{
		Email: "  Jane@Example.CO.UK  ",
		Name:  "  Jane  ",
		Phone: "07123 456789",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for a new email")
	}
	if entry.Email != "jane@example.co.uk" {
		t.Fatalf("expected lowercased trimmed email, got %q", entry.Email)
	}
	if entry.Name == nil || *entry.Name != "Jane" {
		t.Fatalf("expected trimmed name, got %v", entry.Name)
	}
	if entry.Phone == nil || *entry.Phone != "+447123456789" {
		t.Fatalf("expected canonical phone, got %v", entry.Phone)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}
}

func TestWaitlistService_JoinRejectsBadEmail(t *testing.T) {
	repo := &stubWaitlistRepo{}
	svc := NewWaitlistService(repo)

	for _, email := range []string{"", "   ", "not-an-email", "foo@bar"} {
		_, _, err := svc.Join(context.Background(), dto.WaitlistRequest{Email: email})
		if !errors.Is(err, ErrInvalidWaitlistEmail) {
			t.Fatalf("expected ErrInvalidWaitlistEmail for %q, got %v", email, err)
		}
	}
	if repo.inserted != nil {
		t.Fatal("repository must not be called for invalid emails")
	}
}

func TestWaitlistService_JoinReturnsExistingEntry(t *testing.T) {
	existingID := uuid.New()
	name := "First Submitter"
	repo := &stubWaitlistRepo{
		existing: &entity.WaitlistEntry{ID: existingID, Email: "jane@example.co.uk", Name: &name},
	}
	svc := NewWaitlistService(repo)

	entry, created, err := svc.Join(context.Background(), dto.WaitlistRequest{
		Email: "jane@example.co.uk",
		Name:  "Second Submitter",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false for a repeat email")
	}
	if entry.ID != existingID {
		t.Fatalf("expected original entry id %s, got %s", existingID, entry.ID)
	}
	if entry.Name == nil || *entry.Name != "First Submitter" {
		t.Fatalf("first submission's details must win, got %v", entry.Name)
	}
}

func TestWaitlistService_JoinKeepsNonUKPhoneAsGiven(t *testing.T) {
	repo := &stubWaitlistRepo{created: true}
	svc := NewWaitlistService(repo)

	entry, _, err := svc.Join(context.Background(), dto.WaitlistRequest{
		Email: "jane@example.co.uk",
		Phone: " +1 415 555 1234 ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Phone == nil || *entry.Phone != "+1 415 555 1234" {
		t.Fatalf("expected trimmed passthrough phone, got %v", entry.Phone)
	}
}

func TestWaitlistService_JoinPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewWaitlistService(&stubWaitlistRepo{err: storeErr})

	_, _, err := svc.Join(context.Background(), dto.WaitlistRequest{Email: "jane@example.co.uk"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
