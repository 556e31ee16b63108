package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
	"github.com/ukbizhub/directory-api/internal/repository"
)

// ErrInvalidWaitlistEmail indicates the join request had no usable email.
var ErrInvalidWaitlistEmail = errors.New("a valid email address is required")

// WaitlistService captures interested emails with idempotent semantics.
type WaitlistService struct {
	repo repository.WaitlistRepository
}

// NewWaitlistService builds a waitlist service.
func NewWaitlistService(repo repository.WaitlistRepository) *WaitlistService {
	return &WaitlistService{repo: repo}
}

// Join adds an email to the waitlist, or returns the existing entry when the
// normalized email was seen before. Deduplication is enforced by the store's
// unique constraint, so concurrent joins for the same email cannot create
// two rows. The first submission's name and phone win; repeats never update
// them. created reports whether a new entry was made.
func (s *WaitlistService) Join(ctx context.Context, req dto.WaitlistRequest) (*entity.WaitlistEntry, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !emailPattern.MatchString(email) {
		return nil, false, ErrInvalidWaitlistEmail
	}

	entry := &entity.WaitlistEntry{
		ID:    uuid.New(),
		Email: email,
		Name:  optionalPtr(strings.TrimSpace(req.Name)),
		Phone: optionalPtr(normalizeOptionalPhone(req.Phone)),
	}

	created, err := s.repo.InsertIfAbsent(ctx, entry)
	if err != nil {
		return nil, false, err
	}

	return entry, created, nil
}

// List returns all waitlist entries for administrators.
func (s *WaitlistService) List(ctx context.Context) ([]entity.WaitlistEntry, error) {
	return s.repo.List(ctx)
}

// normalizeOptionalPhone canonicalises recognisable UK numbers and keeps
// anything else trimmed as given; the waitlist phone carries no format
// contract of its own.
func normalizeOptionalPhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := cleanPhone(trimmed)
	if ukPhonePattern.MatchString(cleaned) {
		return canonicalUKPhone(cleaned)
	}
	return trimmed
}
