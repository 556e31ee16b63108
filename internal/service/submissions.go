package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
	"github.com/ukbizhub/directory-api/internal/repository"
)

// ErrInvalidBusinessID indicates a malformed listing identifier.
var ErrInvalidBusinessID = errors.New("invalid business id")

// ErrInvalidStatus indicates an unrecognised review status.
var ErrInvalidStatus = errors.New("invalid status")

// SubmissionsService runs the validation pipeline and persists listings.
type SubmissionsService struct {
	repo      repository.BusinessesRepository
	validator *Validator
	now       func() time.Time
}

// NewSubmissionsService builds a submissions service.
func NewSubmissionsService(repo repository.BusinessesRepository, validator *Validator) *SubmissionsService {
	return &SubmissionsService{
		repo:      repo,
		validator: validator,
		now:       time.Now,
	}
}

// Submit validates an untyped submission record and stores the normalized
// listing with status pending_review. It returns the stored record plus any
// non-fatal warning produced by the pipeline. Validation failures are
// returned as *ValidationError; a structurally unusable payload as
// ErrMalformedRequest.
func (s *SubmissionsService) Submit(ctx context.Context, raw any) (*entity.Business, string, error) {
	result, err := s.validator.Validate(raw)
	if err != nil {
		return nil, "", err
	}

	business := businessFromSubmission(result.Submission)
	business.ID = uuid.New()
	business.Status = entity.StatusPendingReview
	business.SubmittedAt = s.now().UTC()

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, "", err
	}

	return business, result.Warning, nil
}

// List returns listings respecting pagination defaults.
func (s *SubmissionsService) List(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	if filter.Status != "" && !entity.ValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// ListApproved returns published listings only.
func (s *SubmissionsService) ListApproved(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error) {
	filter.Status = entity.StatusApproved
	return s.List(ctx, filter)
}

// Get fetches a listing by id.
func (s *SubmissionsService) Get(ctx context.Context, id string) (*entity.Business, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidBusinessID
	}
	return s.repo.GetByID(ctx, businessID)
}

// GetPublished fetches an approved listing by slug.
func (s *SubmissionsService) GetPublished(ctx context.Context, slug string) (*entity.Business, error) {
	return s.repo.GetBySlug(ctx, slug, entity.StatusApproved)
}

// Update re-runs the full validation pipeline over the edited record and
// rewrites the listing. Edits are last-write-wins; the review status is
// left untouched.
func (s *SubmissionsService) Update(ctx context.Context, id string, raw any) (*entity.Business, string, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return nil, "", ErrInvalidBusinessID
	}

	result, err := s.validator.Validate(raw)
	if err != nil {
		return nil, "", err
	}

	business := businessFromSubmission(result.Submission)
	business.ID = businessID

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, "", err
	}

	return business, result.Warning, nil
}

// SetStatus moves a listing through the review workflow.
func (s *SubmissionsService) SetStatus(ctx context.Context, id string, status string) error {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidBusinessID
	}
	if !entity.ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, businessID, status)
}

// Delete removes a listing.
func (s *SubmissionsService) Delete(ctx context.Context, id string) error {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidBusinessID
	}
	return s.repo.Delete(ctx, businessID)
}

func businessFromSubmission(sub Submission) *entity.Business {
	return &entity.Business{
		Slug:        Slug(sub.Name),
		Name:        sub.Name,
		Description: sub.Description,
		Email:       sub.Email,
		Phone:       optionalPtr(sub.Phone),
		Website:     optionalPtr(sub.Website),
		OpeningTime: optionalPtr(sub.OpeningTime),
		ClosingTime: optionalPtr(sub.ClosingTime),
	}
}

func optionalPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
