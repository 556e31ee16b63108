package entity

import (
	"time"

	"github.com/google/uuid"
)

// Business review statuses.
const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
)

// Business represents a directory listing.
type Business struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	OpeningTime *string   `json:"openingTime,omitempty"`
	ClosingTime *string   `json:"closingTime,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidStatus reports whether the given value is a recognised review status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}
