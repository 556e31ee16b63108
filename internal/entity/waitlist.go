package entity

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry represents an interested email captured before launch.
// Email is the deduplication key and is stored trimmed and lowercased.
type WaitlistEntry struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
