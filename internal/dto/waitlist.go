package dto

// WaitlistRequest is the payload for joining the waitlist.
type WaitlistRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// WaitlistResponse reports the entry identity for a join request. The same
// identity is returned for repeat joins with the same email.
type WaitlistResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
