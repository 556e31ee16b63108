package completeness

import "strings"

const (
	categoryContact     = "contact_details"
	categoryWeb         = "web_presence"
	categoryHours       = "opening_hours"
	categoryDescription = "description_quality"
)

// ListingFields captures the profile signals used for scoring.
type ListingFields struct {
	Name        string
	Description string
	Email       string
	Phone       string
	Website     string
	OpeningTime string
	ClosingTime string
}

// ScoreResult reports the aggregate score and the per-category breakdown.
// The total is out of 100.
type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// ComputeScore evaluates how complete a listing profile is. Administrators
// use it to prioritise review of thin submissions.
func ComputeScore(input ListingFields) ScoreResult {
	breakdown := map[string]int{
		categoryContact:     scoreContact(input),
		categoryWeb:         scoreWeb(input),
		categoryHours:       scoreHours(input),
		categoryDescription: scoreDescription(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContact(input ListingFields) int {
	score := 0
	if hasValue(input.Email) {
		score += 15
	}
	if hasValue(input.Phone) {
		score += 15
	}
	return score
}

func scoreWeb(input ListingFields) int {
	if !hasValue(input.Website) {
		return 0
	}
	score := 20
	if strings.Count(input.Website, ".") > 1 {
		// Multi-label domains (e.g. co.uk) usually signal a registered
		// business domain rather than a builder subdomain.
		score += 5
	}
	if score > 25 {
		return 25
	}
	return score
}

func scoreHours(input ListingFields) int {
	score := 0
	if hasValue(input.OpeningTime) {
		score += 10
	}
	if hasValue(input.ClosingTime) {
		score += 10
	}
	return score
}

func scoreDescription(input ListingFields) int {
	length := len(strings.TrimSpace(input.Description))
	switch {
	case length >= 200:
		return 25
	case length >= 80:
		return 15
	case length > 0:
		return 5
	default:
		return 0
	}
}

func hasValue(value string) bool {
	return strings.TrimSpace(value) != ""
}
