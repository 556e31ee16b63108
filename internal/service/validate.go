package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-']+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	timePattern    = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	domainPattern  = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9\-]*[a-z0-9])?)+$`)
	ukPhonePattern = regexp.MustCompile(`^(\+?447[0-9]{9}|07[0-9]{9}|7[0-9]{9})$`)

	idnaProfile = idna.Lookup
)

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMinLen = 10
	descriptionMaxLen = 500
	domainMinLen      = 3
	domainMaxLen      = 100
)

// ErrMalformedRequest indicates the input was not a key/value record at all.
var ErrMalformedRequest = errors.New("request body must be a JSON object")

// FieldErrors maps a field name to a single human-readable failure message.
type FieldErrors map[string]string

// ValidationError carries the complete field error map for a rejected submission.
type ValidationError struct {
	Fields FieldErrors
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed for %d field(s): %s", len(e.Fields), strings.Join(fields, ", "))
}

// Submission holds a fully validated and normalized business submission.
// Optional fields are empty strings when not provided.
type Submission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
}

// ValidationResult pairs a normalized submission with any non-fatal warning.
type ValidationResult struct {
	Submission Submission
	Warning    string
}

// ValidatorConfig controls optional validator behaviour. It is passed in
// explicitly at construction time; the validator never reads process state.
type ValidatorConfig struct {
	// IncludeDebugDetail appends the rejected raw value to each field
	// message. Intended for development environments only.
	IncludeDebugDetail bool
}

// Validator applies the submission validation and normalization rules.
// It is stateless and safe for concurrent use.
type Validator struct {
	cfg ValidatorConfig
}

// NewValidator builds a validator with the provided configuration.
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks an untyped record against the submission rules and returns
// either a normalized submission or the complete set of field errors. Every
// field is checked independently; errors never short-circuit sibling fields.
func (v *Validator) Validate(raw any) (ValidationResult, error) {
	record, ok := raw.(map[string]any)
	if !ok || record == nil {
		return ValidationResult{}, ErrMalformedRequest
	}

	fieldErrs := FieldErrors{}
	var sub Submission

	sub.Name = v.requireText(record, "name", nameMinLen, nameMaxLen, fieldErrs)
	sub.Description = v.requireText(record, "description", descriptionMinLen, descriptionMaxLen, fieldErrs)
	sub.Email = v.requireEmail(record, fieldErrs)
	sub.Phone = v.optionalPhone(record, fieldErrs)
	sub.Website = v.optionalWebsite(record, fieldErrs)
	sub.OpeningTime = v.optionalTime(record, "openingTime", fieldErrs)
	sub.ClosingTime = v.optionalTime(record, "closingTime", fieldErrs)

	if len(fieldErrs) > 0 {
		return ValidationResult{}, &ValidationError{Fields: fieldErrs}
	}

	result := ValidationResult{Submission: sub}
	if warn := hoursWarning(sub.OpeningTime, sub.ClosingTime); warn != "" {
		result.Warning = warn
	}
	return result, nil
}

func (v *Validator) requireText(record map[string]any, field string, min, max int, fieldErrs FieldErrors) string {
	value, present := stringField(record, field)
	if !present {
		raw, exists := record[field]
		if exists && raw != nil {
			fieldErrs[field] = v.message(field+" must be text", raw)
		} else {
			fieldErrs[field] = field + " is required"
		}
		return ""
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		fieldErrs[field] = field + " is required"
		return ""
	}
	if len([]rune(trimmed)) < min || len([]rune(trimmed)) > max {
		fieldErrs[field] = v.message(fmt.Sprintf("%s must be between %d and %d characters", field, min, max), value)
		return ""
	}
	return trimmed
}

func (v *Validator) requireEmail(record map[string]any, fieldErrs FieldErrors) string {
	value, present := stringField(record, "email")
	if !present {
		raw, exists := record["email"]
		if exists && raw != nil {
			fieldErrs["email"] = v.message("email must be text", raw)
		} else {
			fieldErrs["email"] = "email is required"
		}
		return ""
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		fieldErrs["email"] = "email is required"
		return ""
	}
	if !emailPattern.MatchString(trimmed) {
		fieldErrs["email"] = v.message("email must be a valid email address", value)
		return ""
	}
	// Case is preserved for business contact emails.
	return trimmed
}

func (v *Validator) optionalPhone(record map[string]any, fieldErrs FieldErrors) string {
	value, present, bad := optionalStringField(record, "phone")
	if bad {
		fieldErrs["phone"] = v.message("phone must be text", record["phone"])
		return ""
	}
	if !present {
		return ""
	}

	cleaned := cleanPhone(value)
	if !ukPhonePattern.MatchString(cleaned) {
		fieldErrs["phone"] = v.message("phone must be a valid UK phone number", value)
		return ""
	}
	return canonicalUKPhone(cleaned)
}

func (v *Validator) optionalWebsite(record map[string]any, fieldErrs FieldErrors) string {
	value, present, bad := optionalStringField(record, "website")
	if bad {
		fieldErrs["website"] = v.message("website must be text", record["website"])
		return ""
	}
	if !present {
		return ""
	}

	domain, ok := normalizeDomain(value)
	if !ok {
		fieldErrs["website"] = v.message("website must be a valid domain or URL", value)
		return ""
	}
	return domain
}

func (v *Validator) optionalTime(record map[string]any, field string, fieldErrs FieldErrors) string {
	value, present, bad := optionalStringField(record, field)
	if bad {
		fieldErrs[field] = v.message(field+" must be text", record[field])
		return ""
	}
	if !present {
		return ""
	}

	trimmed := strings.TrimSpace(value)
	if !timePattern.MatchString(trimmed) {
		fieldErrs[field] = v.message(field+" must be a valid 24-hour time (HH:MM)", value)
		return ""
	}
	return trimmed
}

func (v *Validator) message(base string, raw any) string {
	if v.cfg.IncludeDebugDetail {
		return fmt.Sprintf("%s (got %v)", base, raw)
	}
	return base
}

// stringField returns the field value when it is present and a string.
func stringField(record map[string]any, field string) (string, bool) {
	raw, exists := record[field]
	if !exists || raw == nil {
		return "", false
	}
	value, ok := raw.(string)
	if !ok {
		return "", false
	}
	return value, true
}

// optionalStringField distinguishes absent/empty values from wrong-typed ones.
func optionalStringField(record map[string]any, field string) (value string, present bool, badType bool) {
	raw, exists := record[field]
	if !exists || raw == nil {
		return "", false, false
	}
	str, ok := raw.(string)
	if !ok {
		return "", false, true
	}
	if strings.TrimSpace(str) == "" {
		return "", false, false
	}
	return str, true, false
}

// cleanPhone strips everything except digits and a leading plus sign.
func cleanPhone(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalUKPhone maps a cleaned UK number to the +44XXXXXXXXXX form.
// Numbers that match no recognisable UK pattern pass through cleaned.
func canonicalUKPhone(cleaned string) string {
	switch {
	case strings.HasPrefix(cleaned, "+44"):
		return cleaned
	case strings.HasPrefix(cleaned, "44"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "+44" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7") && len(cleaned) == 10:
		return "+44" + cleaned
	}
	return cleaned
}

// normalizeDomain reduces a bare domain or URL to its canonical stored form:
// scheme and leading www. stripped, lowercased, converted to ASCII (punycode).
func normalizeDomain(raw string) (string, bool) {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	candidate = strings.TrimPrefix(candidate, "http://")
	candidate = strings.TrimPrefix(candidate, "https://")
	candidate = strings.TrimPrefix(candidate, "www.")
	if idx := strings.IndexAny(candidate, "/?#"); idx >= 0 {
		candidate = candidate[:idx]
	}
	if candidate == "" {
		return "", false
	}

	ascii, err := idnaProfile.ToASCII(candidate)
	if err != nil || ascii == "" {
		return "", false
	}
	if len(ascii) < domainMinLen || len(ascii) > domainMaxLen {
		return "", false
	}
	if !domainPattern.MatchString(ascii) {
		return "", false
	}
	return ascii, true
}

// hoursWarning flags an opening time at or after the closing time. Overnight
// schedules are plausible, so this is a warning rather than a hard error.
func hoursWarning(opening, closing string) string {
	if opening == "" || closing == "" {
		return ""
	}
	if timeToMinutes(opening) >= timeToMinutes(closing) {
		return "closingTime is not after openingTime; stored as an overnight or nonstandard schedule"
	}
	return ""
}

// timeToMinutes assumes the value already matched timePattern.
func timeToMinutes(value string) int {
	parts := strings.SplitN(value, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}
