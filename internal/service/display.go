package service

import "github.com/nyaruka/phonenumbers"

const ukRegion = "GB"

// DisplayPhone renders a stored +44XXXXXXXXXX number in the national form
// shown to administrators (e.g. "07123 456789"). Presentation only; the
// stored value is never changed. Unparseable values pass through as stored.
func DisplayPhone(stored string) string {
	if stored == "" {
		return ""
	}
	number, err := phonenumbers.Parse(stored, ukRegion)
	if err != nil {
		return stored
	}
	return phonenumbers.Format(number, phonenumbers.NATIONAL)
}

// DisplayWebsite reconstructs a clickable URL from the stored bare domain.
func DisplayWebsite(stored string) string {
	if stored == "" {
		return ""
	}
	return "https://" + stored
}
