package service

import "strings"

// Slug derives a URL-safe identifier from a business name: lowercased, with
// runs of non-alphanumeric characters collapsed to single hyphens. Hyphens
// are kept as separators, so "Joe's Cafe" becomes "joe-s-cafe".
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
