package scraper

import (
	"regexp"
	"strings"
)

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// ValidASIN reports whether the candidate is a well-formed identifier: after
// uppercasing, exactly 10 alphanumeric characters. This is the sole gate
// before any network call.
func ValidASIN(asin string) bool {
	if len(asin) != 10 {
		return false
	}
	return asinPattern.MatchString(strings.ToUpper(asin))
}

// NormalizeASIN uppercases a candidate identifier for URL building and
// record keeping.
func NormalizeASIN(asin string) string {
	return strings.ToUpper(asin)
}
