// validate.go provides field validators for content submitted through the admin
// API: URL slugs, geographic coordinates, and date ranges.
package validation

import (
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks that a slug is lowercase alphanumeric with single hyphen
// separators (e.g. "taman-kehati-sentarum").
func ValidateSlug(slug string) error {
	if slug == "" {
		return NewValidationError("slug", slug, "must not be empty")
	}
	if len(slug) > 120 {
		return NewValidationError("slug", slug, "must be at most 120 characters")
	}
	if !slugPattern.MatchString(slug) {
		return NewValidationError("slug", slug, "must contain only lowercase letters, digits, and hyphens")
	}
	return nil
}

// ValidateCoordinates checks that latitude and longitude form a valid WGS84 point.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return NewValidationError("latitude", "", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return NewValidationError("longitude", "", "must be between -180 and 180")
	}
	return nil
}

// ValidateDateRange checks that from does not fall after to. Zero values are
// treated as open bounds and always pass.
func ValidateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return nil
	}
	if from.After(to) {
		return NewValidationError("date_from", from.Format("2006-01-02"), "must not be after date_to")
	}
	return nil
}
