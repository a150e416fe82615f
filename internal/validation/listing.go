package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)

// ValidateRequiredText rejects blank values and values longer than max bytes.
func ValidateRequiredText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return ValidateOptionalText(field, value, max)
}

// ValidateOptionalText rejects values longer than max bytes. max <= 0 disables the check.
func ValidateOptionalText(field, value string, max int) error {
	if max > 0 && len(value) > max {
		return fmt.Errorf("%s too long (max %d characters)", field, max)
	}
	return nil
}

// ValidatePhone accepts digits with optional leading + and inner spaces or hyphens.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number")
	}
	return nil
}

// ValidateImageURL accepts empty values and absolute http(s) URLs.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image_url must be a valid http(s) URL")
	}
	return nil
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}
