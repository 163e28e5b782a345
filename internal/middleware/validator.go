package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	userIDPattern   = regexp.MustCompile(`^[^/\\\x00-\x1f\x7f]{1,128}$`)
	resumeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)
)

// ValidateUserID checks the user id used as a history key.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user ID format (no slashes or control characters, max 128 chars)")
	}
	return nil
}

// ValidateResumeID checks an analysis id taken from the URL.
func ValidateResumeID(id string) error {
	if id == "" {
		return fmt.Errorf("resume ID cannot be empty")
	}
	if !resumeIDPattern.MatchString(id) {
		return fmt.Errorf("invalid resume ID format")
	}
	return nil
}

// ValidateName checks the display name sent to /login.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len([]rune(name)) > 64 {
		return fmt.Errorf("name too long (max 64 chars)")
	}
	// the name becomes part of the user id
	return ValidateUserID("user_" + name)
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
