package middleware

import (
	"fmt"
	"strings"
	"unicode"
)

// Input validation and sanitization utilities

const maxQueryLen = 300

// ValidateQuery rejects queries the analyzer should never see: over-long
// input and control characters. Emptiness is the analyzer's own guard.
func ValidateQuery(query string) error {
	if len(query) > maxQueryLen {
		return fmt.Errorf("query too long (max %d characters)", maxQueryLen)
	}
	for _, r := range query {
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("query contains control characters")
		}
	}
	return nil
}

// SanitizeQuery collapses whitespace runs so the prompt stays deterministic
// for visually identical inputs.
func SanitizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
