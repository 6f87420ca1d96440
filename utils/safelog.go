// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal data in production
// ============================================================================
// Contacts are free-form "name - phone" tokens and briefs are typed by users,
// so neither goes to the logs verbatim once GIN_MODE=release.
// ============================================================================

package utils

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

// IsProduction enables masking.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production" ||
	os.Getenv("ENV") == "production"

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// At least 7 digits, optionally prefixed with a country code and split by
	// spaces, dots, dashes or brackets.
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s().-]{5,}\d`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING
// ============================================================================

// MaskString hides emails and phone numbers and shortens UUIDs.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})
	result = phoneRegex.ReplaceAllString(result, "***")
	return result
}

// MaskID keeps the first 8 characters of an id.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// MaskContact keeps the name part of a "name - phone" contact.
func MaskContact(contact string) string {
	if !IsProduction {
		return contact
	}
	name, _, found := strings.Cut(contact, " - ")
	if found {
		return strings.TrimSpace(name) + " - ***"
	}
	return MaskString(contact)
}

// MaskContacts applies MaskContact to every element.
func MaskContacts(contacts []string) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = MaskContact(c)
	}
	return out
}

// ============================================================================
// DOMAIN LOGGING
// ============================================================================

// LogExpenseAction logs a ledger action without exposing user data.
func LogExpenseAction(action, userID, expenseID string, attrs ...any) {
	args := append([]any{"user_id", MaskID(userID), "expense_id", expenseID}, attrs...)
	slog.Info("[Ledger] "+action, args...)
}

// GetEnvMode returns "production" or "development".
func GetEnvMode() string {
	if IsProduction {
		return "production"
	}
	return "development"
}

// LogStartup logs the startup banner.
func LogStartup(appName, version, port string) {
	slog.Info(appName+" starting",
		"version", version,
		"mode", GetEnvMode(),
		"port", port,
		"log_level", LevelFromEnv().String(),
	)
	if IsProduction {
		slog.Info("Production mode: sensitive data will be masked in logs")
	}
}
