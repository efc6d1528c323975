package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionID creates a human-readable id for one engine run.
// Format: {mode}-{seed or "live"}-{8charHexUUID}
//
// Example:
//   - Input: mode="simulate", label="seed42"
//   - Output: "simulate-seed42-a3f8e2b1"
func GenerateSessionID(mode, label string) string {
	label = sanitizeLabel(label)
	if label == "" {
		label = "live"
	}
	return mode + "-" + label + "-" + generateShortUUID()
}

// sanitizeLabel keeps ids shell- and path-friendly: spaces and path
// separators become hyphens
func sanitizeLabel(label string) string {
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-")
	return strings.Trim(replacer.Replace(strings.TrimSpace(label)), "-")
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
