package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload limits (in bytes)
const (
	// MaxCanvasSize bounds an uncompressed canvas data URL
	MaxCanvasSize = 8 * 1024 * 1024
)

// String length limits
const (
	MaxSecretLength   = 256
	MaxSequenceName   = 64
	MaxNoteLength     = 8
	MaxLastNotes      = 64
	MaxSequenceCount  = 50
	MaxSequenceLength = 256
)

var (
	// NotePattern matches kalimba note names such as C4 or F#5
	NotePattern = regexp.MustCompile(`^[A-G](#|b)?[0-9]$`)
	// DataURLPattern matches the header of a base64 image data URL
	DataURLPattern = regexp.MustCompile(`^data:image/[a-z0-9.+-]+;base64,`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateCanvas checks a canvas snapshot before it is queued
func ValidateCanvas(dataURL string) error {
	if len(dataURL) > MaxCanvasSize {
		return fmt.Errorf("canvas size %d bytes exceeds maximum %d bytes", len(dataURL), MaxCanvasSize)
	}
	if !DataURLPattern.MatchString(dataURL) {
		return fmt.Errorf("canvas must be a base64 image data URL")
	}
	return nil
}

// ValidateNotes checks a list of kalimba note names
func ValidateNotes(notes []string, fieldName string, maxCount int) error {
	if len(notes) > maxCount {
		return fmt.Errorf("%s must not exceed %d notes", fieldName, maxCount)
	}
	for i, n := range notes {
		if !NotePattern.MatchString(n) {
			return fmt.Errorf("%s[%d] is not a note: %q", fieldName, i, n)
		}
	}
	return nil
}
