package domain

import (
	"regexp"
	"strings"
)

var keyNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateKeyName checks that name is non-blank, at most 128 characters and
// made of letters, digits, '_', '.' and '-'.
func ValidateKeyName(name string) error {
	if strings.TrimSpace(name) == "" || !keyNamePattern.MatchString(name) {
		return ErrInvalidKeyName
	}
	return nil
}
