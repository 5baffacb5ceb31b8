package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 255

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name is too long (max 255 characters)")
	ErrNameSlash    = errors.New("folder name must not contain '/'")
)

// ValidateName trims name and checks it is usable as a display name
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", ErrNameRequired
	}

	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", ErrNameTooLong
	}

	return trimmed, nil
}

// ValidateFolderName is ValidateName plus the path separator rule
func ValidateFolderName(name string) (string, error) {
	trimmed, err := ValidateName(name)
	if err != nil {
		return "", err
	}

	if strings.Contains(trimmed, "/") {
		return "", ErrNameSlash
	}

	return trimmed, nil
}
