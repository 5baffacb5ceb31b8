package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrParentNotFound         = errors.New("parent folder not found")
	ErrFolderNotFound         = errors.New("folder not found")
	ErrDuplicateName          = errors.New("folder name already exists in this location")
	ErrNotEmpty               = errors.New("folder contains subfolders or images")
	ErrInvalidName            = errors.New("invalid name")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrPayloadTooLarge        = errors.New("payload too large")
	ErrUnsupportedPayloadType = errors.New("unsupported payload type")
)

// codes are stable identifiers clients can match on
var codes = []struct {
	err  error
	code string
}{
	{ErrNotFound, "not_found"},
	{ErrParentNotFound, "parent_not_found"},
	{ErrFolderNotFound, "folder_not_found"},
	{ErrDuplicateName, "duplicate_name"},
	{ErrNotEmpty, "not_empty"},
	{ErrInvalidName, "invalid_name"},
	{ErrStorageUnavailable, "storage_unavailable"},
	{ErrPayloadTooLarge, "payload_too_large"},
	{ErrUnsupportedPayloadType, "unsupported_payload_type"},
}

// Code returns the stable code of the first service error err wraps, or "" for unclassified errors
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// unavailable classifies an unexpected store or storage failure
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// withTimeout bounds a single operation's store calls. Zero disables the bound.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
