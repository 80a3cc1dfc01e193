package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

// Reader resolves the region a user registered with.
type Reader interface {
	// GetRegion returns "" with a nil error when the profile exists
	// but has no region recorded.
	GetRegion(ctx context.Context, userID string) (string, error)
}
