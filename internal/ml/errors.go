package ml

import "errors"

var (
	// ErrInsufficientData means the training snapshot was empty after cleaning.
	// No bundle is produced and any previous bundle stays in place.
	ErrInsufficientData = errors.New("insufficient data to train price model")

	// ErrBundleMissing means no bundle has ever been trained or persisted.
	ErrBundleMissing = errors.New("model bundle not found")

	// ErrInvalidBundle means a persisted bundle failed validation on load.
	ErrInvalidBundle = errors.New("invalid model bundle")
)
