package detection

import "errors"

// Sentinel errors for detector setup.
var (
	// ErrModelMissing is returned when the model file is absent or unreadable.
	ErrModelMissing = errors.New("detection: model missing")

	// ErrModelFetchFailed is returned when downloading the model fails.
	ErrModelFetchFailed = errors.New("detection: model fetch failed")
)
