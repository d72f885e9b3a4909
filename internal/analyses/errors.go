package analyses

import "errors"

var (
	// ErrNotFound signals a missing analysis.
	ErrNotFound = errors.New("analysis not found")
	// ErrMissingAPIKey signals a request without a provider credential.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrUnsupportedMIME signals an image format outside the allow-list.
	ErrUnsupportedMIME = errors.New("unsupported image type")
	// ErrImageTooLarge signals a payload above the size ceiling.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	// ErrEmptyImage signals a request with no image data.
	ErrEmptyImage = errors.New("image data is required")
	// ErrAnalysisInFlight signals a duplicate submission while one is running.
	ErrAnalysisInFlight = errors.New("an analysis is already in progress")
)
