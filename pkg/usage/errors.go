package usage

import "errors"

var (
	// ErrStorageNotAvailable indicates the sink backend is unavailable
	ErrStorageNotAvailable = errors.New("usage storage backend is unavailable")

	// ErrEventValidation indicates event validation failed
	ErrEventValidation = errors.New("usage event validation failed")

	// ErrRecorderClosed indicates the recorder has been shut down
	ErrRecorderClosed = errors.New("usage recorder is closed")
)
