package history

import "errors"

// Domain-specific errors for transition history.
var (
	ErrDeviceIDRequired = errors.New("history: device id is required")
	ErrInvalidRetention = errors.New("history: retention must be positive")
	ErrTimestamp        = errors.New("history: invalid stored timestamp")
)
