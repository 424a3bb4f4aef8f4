package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrSourceUnavailable = fmt.Errorf("catalog source unavailable")
	ErrInvalidCatalog    = fmt.Errorf("invalid catalog document")
	ErrSongNotFound      = fmt.Errorf("song not found")
	ErrTimeout           = fmt.Errorf("operation timed out")

	// Set errors
	ErrSetNotFound = fmt.Errorf("set not found")
	ErrEmptySet    = fmt.Errorf("set is empty")

	// Storage errors
	ErrNotFound           = fmt.Errorf("record not found")
	ErrStorageFailure     = fmt.Errorf("storage operation failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
