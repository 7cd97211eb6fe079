package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrMalformedToken   = fmt.Errorf("malformed token")

	// API and transport errors
	ErrAPIRequest  = fmt.Errorf("API request failed")
	ErrUnreachable = fmt.Errorf("cannot reach server")
	ErrNotFound    = fmt.Errorf("not found")

	// Storage errors
	ErrKeyNotFound = fmt.Errorf("key not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrAlreadyReviewed = fmt.Errorf("you have already reviewed this book")
	ErrCancelled       = fmt.Errorf("cancelled")
)
