package model

import "errors"

// Common errors used across the application
var (
	// ErrPlayerNotFound signals a query for an unknown or expired player
	ErrPlayerNotFound = errors.New("player not found")
)
