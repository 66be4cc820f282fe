// Package common defines shared constants and sentinel errors used across
// Hearth components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors raised by store actions before any state mutation.
	ErrValidation    = errors.New("validation error")
	ErrEmptyName     = errors.New("name must not be empty")
	ErrEmptyReason   = errors.New("reason must not be empty")
	ErrInvalidAmount = errors.New("amount must be positive")

	// Ledger errors.
	ErrTabInitialized    = errors.New("running tab already initialized")
	ErrTabNotInitialized = errors.New("running tab not initialized")

	// Auth errors.
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrNotMaster        = errors.New("owner is not a master profile")
	ErrPermissionDenied = errors.New("permission denied")
)
