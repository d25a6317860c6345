// Package service implements the booking transaction manager: every
// booking mutation and its matching seat inventory adjustment run as a
// single database transaction.
package service

import "errors"

// ErrValidation is returned for requests whose shape or range is
// invalid (non-positive ticket counts, unknown status labels).
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrPermission is returned when a non-admin attempts an admin-only
// mutation. Handlers should translate this into an HTTP 403 response.
var ErrPermission = errors.New("admin privileges required")
