// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios without inspecting error strings. ErrInsufficientSeats in
// particular is produced by the guarded inventory updates when an
// adjustment would take available_seats outside its valid range.
package repository

import "errors"

// ErrEventNotFound indicates that no event row exists for the given id.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound indicates that no booking row exists for the given
// id, or that the row exists but does not belong to the requesting
// user. The two cases are deliberately indistinguishable so that
// non-owners cannot probe for booking existence.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates that no user row exists for the given id.
var ErrUserNotFound = errors.New("user not found")

// ErrInsufficientSeats is returned when a seat reservation or an
// inventory release cannot be applied without violating
// 0 <= available_seats <= total_seats. Handlers should translate this
// into an HTTP 400 response.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrEmailExists is returned when registering or updating a profile
// with an email address that another account already uses.
var ErrEmailExists = errors.New("email already exists")
