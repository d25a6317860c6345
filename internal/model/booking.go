package model

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus is the closed set of lifecycle states a booking can be
// in.  The column is an ENUM in the database, and ParseBookingStatus is
// the single place where free-form input is admitted into the set.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ErrUnknownStatus is returned by ParseBookingStatus for labels outside
// the accepted enumeration.
var ErrUnknownStatus = errors.New("unknown booking status")

// ParseBookingStatus normalizes and validates a status label.  Leading
// and trailing whitespace is stripped and matching is case-insensitive.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", ErrUnknownStatus
}

// Booking records a user's reservation of one or more tickets for an
// event.  TotalPriceCents always equals TicketsCount times the event
// price at the time of the last mutation.  A booking never exists
// without the corresponding seats having been subtracted from its
// event's AvailableSeats; cancellation removes the row and returns the
// seats in the same transaction.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  EventID         – event being booked.
//  TicketsCount    – number of tickets (>= 1).
//  TotalPriceCents – tickets_count × event price at last mutation.
//  Status          – lifecycle state (default confirmed).
//  TicketSent      – whether the ticket email was dispatched.
//  BookingDate     – creation timestamp, immutable.
//  EventTitle      – joined from events for API responses.
type Booking struct {
	ID              uint64        `json:"id"`
	UserID          uint64        `json:"user_id"`
	EventID         uint64        `json:"event_id"`
	TicketsCount    uint32        `json:"tickets_count"`
	TotalPriceCents uint32        `json:"total_price_cents"`
	Status          BookingStatus `json:"status"`
	TicketSent      bool          `json:"ticket_sent"`
	BookingDate     time.Time     `json:"booking_date"`
	EventTitle      string        `json:"event_title,omitempty"`
}
