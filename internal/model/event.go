package model

import "time"

// Event represents a bookable event as stored in the `events` table.
// TotalSeats is the fixed capacity set at creation; AvailableSeats is
// the mutable remainder and must always satisfy
// 0 <= AvailableSeats <= TotalSeats.  The counter is only ever
// adjusted through booking operations or an explicit admin edit.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – event title.
//  Description    – optional free-form description.
//  StartsAt       – when the event takes place.
//  Location       – venue or address.
//  TotalSeats     – fixed capacity.
//  AvailableSeats – seats still open for booking.
//  PriceCents     – ticket price in cents.
//  ImageURL       – optional promotional image.
//  CreatedAt      – row creation timestamp.
//  UpdatedAt      – last update timestamp.
type Event struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	Location       string    `json:"location"`
	TotalSeats     uint32    `json:"total_seats"`
	AvailableSeats uint32    `json:"available_seats"`
	PriceCents     uint32    `json:"price_cents"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
