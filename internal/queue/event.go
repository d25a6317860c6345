// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer that move them.
package queue

// BookingCreatedEvent is published when a booking is successfully
// created.  It contains enough information for downstream consumers to
// log or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	EventID         uint64 `json:"event_id"`
	EventTitle      string `json:"event_title"`
	TicketsCount    uint32 `json:"tickets_count"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	CreatedAt       string `json:"created_at"`
}

// TicketEmailEvent is published when a user requests their ticket by
// email.  Actual delivery is out of scope; the consumer records the
// outgoing message to a log file instead of handing it to an SMTP
// relay.
type TicketEmailEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	EventTitle   string `json:"event_title"`
	EventDate    string `json:"event_date"`
	TicketsCount uint32 `json:"tickets_count"`
	RequestedAt  string `json:"requested_at"`
}
