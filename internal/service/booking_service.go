package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/dkarpov/event-booking/internal/model"
	"github.com/dkarpov/event-booking/internal/repository"
)

// EventStore is the slice of the event repository the booking service
// needs: a plain read, a row-locked read, and the two guarded inventory
// adjustments.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error)
	ReserveSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error
	ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error
}

// BookingStore is the slice of the booking repository the service
// depends on.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	GetScoped(ctx context.Context, id, requesterID uint64, admin bool) (*model.Booking, error)
	GetScopedTx(ctx context.Context, tx *sql.Tx, id, requesterID uint64, admin bool) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// BookingService coordinates bookings with the seat inventory ledger.
// Each mutation locks the event row first, so two concurrent requests
// against the same event serialize and the availability check and the
// seat adjustment observe the same state.  The guarded UPDATEs in the
// repository re-check the bounds, so 0 <= available_seats <= total_seats
// holds even if a caller bypasses the lock.
type BookingService struct {
	tx       repository.TxRunner
	events   EventStore
	bookings BookingStore
}

// NewBookingService constructs a BookingService.  All dependencies must
// be non-nil.
func NewBookingService(tx repository.TxRunner, events EventStore, bookings BookingStore) *BookingService {
	if tx == nil || events == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{tx: tx, events: events, bookings: bookings}
}

func capacityError(available uint32) error {
	return fmt.Errorf("%w: only %d seats available", repository.ErrInsufficientSeats, available)
}

func validTickets(n int64) (uint32, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: tickets_count must be a positive integer", ErrValidation)
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("%w: tickets_count is out of range", ErrValidation)
	}
	return uint32(n), nil
}

// CreateBooking reserves ticketsCount seats on the event and records
// the booking, both inside one transaction.  The returned booking
// carries the event title and the total price computed from the event's
// current price.
func (s *BookingService) CreateBooking(ctx context.Context, userID, eventID uint64, ticketsCount int64) (*model.Booking, error) {
	tickets, err := validTickets(ticketsCount)
	if err != nil {
		return nil, err
	}
	var booking *model.Booking
	err = s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		ev, err := s.events.GetForUpdateTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if tickets > ev.AvailableSeats {
			return capacityError(ev.AvailableSeats)
		}
		if err := s.events.ReserveSeatsTx(ctx, tx, eventID, tickets); err != nil {
			return err
		}
		booking = &model.Booking{
			UserID:          userID,
			EventID:         eventID,
			TicketsCount:    tickets,
			TotalPriceCents: tickets * ev.PriceCents,
			Status:          model.StatusConfirmed,
			EventTitle:      ev.Title,
		}
		return s.bookings.CreateTx(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking removes a booking and returns its seats to the event,
// both inside one transaction.  Admins may cancel any booking; other
// requesters only their own.  A booking owned by someone else reads as
// not found.
func (s *BookingService) CancelBooking(ctx context.Context, requesterID uint64, requesterRole string, bookingID uint64) (*model.Booking, error) {
	admin := requesterRole == model.RoleAdmin
	var cancelled *model.Booking
	err := s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		b, err := s.bookings.GetScopedTx(ctx, tx, bookingID, requesterID, admin)
		if err != nil {
			return err
		}
		if err := s.events.ReleaseSeatsTx(ctx, tx, b.EventID, b.TicketsCount); err != nil {
			return err
		}
		if err := s.bookings.DeleteTx(ctx, tx, bookingID); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// UpdateBooking resizes a booking and/or moves it to a new status.
// Admin only.  The seat delta is settled against the event inside the
// same transaction: growing the booking reserves the extra seats (and
// fails when fewer are available), shrinking releases them.  The total
// price is recomputed from the event's current price.
func (s *BookingService) UpdateBooking(ctx context.Context, requesterRole string, bookingID uint64, newTicketsCount int64, newStatus string) (*model.Booking, error) {
	if requesterRole != model.RoleAdmin {
		return nil, ErrPermission
	}
	tickets, err := validTickets(newTicketsCount)
	if err != nil {
		return nil, err
	}
	var status model.BookingStatus
	if newStatus != "" {
		status, err = model.ParseBookingStatus(newStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	var updated *model.Booking
	err = s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		b, err := s.bookings.GetScopedTx(ctx, tx, bookingID, 0, true)
		if err != nil {
			return err
		}
		ev, err := s.events.GetForUpdateTx(ctx, tx, b.EventID)
		if err != nil {
			return err
		}
		delta := int64(tickets) - int64(b.TicketsCount)
		if delta > int64(ev.AvailableSeats) {
			return capacityError(ev.AvailableSeats)
		}
		b.TicketsCount = tickets
		b.TotalPriceCents = tickets * ev.PriceCents
		if status != "" {
			b.Status = status
		}
		if err := s.bookings.UpdateTx(ctx, tx, b); err != nil {
			return err
		}
		switch {
		case delta > 0:
			if err := s.events.ReserveSeatsTx(ctx, tx, b.EventID, uint32(delta)); err != nil {
				return err
			}
		case delta < 0:
			if err := s.events.ReleaseSeatsTx(ctx, tx, b.EventID, uint32(-delta)); err != nil {
				return err
			}
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetBooking returns a single booking scoped to the requester.
func (s *BookingService) GetBooking(ctx context.Context, requesterID uint64, requesterRole string, bookingID uint64) (*model.Booking, error) {
	return s.bookings.GetScoped(ctx, bookingID, requesterID, requesterRole == model.RoleAdmin)
}

// ListBookings returns the requester's bookings, or every booking when
// the requester is an admin.
func (s *BookingService) ListBookings(ctx context.Context, requesterID uint64, requesterRole string) ([]model.Booking, error) {
	if requesterRole == model.RoleAdmin {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, requesterID)
}
