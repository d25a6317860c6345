package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dkarpov/event-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Mutating methods
// come in ...Tx variants so the booking service can group them with the
// seat inventory adjustments in a single transaction.  Read methods
// that enrich rows with the event title join against events.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `b.id, b.user_id, b.event_id, b.tickets_count, b.total_price_cents, b.status, b.ticket_sent, b.booking_date, e.title`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.UserID, &b.EventID, &b.TicketsCount, &b.TotalPriceCents,
		&b.Status, &b.TicketSent, &b.BookingDate, &b.EventTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and the booking_date
// default on the provided model.  The caller must commit or roll back
// the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, event_id, tickets_count, total_price_cents, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.EventID, b.TicketsCount, b.TotalPriceCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT booking_date, ticket_sent FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.BookingDate, &b.TicketSent)
}

// GetScoped returns a booking by id, restricted to the requester unless
// admin is true.  A booking owned by someone else yields
// ErrBookingNotFound, indistinguishable from absence.
func (r *BookingRepo) GetScoped(ctx context.Context, id, requesterID uint64, admin bool) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings b JOIN events e ON e.id = b.event_id WHERE b.id = ?`
	args := []any{id}
	if !admin {
		q += ` AND b.user_id = ?`
		args = append(args, requesterID)
	}
	return scanBooking(r.db.QueryRowContext(ctx, q, args...).Scan)
}

// GetScopedTx is GetScoped inside a transaction, with a row lock so the
// booking cannot change under a concurrent cancel or resize.
func (r *BookingRepo) GetScopedTx(ctx context.Context, tx *sql.Tx, id, requesterID uint64, admin bool) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings b JOIN events e ON e.id = b.event_id WHERE b.id = ?`
	args := []any{id}
	if !admin {
		q += ` AND b.user_id = ?`
		args = append(args, requesterID)
	}
	q += ` FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, args...).Scan)
}

// ListByUser returns all bookings made by the given user, newest first.
// When no bookings exist an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings b JOIN events e ON e.id = b.event_id
	           WHERE b.user_id = ?
	           ORDER BY b.booking_date DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every booking in the system, newest first.  Reserved
// for admin callers.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings b JOIN events e ON e.id = b.event_id
	           ORDER BY b.booking_date DESC`
	return r.list(ctx, q)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketsCount, &b.TotalPriceCents,
			&b.Status, &b.TicketSent, &b.BookingDate, &b.EventTitle); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateTx persists new tickets_count, status and total_price_cents for
// a booking within the given transaction.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings SET tickets_count = ?, status = ?, total_price_cents = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, b.TicketsCount, b.Status, b.TotalPriceCents, b.ID)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	return nil
}

// DeleteTx removes a booking row within the given transaction.  The
// delete is hard: cancelled bookings leave no trace beyond the restored
// seat count.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// MarkTicketSent flags a booking's ticket as dispatched.  Scoped to the
// owning user; admins do not send tickets on behalf of clients.  The
// existence check runs first because re-sending an already sent ticket
// affects no rows and must not read as not-found.
func (r *BookingRepo) MarkTicketSent(ctx context.Context, id, userID uint64) error {
	var exists uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE id = ? AND user_id = ?`, id, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE bookings SET ticket_sent = 1 WHERE id = ?`, id)
	return err
}
