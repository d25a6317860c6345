// Package repository contains data access logic for the event catalog
// and the seat inventory ledger. The ledger is the available_seats
// column on the events table: every adjustment goes through a guarded
// UPDATE so the counter can never leave 0..total_seats, and the
// row-lock variants let the booking service pin an event row for the
// duration of a booking transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dkarpov/event-booking/internal/model"
)

// EventRepo manages persistence for events and their seat inventory.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, title, description, starts_at, location, total_seats, available_seats, price_cents, image_url, created_at, updated_at`

func scanEvent(row *sql.Row) (*model.Event, error) {
	var (
		e        model.Event
		desc     sql.NullString
		imageURL sql.NullString
	)
	err := row.Scan(&e.ID, &e.Title, &desc, &e.StartsAt, &e.Location,
		&e.TotalSeats, &e.AvailableSeats, &e.PriceCents, &imageURL,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	e.Description = desc.String
	if imageURL.Valid {
		u := imageURL.String
		e.ImageURL = &u
	}
	return &e, nil
}

// Create inserts a new event.  available_seats starts equal to
// total_seats; it is only moved afterwards by booking operations or an
// explicit admin edit.  The generated ID and timestamp defaults are
// populated on the given model.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (title, description, starts_at, location, total_seats, available_seats, price_cents, image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.StartsAt, e.Location,
		e.TotalSeats, e.TotalSeats, e.PriceCents, e.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	got, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound
// when there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

// GetForUpdateTx retrieves an event inside the given transaction and
// takes a row lock on it.  Concurrent booking transactions against the
// same event serialize on this lock, which closes the window between
// the availability check and the seat decrement.
func (r *EventRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
	return scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ? FOR UPDATE`, id))
}

// List returns all events ordered by start time ascending.  When no
// events exist it returns an empty slice and nil error.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY starts_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var (
			e        model.Event
			desc     sql.NullString
			imageURL sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Title, &desc, &e.StartsAt, &e.Location,
			&e.TotalSeats, &e.AvailableSeats, &e.PriceCents, &imageURL,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Description = desc.String
		if imageURL.Valid {
			u := imageURL.String
			e.ImageURL = &u
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Update overwrites the mutable fields of an event.  available_seats
// is never taken from the caller: the statement derives it from the
// row's own booked count (total_seats - available_seats), so a
// concurrent booking committed between the admin's read and this write
// cannot be clobbered.  MySQL evaluates SET clauses left to right, so
// the new counter is computed from the old columns before total_seats
// is reassigned.  The guard rejects shrinking capacity below the booked
// count; zero rows affected means either that or a missing row.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events
	           SET title = ?, description = ?, starts_at = ?, location = ?,
	               available_seats = ? - (total_seats - available_seats),
	               total_seats = ?, price_cents = ?, image_url = ?
	           WHERE id = ? AND total_seats - available_seats <= ?`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.StartsAt, e.Location,
		e.TotalSeats, e.TotalSeats, e.PriceCents, e.ImageURL,
		e.ID, e.TotalSeats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing or the seat relation failed.
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
		return ErrInsufficientSeats
	}
	got, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

// Delete removes an event row.  Existing bookings keep their foreign
// key, so deletion fails with a constraint error while bookings remain;
// callers surface that as a conflict.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ReserveSeatsTx subtracts count from available_seats within the given
// transaction.  The guard in the WHERE clause makes the check and the
// write a single atomic statement: when fewer than count seats remain
// no row is touched and ErrInsufficientSeats is returned.
func (r *EventRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error {
	const q = `UPDATE events SET available_seats = available_seats - ?
	           WHERE id = ? AND available_seats >= ?`
	res, err := tx.ExecContext(ctx, q, count, eventID, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientSeats
	}
	return nil
}

// ReleaseSeatsTx returns count seats to available_seats within the
// given transaction, used on cancellation and on admin downsizing.  The
// guard keeps the counter from exceeding total_seats even if a release
// is replayed.
func (r *EventRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error {
	const q = `UPDATE events SET available_seats = available_seats + ?
	           WHERE id = ? AND available_seats + ? <= total_seats`
	res, err := tx.ExecContext(ctx, q, count, eventID, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientSeats
	}
	return nil
}
