package repository

import (
	"context"
	"database/sql"
)

// Stats aggregates the counters shown on the admin dashboard.
type Stats struct {
	TotalUsers    uint64 `json:"total_users"`
	TotalEvents   uint64 `json:"total_events"`
	TotalBookings uint64 `json:"total_bookings"`
	RevenueCents  uint64 `json:"revenue_cents"`
}

// StatsRepo reads aggregate counters across users, events and bookings.
type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Collect gathers all dashboard counters.  Revenue sums the total price
// of every booking currently on record.
func (r *StatsRepo) Collect(ctx context.Context) (Stats, error) {
	var s Stats
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role='client'").Scan(&s.TotalUsers); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events").Scan(&s.TotalEvents); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings").Scan(&s.TotalBookings); err != nil {
		return s, err
	}
	var revenue sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		"SELECT SUM(total_price_cents) FROM bookings").Scan(&revenue); err != nil {
		return s, err
	}
	if revenue.Valid {
		s.RevenueCents = uint64(revenue.Int64)
	}
	return s, nil
}
