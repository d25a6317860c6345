package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the idempotent DDL applied at startup.  available_seats
// is adjusted exclusively through guarded UPDATEs in the repository
// layer; the unsigned column type additionally rejects any write that
// would take it below zero.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('client','admin') NOT NULL DEFAULT 'client',
		is_active     TINYINT(1) NOT NULL DEFAULT 1,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS events (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title           VARCHAR(255) NOT NULL,
		description     TEXT,
		starts_at       DATETIME NOT NULL,
		location        VARCHAR(255) NOT NULL,
		total_seats     INT UNSIGNED NOT NULL,
		available_seats INT UNSIGNED NOT NULL,
		price_cents     INT UNSIGNED NOT NULL,
		image_url       VARCHAR(512),
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id           BIGINT UNSIGNED NOT NULL,
		event_id          BIGINT UNSIGNED NOT NULL,
		tickets_count     INT UNSIGNED NOT NULL,
		total_price_cents INT UNSIGNED NOT NULL,
		status            ENUM('pending','confirmed','cancelled','completed') NOT NULL DEFAULT 'confirmed',
		ticket_sent       TINYINT(1) NOT NULL DEFAULT 0,
		booking_date      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_bookings_user  FOREIGN KEY (user_id)  REFERENCES users (id),
		CONSTRAINT fk_bookings_event FOREIGN KEY (event_id) REFERENCES events (id),
		INDEX idx_bookings_user (user_id),
		INDEX idx_bookings_event (event_id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id),
		INDEX idx_refresh_tokens_hash (token_hash)
	) ENGINE=InnoDB`,
}

// Migrate applies the schema statements in order.  All statements are
// CREATE TABLE IF NOT EXISTS, so running it on every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
