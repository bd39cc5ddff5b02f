package database

import (
	"context"
	"database/sql"
)

// schema creates the three tables of the reservation calendar.
// booking_rooms cascades with its booking; bookings carry no
// uniqueness constraint on dates, so availability is enforced only
// by the rule pipeline's read before the write.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
	    id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	    name        VARCHAR(50)     NOT NULL,
	    capacity    INT UNSIGNED    NOT NULL,
	    price       DECIMAL(19,4)   NOT NULL,
	    description TEXT            NOT NULL,
	    PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
	    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	    client_email VARCHAR(50)     NOT NULL,
	    check_in     DATE            NOT NULL,
	    check_out    DATE            NOT NULL,
	    PRIMARY KEY (id),
	    KEY idx_bookings_client_email (client_email),
	    KEY idx_bookings_check_in (check_in)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_rooms (
	    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	    booking_id BIGINT UNSIGNED NOT NULL,
	    room_id    BIGINT UNSIGNED NOT NULL,
	    PRIMARY KEY (id),
	    KEY idx_booking_rooms_booking_id (booking_id),
	    KEY idx_booking_rooms_room_id (room_id),
	    CONSTRAINT fk_booking_rooms_booking FOREIGN KEY (booking_id)
	        REFERENCES bookings (id) ON DELETE CASCADE,
	    CONSTRAINT fk_booking_rooms_room FOREIGN KEY (room_id)
	        REFERENCES rooms (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema applies the schema statements and seeds the single
// room when the rooms table is empty.  It runs at startup and is
// idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return seedRoom(ctx, db)
}

func seedRoom(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	const ins = `INSERT INTO rooms (name, capacity, price, description) VALUES (?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, ins,
		"The only room available", 1, 100.00,
		"The only room in the very last hotel in Cancun.")
	return err
}
