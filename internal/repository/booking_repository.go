package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/availability"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their room
// links over MySQL.  Dates are stored in DATE columns, so scanned
// values come back as UTC midnights; every comparison in queries is
// date-only.  Writes run in a transaction; the availability check
// and the subsequent insert are separate steps (see
// CheckAvailability).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to open
// their own transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// AddBooking inserts a booking, links it to the seeded room and
// returns the persisted record with its room loaded.  The room link
// always points at the first room on file; the hotel has exactly
// one.
func (r *BookingRepo) AddBooking(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var roomID uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rooms ORDER BY id LIMIT 1`).Scan(&roomID); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewBookingError(model.CodeNotFound, "no room has been seeded")
		}
		return nil, err
	}

	const ins = `INSERT INTO bookings (client_email, check_in, check_out) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, b.ClientEmail, day(b.CheckIn), day(b.CheckOut))
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	const link = `INSERT INTO booking_rooms (booking_id, room_id) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, link, uint64(id), roomID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetBooking(ctx, uint64(id))
}

// ModifyBooking updates the check-in and check-out of an existing
// booking and returns the updated record.  Only the dates change;
// ownership and room links stay as created.
func (r *BookingRepo) ModifyBooking(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	const q = `UPDATE bookings SET check_in = ?, check_out = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, day(b.CheckIn), day(b.CheckOut), b.ID)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Zero rows can also mean an update to identical dates; tell
		// the two cases apart before reporting NotFound.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, b.ID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.NewBookingError(model.CodeNotFound,
				fmt.Sprintf("the booking %d does not exist", b.ID))
		}
	}
	return r.GetBooking(ctx, b.ID)
}

// DeleteBooking removes a booking owned by clientEmail and returns
// the number of bookings removed.  The ownership comparison is
// repeated here even though the OwnedBy rule runs first, so a
// caller reaching the repo directly gets the same guard.  Room
// links go with the booking via ON DELETE CASCADE.
func (r *BookingRepo) DeleteBooking(ctx context.Context, clientEmail string, bookingID uint64) (int64, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT client_email FROM bookings WHERE id = ?`, bookingID).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, model.NewBookingError(model.CodeNotFound,
				fmt.Sprintf("the booking with id %d does not exist", bookingID))
		}
		return 0, err
	}
	if owner != clientEmail {
		return 0, model.NewBookingError(model.CodeUnauthorized,
			fmt.Sprintf("the end-user %s can't delete this booking", clientEmail))
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CheckAvailability reports whether the room is free for the whole
// closed interval [checkIn, checkOut].  Ranges overlap when an
// existing booking satisfies check_out >= checkIn AND check_in <=
// checkOut; end dates count.  excludeBookingID skips one booking's
// own record so a modify can keep its current dates.
//
// The caller writes only after this read returns true; concurrent
// requests can race between the two steps.  The storage layer keeps
// no unique constraint that would close that window.
func (r *BookingRepo) CheckAvailability(ctx context.Context, checkIn, checkOut time.Time, excludeBookingID *uint64) (bool, error) {
	var (
		taken bool
		err   error
	)
	if excludeBookingID == nil {
		const q = `SELECT EXISTS(
		               SELECT 1 FROM bookings
		               WHERE check_out >= ? AND check_in <= ?)`
		err = r.db.QueryRowContext(ctx, q, day(checkIn), day(checkOut)).Scan(&taken)
	} else {
		const q = `SELECT EXISTS(
		               SELECT 1 FROM bookings
		               WHERE id <> ? AND check_out >= ? AND check_in <= ?)`
		err = r.db.QueryRowContext(ctx, q, *excludeBookingID, day(checkIn), day(checkOut)).Scan(&taken)
	}
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// GetBooking loads one booking with its rooms.
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT id, client_email, check_in, check_out FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&b.ID, &b.ClientEmail, &b.CheckIn, &b.CheckOut)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewBookingError(model.CodeNotFound,
				fmt.Sprintf("the booking with id %d does not exist", bookingID))
		}
		return nil, err
	}
	rooms, err := r.roomsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Rooms = rooms
	return &b, nil
}

// GetBookingReservedDates returns every calendar day covered by a
// future booking of the room, along with the room itself.  Only
// bookings starting strictly after today contribute; each one
// covers check-in through check-out inclusive.
func (r *BookingRepo) GetBookingReservedDates(ctx context.Context, roomID uint64) ([]time.Time, *model.Room, error) {
	const roomQ = `SELECT id, name, capacity, price, description FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, roomQ, roomID).Scan(
		&room.ID, &room.Name, &room.Capacity, &room.Price, &room.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, model.NewBookingError(model.CodeNotFound,
				fmt.Sprintf("the room %d does not exist", roomID))
		}
		return nil, nil, err
	}

	const q = `SELECT b.check_in, b.check_out
	           FROM bookings b
	           JOIN booking_rooms br ON br.booking_id = b.id
	           WHERE br.room_id = ? AND b.check_in > CURDATE()`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var reserved []time.Time
	for rows.Next() {
		var in, out time.Time
		if err := rows.Scan(&in, &out); err != nil {
			return nil, nil, err
		}
		reserved = append(reserved, availability.CoveredDays(in, out)...)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return reserved, &room, nil
}

// GetUserBookings lists the bookings owned by clientEmail whose
// check-in is today or later, earliest check-in first.
func (r *BookingRepo) GetUserBookings(ctx context.Context, clientEmail string) ([]model.Booking, error) {
	const q = `SELECT id, client_email, check_in, check_out
	           FROM bookings
	           WHERE client_email = ? AND check_in >= CURDATE()
	           ORDER BY check_in`
	rows, err := r.db.QueryContext(ctx, q, clientEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ClientEmail, &b.CheckIn, &b.CheckOut); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range bookings {
		rooms, err := r.roomsForBooking(ctx, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Rooms = rooms
	}
	return bookings, nil
}

// roomsForBooking loads the rooms linked to a booking, ordered by id.
func (r *BookingRepo) roomsForBooking(ctx context.Context, bookingID uint64) ([]model.Room, error) {
	const q = `SELECT ro.id, ro.name, ro.capacity, ro.price, ro.description
	           FROM booking_rooms br
	           JOIN rooms ro ON ro.id = br.room_id
	           WHERE br.booking_id = ?
	           ORDER BY ro.id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0, 1)
	for rows.Next() {
		var ro model.Room
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.Capacity, &ro.Price, &ro.Description); err != nil {
			return nil, err
		}
		rooms = append(rooms, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

func day(t time.Time) time.Time { return availability.Day(t) }
