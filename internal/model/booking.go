package model

import "time"

// Booking records a guest's reservation of the room for a date
// range.  Check-in and check-out carry date-only semantics: the
// time-of-day component is ignored by every comparison.  The rooms
// attached to a booking are stored in the booking_rooms table and
// loaded alongside the booking.
//
// Fields:
//  ID          – primary key identifier, assigned on creation.
//  ClientEmail – email of the guest who owns the booking.
//  CheckIn     – first day of the stay.
//  CheckOut    – last day of the stay (inclusive).
//  Rooms       – rooms linked to this booking via booking_rooms.
type Booking struct {
	ID          uint64    // bookings.id
	ClientEmail string    // bookings.client_email
	CheckIn     time.Time // bookings.check_in
	CheckOut    time.Time // bookings.check_out
	Rooms       []Room    // joined through booking_rooms
}

// BookingRoom links a booking to a room.  One row is written when
// a booking is created and removed when the booking is deleted;
// rows are never updated.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – reference to the booking.
//  RoomID    – reference to the room.
type BookingRoom struct {
	ID        uint64 // booking_rooms.id
	BookingID uint64 // booking_rooms.booking_id
	RoomID    uint64 // booking_rooms.room_id
}
