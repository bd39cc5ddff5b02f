// Package queue defines the message payloads exchanged over the
// broker, the publisher used after successful mutations and the
// background consumer that records confirmed bookings.
package queue

// BookingConfirmedEvent is published after a reservation is created
// or its dates are changed.  It carries enough for downstream
// consumers to log or notify without querying the database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	ClientEmail string `json:"client_email"`
	RoomName    string `json:"room_name"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a reservation is deleted
// by its owner.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	ClientEmail string `json:"client_email"`
	CancelledAt string `json:"cancelled_at"`
}
