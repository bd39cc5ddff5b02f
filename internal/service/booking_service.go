// Package service orchestrates booking operations: it assembles the
// rule set for each operation, runs the rule engine, delegates the
// mutation to the repository and shapes the response.  Errors from
// rules and the repository pass through untouched; the handlers own
// the mapping to HTTP statuses.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/availability"
	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/rules"
)

// BookingRepository is the persistence contract the service depends
// on.  The MySQL repository and the in-memory repository both
// satisfy it.
type BookingRepository interface {
	AddBooking(ctx context.Context, b *model.Booking) (*model.Booking, error)
	ModifyBooking(ctx context.Context, b *model.Booking) (*model.Booking, error)
	DeleteBooking(ctx context.Context, clientEmail string, bookingID uint64) (int64, error)
	CheckAvailability(ctx context.Context, checkIn, checkOut time.Time, excludeBookingID *uint64) (bool, error)
	GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)
	GetBookingReservedDates(ctx context.Context, roomID uint64) ([]time.Time, *model.Room, error)
	GetUserBookings(ctx context.Context, clientEmail string) ([]model.Booking, error)
}

// BookingRequest carries the fields needed to place a reservation.
type BookingRequest struct {
	ClientEmail string    `json:"client_email"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

// BookingModify carries the fields needed to move an existing
// reservation to new dates.
type BookingModify struct {
	BookingID   uint64    `json:"booking_id"`
	ClientEmail string    `json:"client_email"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

// BookingCancel identifies the reservation to delete and the caller
// claiming to own it.
type BookingCancel struct {
	BookingID   uint64 `json:"booking_id"`
	ClientEmail string `json:"client_email"`
}

// RoomResponse is the room summary embedded in booking responses.
type RoomResponse struct {
	RoomID      uint64  `json:"room_id"`
	RoomName    string  `json:"room_name"`
	Capacity    uint32  `json:"capacity"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// BookingResponse is the boundary shape for a persisted booking.
type BookingResponse struct {
	BookingID   uint64         `json:"booking_id"`
	ClientEmail string         `json:"client_email"`
	CheckIn     time.Time      `json:"check_in"`
	CheckOut    time.Time      `json:"check_out"`
	Rooms       []RoomResponse `json:"rooms"`
}

// RoomAvailability pairs the room summary with the ascending list
// of free dates inside the booking horizon.
type RoomAvailability struct {
	RoomID         uint64      `json:"room_id"`
	RoomName       string      `json:"room_name"`
	Description    string      `json:"description"`
	Capacity       uint32      `json:"capacity"`
	Price          float64     `json:"price"`
	AvailableDates []time.Time `json:"available_dates"`
}

// BookingService implements the four booking operations plus the
// per-user listing.  Each mutation builds its own rule engine so
// the rule order is explicit at the call site.
type BookingService struct {
	repo BookingRepository
	now  rules.Clock
}

// NewBookingService wires the service to its repository and clock.
// Production passes time.Now; tests pin the clock.
func NewBookingService(repo BookingRepository, now rules.Clock) *BookingService {
	return &BookingService{repo: repo, now: now}
}

// RequestBooking places a new reservation.  All five rules run, in
// order: date ordering and same-day first, then the length and
// advance-window caps, and the repository-backed availability check
// last so it only fires on otherwise sane input.
func (s *BookingService) RequestBooking(ctx context.Context, req BookingRequest) (*BookingResponse, error) {
	engine := rules.NewEngine(
		rules.DatesOrdered(),
		rules.NoSameDayBooking(s.now),
		rules.MaxStayLength(),
		rules.MaxAdvanceWindow(s.now),
		rules.DatesAvailable(s.repo),
	)
	cand := rules.Candidate{CheckIn: req.From, CheckOut: req.To}
	if err := engine.Process(ctx, cand); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ClientEmail: req.ClientEmail,
		CheckIn:     req.From,
		CheckOut:    req.To,
	}
	created, err := s.repo.AddBooking(ctx, booking)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(created), nil
}

// ModifyBooking moves an existing reservation to new dates.  The
// rule set matches RequestBooking except that the availability
// check excludes the booking's own record, so shifting within (or
// onto) its current range passes.
func (s *BookingService) ModifyBooking(ctx context.Context, req BookingModify) (*BookingResponse, error) {
	engine := rules.NewEngine(
		rules.DatesOrdered(),
		rules.NoSameDayBooking(s.now),
		rules.MaxStayLength(),
		rules.MaxAdvanceWindow(s.now),
		rules.DatesAvailable(s.repo),
	)
	cand := rules.Candidate{CheckIn: req.From, CheckOut: req.To, BookingID: &req.BookingID}
	if err := engine.Process(ctx, cand); err != nil {
		return nil, err
	}

	updated, err := s.repo.ModifyBooking(ctx, &model.Booking{
		ID:          req.BookingID,
		ClientEmail: req.ClientEmail,
		CheckIn:     req.From,
		CheckOut:    req.To,
	})
	if err != nil {
		return nil, err
	}
	return toBookingResponse(updated), nil
}

// CancelBooking deletes a reservation on behalf of its owner.  Only
// the ownership rule runs; the dates of a cancelled stay need no
// validation.
func (s *BookingService) CancelBooking(ctx context.Context, req BookingCancel) (bool, error) {
	engine := rules.NewEngine(rules.OwnedBy(s.repo))
	cand := rules.Candidate{BookingID: &req.BookingID, Email: req.ClientEmail}
	if err := engine.Process(ctx, cand); err != nil {
		return false, err
	}
	if _, err := s.repo.DeleteBooking(ctx, req.ClientEmail, req.BookingID); err != nil {
		return false, err
	}
	return true, nil
}

// GetAvailableDates computes the free days of a room for the next
// 30 calendar days starting tomorrow.  No rules run; this is a
// read-only query.  An empty window is an error, not an empty
// response.
func (s *BookingService) GetAvailableDates(ctx context.Context, roomID uint64) (*RoomAvailability, error) {
	reserved, room, err := s.repo.GetBookingReservedDates(ctx, roomID)
	if err != nil {
		return nil, err
	}
	free := availability.FreeDays(reserved, s.now())
	if len(free) == 0 {
		return nil, model.NewBookingError(model.CodeRoomNotAvailable,
			fmt.Sprintf("the room %d does not have available booking dates", roomID))
	}
	return &RoomAvailability{
		RoomID:         room.ID,
		RoomName:       room.Name,
		Description:    room.Description,
		Capacity:       room.Capacity,
		Price:          room.Price,
		AvailableDates: free,
	}, nil
}

// GetUserBookings lists the caller's current and future bookings.
func (s *BookingService) GetUserBookings(ctx context.Context, clientEmail string) ([]BookingResponse, error) {
	bookings, err := s.repo.GetUserBookings(ctx, clientEmail)
	if err != nil {
		return nil, err
	}
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *toBookingResponse(&bookings[i]))
	}
	return responses, nil
}

func toBookingResponse(b *model.Booking) *BookingResponse {
	rooms := make([]RoomResponse, 0, len(b.Rooms))
	for _, ro := range b.Rooms {
		rooms = append(rooms, RoomResponse{
			RoomID:      ro.ID,
			RoomName:    ro.Name,
			Capacity:    ro.Capacity,
			Price:       ro.Price,
			Description: ro.Description,
		})
	}
	return &BookingResponse{
		BookingID:   b.ID,
		ClientEmail: b.ClientEmail,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		Rooms:       rooms,
	}
}
