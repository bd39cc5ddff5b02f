// Package handler contains the HTTP boundary of the reservation
// API.  Handlers bind request bodies, invoke the booking service
// and map the typed error codes onto HTTP statuses.  The mapping is
// per-endpoint: the same code can translate differently depending
// on the operation.
package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

// BookingHandler exposes the reservation endpoints backed by the
// booking service.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must
// be non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// bookingBody is the wire shape for place and modify requests.
// Dates arrive as strings so clients can send either a bare
// calendar day or a full RFC3339 timestamp.
type bookingBody struct {
	ClientEmail string `json:"client_email"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// cancelBody is the wire shape for cancel requests.
type cancelBody struct {
	ClientEmail string `json:"client_email"`
}

// parseDate accepts "2006-01-02" or RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CheckRoomAvailability handles GET /v1/rooms/availability?room_id=N.
// It returns the free dates of the room for the next 30 days.  A
// fully booked room is 204, a missing room 404.
func (h *BookingHandler) CheckRoomAvailability(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	result, err := h.svc.GetAvailableDates(c.Request().Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		switch model.CodeOf(err) {
		case model.CodeRoomNotAvailable:
			status = http.StatusNoContent
		case model.CodeNotFound:
			status = http.StatusNotFound
		}
		log.Printf("checkRoomAvailability: %v", err)
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	log.Printf("checkRoomAvailability: %d available dates for room %d", len(result.AvailableDates), roomID)
	return c.JSON(http.StatusOK, result)
}

// PlaceReservation handles POST /v1/bookings.  A rule violation is
// 400; an occupied range is 404 on this endpoint, 409 on modify.
func (h *BookingHandler) PlaceReservation(c echo.Context) error {
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, err := parseDate(body.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := parseDate(body.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	result, err := h.svc.RequestBooking(c.Request().Context(), service.BookingRequest{
		ClientEmail: body.ClientEmail,
		From:        from,
		To:          to,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch model.CodeOf(err) {
		case model.CodeRoomNotAvailable:
			status = http.StatusNotFound
		case model.CodeBadRequest:
			status = http.StatusBadRequest
		}
		log.Printf("placeReservation: %v", err)
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	log.Printf("placeReservation: new booking %d created", result.BookingID)
	go publishConfirmed(c.Request().Context(), result)
	return c.JSON(http.StatusCreated, result)
}

// ModifyReservation handles PUT /v1/bookings/:id.  It revalidates
// the full rule set; the availability check excludes the booking's
// own record so moving within its current range succeeds.  An
// occupied range is 409 here, not 404.
func (h *BookingHandler) ModifyReservation(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, err := parseDate(body.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := parseDate(body.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	result, err := h.svc.ModifyBooking(c.Request().Context(), service.BookingModify{
		BookingID:   bookingID,
		ClientEmail: body.ClientEmail,
		From:        from,
		To:          to,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch model.CodeOf(err) {
		case model.CodeBadRequest:
			status = http.StatusBadRequest
		case model.CodeUnauthorized:
			status = http.StatusUnauthorized
		case model.CodeRoomNotAvailable:
			status = http.StatusConflict
		case model.CodeNotFound:
			status = http.StatusNotFound
		}
		log.Printf("modifyReservation: %v", err)
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	log.Printf("modifyReservation: booking %d updated", result.BookingID)
	go publishConfirmed(c.Request().Context(), result)
	return c.JSON(http.StatusOK, result)
}

// CancelReservation handles DELETE /v1/bookings/:id.  The caller
// supplies their email in the body; only the owner may cancel.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body cancelBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ok, err := h.svc.CancelBooking(c.Request().Context(), service.BookingCancel{
		BookingID:   bookingID,
		ClientEmail: body.ClientEmail,
	})
	if err != nil || !ok {
		status := http.StatusInternalServerError
		switch model.CodeOf(err) {
		case model.CodeUnauthorized:
			status = http.StatusUnauthorized
		case model.CodeNotFound:
			status = http.StatusNotFound
		}
		log.Printf("cancelReservation: %v", err)
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	log.Printf("cancelReservation: booking %d removed", bookingID)
	go func(ctx context.Context) {
		_ = queue.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:   bookingID,
			ClientEmail: body.ClientEmail,
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		})
	}(context.WithoutCancel(c.Request().Context()))
	return c.JSON(http.StatusOK, echo.Map{"message": "the booking was removed"})
}

// ListUserBookings handles GET /v1/bookings?email=.  It returns the
// caller's current and future bookings.
func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	bookings, err := h.svc.GetUserBookings(c.Request().Context(), email)
	if err != nil {
		log.Printf("listUserBookings: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, bookings)
}

// publishConfirmed fires the booking.confirmed event after a
// successful create or modify.  Broker errors are already logged by
// the publisher and never affect the response.
func publishConfirmed(ctx context.Context, b *service.BookingResponse) {
	roomName := ""
	if len(b.Rooms) > 0 {
		roomName = b.Rooms[0].RoomName
	}
	_ = queue.PublishBookingConfirmed(context.WithoutCancel(ctx), queue.BookingConfirmedEvent{
		BookingID:   b.BookingID,
		ClientEmail: b.ClientEmail,
		RoomName:    roomName,
		CheckIn:     b.CheckIn.Format("2006-01-02"),
		CheckOut:    b.CheckOut.Format("2006-01-02"),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
