package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

var handlerNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func handlerClock() time.Time { return handlerNow }

func handlerDay(offset int) string {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset).Format("2006-01-02")
}

func setupRouter(t *testing.T) (*repository.MemoryRepo, http.Handler) {
	t.Helper()
	repo := repository.NewMemoryRepo(handlerClock)
	repo.SeedRoom(model.Room{ID: 1, Name: "The only room available", Capacity: 1, Price: 100})

	h := NewBookingHandler(service.NewBookingService(repo, handlerClock))

	e := echo.New()
	e.GET("/v1/rooms/availability", h.CheckRoomAvailability)
	e.POST("/v1/bookings", h.PlaceReservation)
	e.PUT("/v1/bookings/:id", h.ModifyReservation)
	e.DELETE("/v1/bookings/:id", h.CancelReservation)
	e.GET("/v1/bookings", h.ListUserBookings)
	return repo, e
}

func seedStay(t *testing.T, repo *repository.MemoryRepo, email string, from, to int) uint64 {
	t.Helper()
	day := func(offset int) time.Time {
		return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	created, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: email,
		CheckIn:     day(from),
		CheckOut:    day(to),
	})
	require.NoError(t, err)
	return created.ID
}

func bookingJSON(email string, from, to int) []byte {
	body, _ := json.Marshal(map[string]string{
		"client_email": email,
		"from":         handlerDay(from),
		"to":           handlerDay(to),
	})
	return body
}

func doJSON(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.ServeHTTP(w, req)
	return w
}

// --- Availability ---

func TestCheckRoomAvailability_OK(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/rooms/availability?room_id=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp service.RoomAvailability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.RoomID)
	assert.Len(t, resp.AvailableDates, 30)
}

func TestCheckRoomAvailability_FullyBookedIsNoContent(t *testing.T) {
	repo, r := setupRouter(t)
	for i := 0; i < 10; i++ {
		seedStay(t, repo, "alice@example.com", 1+3*i, 3+3*i)
	}

	w := doJSON(r, http.MethodGet, "/v1/rooms/availability?room_id=1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCheckRoomAvailability_UnknownRoomIsNotFound(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/rooms/availability?room_id=99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckRoomAvailability_InvalidRoomID(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/rooms/availability?room_id=abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Place ---

func TestPlaceReservation_Created(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/bookings", bookingJSON("alice@example.com", 1, 3))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp service.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.BookingID)
	assert.Len(t, resp.Rooms, 1)
}

func TestPlaceReservation_RuleViolationIsBadRequest(t *testing.T) {
	_, r := setupRouter(t)

	// four-day stay
	w := doJSON(r, http.MethodPost, "/v1/bookings", bookingJSON("alice@example.com", 1, 4))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// An occupied range maps to 404 on place; the modify endpoint maps
// the same code to 409.
func TestPlaceReservation_RoomTakenIsNotFound(t *testing.T) {
	repo, r := setupRouter(t)
	seedStay(t, repo, "bob@example.com", 2, 4)

	w := doJSON(r, http.MethodPost, "/v1/bookings", bookingJSON("alice@example.com", 4, 6))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceReservation_UnparsableDate(t *testing.T) {
	_, r := setupRouter(t)

	body := []byte(`{"client_email":"alice@example.com","from":"not-a-date","to":"2025-06-18"}`)
	w := doJSON(r, http.MethodPost, "/v1/bookings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Modify ---

func TestModifyReservation_OK(t *testing.T) {
	repo, r := setupRouter(t)
	id := seedStay(t, repo, "alice@example.com", 2, 4)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/v1/bookings/%d", id), bookingJSON("alice@example.com", 10, 12))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp service.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.BookingID)
}

func TestModifyReservation_RuleViolationIsBadRequest(t *testing.T) {
	repo, r := setupRouter(t)
	id := seedStay(t, repo, "alice@example.com", 2, 4)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/v1/bookings/%d", id), bookingJSON("alice@example.com", 12, 10))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModifyReservation_RoomTakenIsConflict(t *testing.T) {
	repo, r := setupRouter(t)
	id := seedStay(t, repo, "alice@example.com", 2, 4)
	seedStay(t, repo, "bob@example.com", 10, 12)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/v1/bookings/%d", id), bookingJSON("alice@example.com", 11, 13))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModifyReservation_MissingIsNotFound(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodPut, "/v1/bookings/99", bookingJSON("alice@example.com", 2, 4))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModifyReservation_InvalidID(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodPut, "/v1/bookings/zero", bookingJSON("alice@example.com", 2, 4))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Cancel ---

func TestCancelReservation_OK(t *testing.T) {
	repo, r := setupRouter(t)
	id := seedStay(t, repo, "alice@example.com", 2, 4)

	body, _ := json.Marshal(map[string]string{"client_email": "alice@example.com"})
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/v1/bookings/%d", id), body)

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := repo.GetBooking(context.Background(), id)
	assert.Equal(t, model.CodeNotFound, model.CodeOf(err))
}

func TestCancelReservation_NonOwnerIsUnauthorized(t *testing.T) {
	repo, r := setupRouter(t)
	id := seedStay(t, repo, "alice@example.com", 2, 4)

	body, _ := json.Marshal(map[string]string{"client_email": "mallory@example.com"})
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/v1/bookings/%d", id), body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	stored, err := repo.GetBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", stored.ClientEmail)
}

func TestCancelReservation_MissingIsNotFound(t *testing.T) {
	_, r := setupRouter(t)

	body, _ := json.Marshal(map[string]string{"client_email": "alice@example.com"})
	w := doJSON(r, http.MethodDelete, "/v1/bookings/42", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- List ---

func TestListUserBookings_OK(t *testing.T) {
	repo, r := setupRouter(t)
	seedStay(t, repo, "alice@example.com", 2, 4)
	seedStay(t, repo, "bob@example.com", 6, 7)

	w := doJSON(r, http.MethodGet, "/v1/bookings?email=alice@example.com", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []service.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "alice@example.com", resp[0].ClientEmail)
}

func TestListUserBookings_MissingEmail(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/bookings", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
