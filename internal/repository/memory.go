package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/availability"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// MemoryRepo is the in-memory implementation of the booking
// repository: maps keyed by id behind a mutex.  It backs the
// service tests and doubles as a storage layer for running the API
// without MySQL.  The clock is injected so date filters behave
// deterministically under test.
type MemoryRepo struct {
	mu       sync.Mutex
	now      func() time.Time
	rooms    map[uint64]model.Room
	bookings map[uint64]model.Booking
	links    map[uint64][]uint64 // booking id -> room ids
	nextID   uint64
}

// NewMemoryRepo builds an empty MemoryRepo using the given clock.
func NewMemoryRepo(now func() time.Time) *MemoryRepo {
	return &MemoryRepo{
		now:      now,
		rooms:    make(map[uint64]model.Room),
		bookings: make(map[uint64]model.Booking),
		links:    make(map[uint64][]uint64),
		nextID:   1,
	}
}

// SeedRoom stores a room, mimicking the startup seed of the MySQL
// schema.
func (m *MemoryRepo) SeedRoom(room model.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = room
}

// AddBooking stores the booking, links it to the lowest-id room and
// returns the stored copy with its rooms attached.
func (m *MemoryRepo) AddBooking(_ context.Context, b *model.Booking) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.firstRoomID()
	if !ok {
		return nil, model.NewBookingError(model.CodeNotFound, "no room has been seeded")
	}
	stored := model.Booking{
		ID:          m.nextID,
		ClientEmail: b.ClientEmail,
		CheckIn:     availability.Day(b.CheckIn),
		CheckOut:    availability.Day(b.CheckOut),
	}
	m.nextID++
	m.bookings[stored.ID] = stored
	m.links[stored.ID] = []uint64{roomID}
	return m.withRooms(stored), nil
}

// ModifyBooking updates the dates of an existing booking.
func (m *MemoryRepo) ModifyBooking(_ context.Context, b *model.Booking) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.bookings[b.ID]
	if !ok {
		return nil, model.NewBookingError(model.CodeNotFound,
			fmt.Sprintf("the booking %d does not exist", b.ID))
	}
	stored.CheckIn = availability.Day(b.CheckIn)
	stored.CheckOut = availability.Day(b.CheckOut)
	m.bookings[b.ID] = stored
	return m.withRooms(stored), nil
}

// DeleteBooking removes a booking after re-checking ownership, the
// same double guard the MySQL repo keeps.  Room links go with it.
func (m *MemoryRepo) DeleteBooking(_ context.Context, clientEmail string, bookingID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.bookings[bookingID]
	if !ok {
		return 0, model.NewBookingError(model.CodeNotFound,
			fmt.Sprintf("the booking with id %d does not exist", bookingID))
	}
	if stored.ClientEmail != clientEmail {
		return 0, model.NewBookingError(model.CodeUnauthorized,
			fmt.Sprintf("the end-user %s can't delete this booking", clientEmail))
	}
	delete(m.bookings, bookingID)
	delete(m.links, bookingID)
	return 1, nil
}

// CheckAvailability reports whether no stored booking overlaps the
// closed interval [checkIn, checkOut], skipping excludeBookingID
// when set.
func (m *MemoryRepo) CheckAvailability(_ context.Context, checkIn, checkOut time.Time, excludeBookingID *uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, b := range m.bookings {
		if excludeBookingID != nil && id == *excludeBookingID {
			continue
		}
		if availability.Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return false, nil
		}
	}
	return true, nil
}

// GetBooking returns one booking with rooms attached.
func (m *MemoryRepo) GetBooking(_ context.Context, bookingID uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.bookings[bookingID]
	if !ok {
		return nil, model.NewBookingError(model.CodeNotFound,
			fmt.Sprintf("the booking with id %d does not exist", bookingID))
	}
	return m.withRooms(stored), nil
}

// GetBookingReservedDates expands every future booking of the room
// into covered days.  Only bookings with a check-in strictly after
// today count.
func (m *MemoryRepo) GetBookingReservedDates(_ context.Context, roomID uint64) ([]time.Time, *model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, nil, model.NewBookingError(model.CodeNotFound,
			fmt.Sprintf("the room %d does not exist", roomID))
	}
	today := availability.Day(m.now())
	var reserved []time.Time
	for id, b := range m.bookings {
		if !m.linkedTo(id, roomID) || !availability.Day(b.CheckIn).After(today) {
			continue
		}
		reserved = append(reserved, availability.CoveredDays(b.CheckIn, b.CheckOut)...)
	}
	return reserved, &room, nil
}

// GetUserBookings lists bookings owned by clientEmail with a
// check-in of today or later, ordered by check-in.
func (m *MemoryRepo) GetUserBookings(_ context.Context, clientEmail string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := availability.Day(m.now())
	result := make([]model.Booking, 0)
	for _, b := range m.bookings {
		if b.ClientEmail != clientEmail || availability.Day(b.CheckIn).Before(today) {
			continue
		}
		result = append(result, *m.withRooms(b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckIn.Before(result[j].CheckIn) })
	return result, nil
}

// firstRoomID returns the lowest room id on file, matching the
// "first room" pick of the MySQL repo.
func (m *MemoryRepo) firstRoomID() (uint64, bool) {
	var (
		best  uint64
		found bool
	)
	for id := range m.rooms {
		if !found || id < best {
			best = id
			found = true
		}
	}
	return best, found
}

func (m *MemoryRepo) linkedTo(bookingID, roomID uint64) bool {
	for _, id := range m.links[bookingID] {
		if id == roomID {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) withRooms(b model.Booking) *model.Booking {
	rooms := make([]model.Room, 0, len(m.links[b.ID]))
	for _, roomID := range m.links[b.ID] {
		if room, ok := m.rooms[roomID]; ok {
			rooms = append(rooms, room)
		}
	}
	b.Rooms = rooms
	return &b
}
