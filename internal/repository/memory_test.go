package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

var memNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func memClock() time.Time { return memNow }

func memDay(offset int) time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func newSeededRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo(memClock)
	repo.SeedRoom(model.Room{ID: 1, Name: "The only room available", Capacity: 1, Price: 100})
	return repo
}

func TestMemoryRepo_AddBookingLinksFirstRoom(t *testing.T) {
	repo := newSeededRepo(t)
	repo.SeedRoom(model.Room{ID: 7, Name: "annex"})

	created, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "alice@example.com",
		CheckIn:     memDay(2),
		CheckOut:    memDay(3),
	})

	require.NoError(t, err)
	require.Len(t, created.Rooms, 1)
	assert.Equal(t, uint64(1), created.Rooms[0].ID)
}

func TestMemoryRepo_AddBookingWithoutRoom(t *testing.T) {
	repo := NewMemoryRepo(memClock)

	_, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "alice@example.com",
		CheckIn:     memDay(2),
		CheckOut:    memDay(3),
	})

	require.Error(t, err)
	assert.Equal(t, model.CodeNotFound, model.CodeOf(err))
}

func TestMemoryRepo_CheckAvailabilityExclusion(t *testing.T) {
	repo := newSeededRepo(t)
	created, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "alice@example.com",
		CheckIn:     memDay(2),
		CheckOut:    memDay(4),
	})
	require.NoError(t, err)

	free, err := repo.CheckAvailability(context.Background(), memDay(3), memDay(5), nil)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = repo.CheckAvailability(context.Background(), memDay(3), memDay(5), &created.ID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestMemoryRepo_ReservedDatesSkipTodayCheckIns(t *testing.T) {
	repo := newSeededRepo(t)

	// counts: check-in strictly after today
	_, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "alice@example.com",
		CheckIn:     memDay(1),
		CheckOut:    memDay(2),
	})
	require.NoError(t, err)

	// skipped: check-in is today
	_, err = repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "bob@example.com",
		CheckIn:     memDay(0),
		CheckOut:    memDay(0),
	})
	require.NoError(t, err)

	reserved, room, err := repo.GetBookingReservedDates(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, uint64(1), room.ID)
	assert.ElementsMatch(t, []time.Time{memDay(1), memDay(2)}, reserved)
}

func TestMemoryRepo_ReservedDatesUnknownRoom(t *testing.T) {
	repo := newSeededRepo(t)

	_, _, err := repo.GetBookingReservedDates(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, model.CodeNotFound, model.CodeOf(err))
}

func TestMemoryRepo_DeleteBookingOwnershipGuard(t *testing.T) {
	repo := newSeededRepo(t)
	created, err := repo.AddBooking(context.Background(), &model.Booking{
		ClientEmail: "alice@example.com",
		CheckIn:     memDay(2),
		CheckOut:    memDay(3),
	})
	require.NoError(t, err)

	_, err = repo.DeleteBooking(context.Background(), "mallory@example.com", created.ID)
	require.Error(t, err)
	assert.Equal(t, model.CodeUnauthorized, model.CodeOf(err))

	rows, err := repo.DeleteBooking(context.Background(), "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = repo.DeleteBooking(context.Background(), "alice@example.com", created.ID)
	assert.Equal(t, model.CodeNotFound, model.CodeOf(err))
}
