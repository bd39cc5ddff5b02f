// Package rules contains the validation pipeline that guards every
// booking mutation.  Each rule is a single predicate over a
// candidate booking: it either passes silently or fails with a
// typed model.BookingError.  Rules never mutate state; the two
// repository-backed rules only read.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Clock supplies the current time to date-sensitive rules.  Tests
// pin it to a fixed instant; production wiring passes time.Now.
type Clock func() time.Time

// Candidate is the transient tuple under validation.  It is never
// persisted and lives only for the duration of one pipeline run.
// BookingID is set when modifying or cancelling an existing
// booking; Email is set when ownership matters.
type Candidate struct {
	CheckIn   time.Time
	CheckOut  time.Time
	BookingID *uint64
	Email     string
}

// Rule validates one aspect of a candidate booking.
type Rule interface {
	Validate(ctx context.Context, cand Candidate) error
}

// Lookup is the slice of repository reads the rules need: the
// overlap check behind DatesAvailable and the booking fetch behind
// OwnedBy.  The full repository satisfies it.
type Lookup interface {
	CheckAvailability(ctx context.Context, checkIn, checkOut time.Time, excludeBookingID *uint64) (bool, error)
	GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error)
}

// day truncates to the calendar day, mirroring the date-only
// semantics of the booking calendar.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// datesOrdered rejects candidates whose check-out precedes their
// check-in.  A check-in in the past passes this rule; only
// NoSameDayBooking catches "today", and nothing catches earlier
// days.
type datesOrdered struct{}

// DatesOrdered returns the ordering rule applied first in every
// mutation pipeline.
func DatesOrdered() Rule { return datesOrdered{} }

func (datesOrdered) Validate(_ context.Context, cand Candidate) error {
	if cand.CheckOut.Before(cand.CheckIn) {
		return model.NewBookingError(model.CodeBadRequest,
			"the check-in date must be before the check-out date")
	}
	return nil
}

// maxStayLength caps the stay at maxStayDays inclusive calendar days.
type maxStayLength struct{}

const maxStayDays = 3

// MaxStayLength returns the stay-length rule.  The count is
// inclusive: check-out day minus check-in day, both truncated to
// the calendar day, plus one.
func MaxStayLength() Rule { return maxStayLength{} }

func (maxStayLength) Validate(_ context.Context, cand Candidate) error {
	days := int(day(cand.CheckOut).AddDate(0, 0, 1).Sub(day(cand.CheckIn)).Hours() / 24)
	if days > maxStayDays {
		return model.NewBookingError(model.CodeBadRequest,
			fmt.Sprintf("the stay can't be longer than %d days", maxStayDays))
	}
	return nil
}

// noSameDayBooking rejects check-ins on the current calendar day.
// Both conditions are required: the check-in instant must not be
// strictly in the future, and it must fall on today's date.  A
// check-in later today with a future timestamp therefore passes.
type noSameDayBooking struct {
	now Clock
}

// NoSameDayBooking returns the rule forcing stays to start no
// earlier than tomorrow.
func NoSameDayBooking(now Clock) Rule { return noSameDayBooking{now: now} }

func (r noSameDayBooking) Validate(_ context.Context, cand Candidate) error {
	now := r.now()
	sameDay := cand.CheckIn.YearDay() == now.YearDay() && cand.CheckIn.Year() == now.Year()
	if !cand.CheckIn.After(now) && sameDay {
		return model.NewBookingError(model.CodeBadRequest,
			"all reservations start at least the next day of booking, so your stay needs to start from tomorrow")
	}
	return nil
}

// maxAdvanceWindow caps how far ahead a stay may end.  The window
// is measured from tomorrow to the check-out day inclusive, not
// from the check-in day.
type maxAdvanceWindow struct {
	now Clock
}

const maxAdvanceDays = 30

// MaxAdvanceWindow returns the advance-window rule.
func MaxAdvanceWindow(now Clock) Rule { return maxAdvanceWindow{now: now} }

func (r maxAdvanceWindow) Validate(_ context.Context, cand Candidate) error {
	tomorrow := day(r.now()).AddDate(0, 0, 1)
	days := int(day(cand.CheckOut).AddDate(0, 0, 1).Sub(tomorrow).Hours() / 24)
	if days > maxAdvanceDays {
		return model.NewBookingError(model.CodeBadRequest,
			fmt.Sprintf("the stay can't be reserved more than %d days in advance", maxAdvanceDays))
	}
	return nil
}

// datesAvailable asks the repository whether the room is free for
// the candidate range.  When the candidate carries a booking id the
// overlap check excludes that booking's own stored dates, so a
// modify over its current range succeeds.
type datesAvailable struct {
	repo Lookup
}

// DatesAvailable returns the availability rule backed by the given
// repository.
func DatesAvailable(repo Lookup) Rule { return datesAvailable{repo: repo} }

func (r datesAvailable) Validate(ctx context.Context, cand Candidate) error {
	free, err := r.repo.CheckAvailability(ctx, cand.CheckIn, cand.CheckOut, cand.BookingID)
	if err != nil {
		return err
	}
	if !free {
		return model.NewBookingError(model.CodeRoomNotAvailable,
			fmt.Sprintf("the room is not available between %s and %s",
				cand.CheckIn.Format("2006-01-02"), cand.CheckOut.Format("2006-01-02")))
	}
	return nil
}

// ownedBy verifies the caller owns the stored booking.  A missing
// booking surfaces as the repository's NotFound error before the
// ownership comparison runs.
type ownedBy struct {
	repo Lookup
}

// OwnedBy returns the ownership rule backed by the given repository.
func OwnedBy(repo Lookup) Rule { return ownedBy{repo: repo} }

func (r ownedBy) Validate(ctx context.Context, cand Candidate) error {
	if cand.BookingID == nil {
		return model.NewBookingError(model.CodeBadRequest, "a booking id is required")
	}
	booking, err := r.repo.GetBooking(ctx, *cand.BookingID)
	if err != nil {
		return err
	}
	if booking.ClientEmail != cand.Email {
		return model.NewBookingError(model.CodeUnauthorized,
			fmt.Sprintf("the end-user %s is not the owner of this booking", cand.Email))
	}
	return nil
}
