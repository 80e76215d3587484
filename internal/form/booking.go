package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/availability"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Booking is the reservation submission as typed by the visitor.
type Booking struct {
	FirstName       string `form:"first_name" validate:"required,max=200"`
	ReservationDate string `form:"reservation_date" validate:"required,datetime=2006-01-02"`
	ReservationSlot string `form:"reservation_slot" validate:"required,number"`
}

// BookingFromValues reads a submission through get, usually echo's FormValue.
func BookingFromValues(get func(string) string) Booking {
	return Booking{
		FirstName:       strings.TrimSpace(get("first_name")),
		ReservationDate: strings.TrimSpace(get("reservation_date")),
		ReservationSlot: strings.TrimSpace(get("reservation_slot")),
	}
}

// SlotSource returns the availability for a date as of now.
type SlotSource func(ctx context.Context, date time.Time) (availability.Availability, error)

// Validate checks the submission and returns the booking to persist. The
// slot must be one of the hours offered by slots for the submitted date.
// A non-nil error means availability could not be computed; field problems
// are reported through Errors only.
func (f Booking) Validate(ctx context.Context, slots SlotSource) (model.Booking, Errors, error) {
	errs := check(f)
	if errs.Has("reservation_date") || errs.Has("reservation_slot") {
		return model.Booking{}, errs, nil
	}

	date, err := model.ParseDate(f.ReservationDate)
	if err != nil {
		errs.Add("reservation_date", "Enter a valid date.")
		return model.Booking{}, errs, nil
	}
	hour, err := strconv.Atoi(f.ReservationSlot)
	if err != nil {
		errs.Add("reservation_slot", "Enter a whole number.")
		return model.Booking{}, errs, nil
	}

	avail, err := slots(ctx, date)
	if err != nil {
		return model.Booking{}, nil, err
	}
	if !avail.Offers(hour) {
		errs.Add("reservation_slot", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", hour))
	}
	if len(errs) > 0 {
		return model.Booking{}, errs, nil
	}
	return model.Booking{FirstName: f.FirstName, ReservationDate: date, ReservationSlot: hour}, errs, nil
}
