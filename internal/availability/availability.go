// Package availability derives the open reservation slots for a date from
// the restaurant's opening hours and the bookings already taken on it.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Hours is the opening window for one day. Opening and Closing are both
// bookable hours.
type Hours struct {
	Opening int
	Closing int
	Display string
}

var (
	weekdayHours  = Hours{Opening: 14, Closing: 22, Display: "Monday to Friday: 2pm - 10pm"}
	saturdayHours = Hours{Opening: 14, Closing: 23, Display: "Saturday: 2pm - 11pm"}
	sundayHours   = Hours{Opening: 14, Closing: 21, Display: "Sunday: 2pm - 9pm"}
)

// Weekday returns the day index of t with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// HoursFor returns the opening window for the given date.
func HoursFor(date time.Time) Hours {
	switch wd := Weekday(date); {
	case wd < 5:
		return weekdayHours
	case wd == 5:
		return saturdayHours
	default:
		return sundayHours
	}
}

// Availability is the result of Compute for a single date.
type Availability struct {
	Date  time.Time
	Hours Hours
	Slots []model.Slot
}

// HoursDisplay is the human readable opening hours line for the date.
func (a Availability) HoursDisplay() string { return a.Hours.Display }

// Offers reports whether hour is one of the open slots.
func (a Availability) Offers(hour int) bool {
	for _, s := range a.Slots {
		if s.Hour == hour {
			return true
		}
	}
	return false
}

// Compute returns the open slots for date given the bookings on that date.
// Slots are emitted in ascending hour order. The result depends only on its
// arguments.
func Compute(date time.Time, bookings []model.Booking) Availability {
	hours := HoursFor(date)
	booked := make(map[int]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.ReservationSlot] = struct{}{}
	}
	slots := make([]model.Slot, 0, hours.Closing-hours.Opening+1)
	for h := hours.Opening; h <= hours.Closing; h++ {
		if _, taken := booked[h]; taken {
			continue
		}
		slots = append(slots, model.NewSlot(h))
	}
	return Availability{Date: model.DateOnly(date), Hours: hours, Slots: slots}
}

// BookingLister is the slice of the record store availability needs.
type BookingLister interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.Booking, error)
}

// ForDate loads the bookings for date and computes its availability.
func ForDate(ctx context.Context, store BookingLister, date time.Time) (Availability, []model.Booking, error) {
	bookings, err := store.ListByDate(ctx, date)
	if err != nil {
		return Availability{}, nil, fmt.Errorf("list bookings for %s: %w", date.Format(model.DateLayout), err)
	}
	return Compute(date, bookings), bookings, nil
}
