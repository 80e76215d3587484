package model

import "time"

// DateLayout is the only accepted wire format for reservation dates.
const DateLayout = "2006-01-02"

// Booking is a table reservation for one hourly slot on one date.
// Bookings are created from a validated submission and never updated.
//
// Fields:
//
//	ID              – primary key identifier.
//	FirstName       – name the table is held under.
//	ReservationDate – calendar date of the visit (time part is zero, UTC).
//	ReservationSlot – hour of day the table is reserved for (14..23).
type Booking struct {
	ID              uint64    `db:"id"`               // bookings.id
	FirstName       string    `db:"first_name"`       // bookings.first_name
	ReservationDate time.Time `db:"reservation_date"` // bookings.reservation_date
	ReservationSlot int       `db:"reservation_slot"` // bookings.reservation_slot
}

// DateString returns the reservation date in DateLayout.
func (b Booking) DateString() string {
	return b.ReservationDate.Format(DateLayout)
}

// DateOnly strips the clock and zone from t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses s strictly as YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
