package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

const bookingColumns = "id, first_name, reservation_date, reservation_slot"

// BookingRepo is the SQL implementation of BookingStore. Queries are written
// with ? placeholders and rebound for the connected driver.
type BookingRepo struct {
	db *sqlx.DB // db is the shared connection pool
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create inserts a booking and populates b.ID. The date is sent as a
// YYYY-MM-DD string so no time zone conversion happens on the way in.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = "INSERT INTO bookings (first_name, reservation_date, reservation_slot) VALUES (?, ?, ?)"
	id, err := insertID(ctx, r.db, q, b.FirstName, b.DateString(), b.ReservationSlot)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return nil
}

// ListByDate returns the bookings for one date ordered by slot.
func (r *BookingRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Booking, error) {
	q := r.db.Rebind("SELECT " + bookingColumns + " FROM bookings WHERE reservation_date = ? ORDER BY reservation_slot, id")
	return r.list(ctx, q, date.Format(model.DateLayout))
}

// ListBySlot returns the bookings holding one hour on one date.
func (r *BookingRepo) ListBySlot(ctx context.Context, date time.Time, slot int) ([]model.Booking, error) {
	q := r.db.Rebind("SELECT " + bookingColumns + " FROM bookings WHERE reservation_date = ? AND reservation_slot = ? ORDER BY id")
	return r.list(ctx, q, date.Format(model.DateLayout), slot)
}

// ListAll returns every booking in insertion order.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	out := []model.Booking{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	for i := range out {
		out[i].ReservationDate = model.DateOnly(out[i].ReservationDate)
	}
	return out, nil
}
