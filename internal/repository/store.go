package repository

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// BookingStore persists table reservations.
//
// The store does not enforce one booking per (date, slot); callers only
// accept slots that were free when availability was computed, so two
// concurrent submissions for the same hour can both succeed.
type BookingStore interface {
	// Create inserts b and sets b.ID.
	Create(ctx context.Context, b *model.Booking) error
	// ListByDate returns the bookings on date ordered by slot ascending.
	ListByDate(ctx context.Context, date time.Time) ([]model.Booking, error)
	// ListBySlot returns the bookings on date for one hour, ordered by id.
	ListBySlot(ctx context.Context, date time.Time, slot int) ([]model.Booking, error)
	// ListAll returns every booking ordered by id.
	ListAll(ctx context.Context) ([]model.Booking, error)
}

// MenuStore persists menu items.
type MenuStore interface {
	Create(ctx context.Context, item *model.MenuItem) error
	// GetByID returns ErrNotFound when no item has the given id.
	GetByID(ctx context.Context, id uint64) (*model.MenuItem, error)
	ListAll(ctx context.Context) ([]model.MenuItem, error)
}
