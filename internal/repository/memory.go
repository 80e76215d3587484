package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// MemoryStore keeps bookings and menu items in process memory. It satisfies
// both BookingStore and MenuStore and is safe for concurrent use. Data is
// lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []model.Booking
	menu     []model.MenuItem
	nextBook uint64
	nextMenu uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Bookings exposes the booking half of the store.
func (s *MemoryStore) Bookings() BookingStore { return memoryBookings{s} }

// Menu exposes the menu half of the store.
func (s *MemoryStore) Menu() MenuStore { return memoryMenu{s} }

type memoryBookings struct{ s *MemoryStore }

func (m memoryBookings) Create(_ context.Context, b *model.Booking) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextBook++
	b.ID = m.s.nextBook
	b.ReservationDate = model.DateOnly(b.ReservationDate)
	m.s.bookings = append(m.s.bookings, *b)
	return nil
}

func (m memoryBookings) ListByDate(_ context.Context, date time.Time) ([]model.Booking, error) {
	out := m.filter(func(b model.Booking) bool { return sameDay(b.ReservationDate, date) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReservationSlot < out[j].ReservationSlot })
	return out, nil
}

func (m memoryBookings) ListBySlot(_ context.Context, date time.Time, slot int) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool {
		return b.ReservationSlot == slot && sameDay(b.ReservationDate, date)
	}), nil
}

func (m memoryBookings) ListAll(context.Context) ([]model.Booking, error) {
	return m.filter(func(model.Booking) bool { return true }), nil
}

// filter copies matching bookings in id order.
func (m memoryBookings) filter(keep func(model.Booking) bool) []model.Booking {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []model.Booking{}
	for _, b := range m.s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return model.DateOnly(a).Equal(model.DateOnly(b))
}

type memoryMenu struct{ s *MemoryStore }

func (m memoryMenu) Create(_ context.Context, item *model.MenuItem) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextMenu++
	item.ID = m.s.nextMenu
	m.s.menu = append(m.s.menu, *item)
	return nil
}

func (m memoryMenu) GetByID(_ context.Context, id uint64) (*model.MenuItem, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, item := range m.s.menu {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m memoryMenu) ListAll(context.Context) ([]model.MenuItem, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]model.MenuItem, len(m.s.menu))
	copy(out, m.s.menu)
	return out, nil
}
