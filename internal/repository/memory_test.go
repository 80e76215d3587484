package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func TestMemoryBookingsOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Bookings()
	mon := day(t, "2024-06-10")
	tue := day(t, "2024-06-11")

	for _, b := range []model.Booking{
		{FirstName: "Cy", ReservationDate: mon, ReservationSlot: 20},
		{FirstName: "Ann", ReservationDate: mon.Add(13 * time.Hour), ReservationSlot: 15},
		{FirstName: "Bo", ReservationDate: tue, ReservationSlot: 14},
	} {
		b := b
		require.NoError(t, store.Create(ctx, &b))
	}

	onMon, err := store.ListByDate(ctx, mon)
	require.NoError(t, err)
	require.Len(t, onMon, 2)
	require.Equal(t, "Ann", onMon[0].FirstName)
	require.Equal(t, "Cy", onMon[1].FirstName)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, uint64(1), all[0].ID)
	require.Equal(t, uint64(3), all[2].ID)

	bySlot, err := store.ListBySlot(ctx, tue, 14)
	require.NoError(t, err)
	require.Len(t, bySlot, 1)
	require.Equal(t, "Bo", bySlot[0].FirstName)
}

func TestMemoryMenu(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Menu()

	empty, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)

	item := &model.MenuItem{Name: "Bruschetta", Price: 7.25, Description: "Toasted bread"}
	require.NoError(t, store.Create(ctx, item))

	got, err := store.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, *item, *got)

	_, err = store.GetByID(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}
