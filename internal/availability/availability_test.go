package availability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func hoursOf(slots []model.Slot) []int {
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Hour)
	}
	return out
}

func TestWeekdayStartsOnMonday(t *testing.T) {
	require.Equal(t, 0, Weekday(date(t, "2024-06-10"))) // Monday
	require.Equal(t, 5, Weekday(date(t, "2024-06-15"))) // Saturday
	require.Equal(t, 6, Weekday(date(t, "2024-06-16"))) // Sunday
}

func TestComputeOpeningHours(t *testing.T) {
	cases := []struct {
		day     string
		first   int
		last    int
		display string
	}{
		{"2024-06-10", 14, 22, "Monday to Friday: 2pm - 10pm"},
		{"2024-06-14", 14, 22, "Monday to Friday: 2pm - 10pm"},
		{"2024-06-15", 14, 23, "Saturday: 2pm - 11pm"},
		{"2024-06-16", 14, 21, "Sunday: 2pm - 9pm"},
	}
	for _, tc := range cases {
		t.Run(tc.day, func(t *testing.T) {
			a := Compute(date(t, tc.day), nil)
			require.Equal(t, tc.display, a.HoursDisplay())
			require.Len(t, a.Slots, tc.last-tc.first+1)
			require.Equal(t, tc.first, a.Slots[0].Hour)
			require.Equal(t, tc.last, a.Slots[len(a.Slots)-1].Hour)
		})
	}
}

func TestComputeExcludesBookedHours(t *testing.T) {
	d := date(t, "2024-06-10")
	a := Compute(d, []model.Booking{{FirstName: "Ann", ReservationDate: d, ReservationSlot: 18}})

	require.Equal(t, []int{14, 15, 16, 17, 19, 20, 21, 22}, hoursOf(a.Slots))
	require.Equal(t, "Monday to Friday: 2pm - 10pm", a.HoursDisplay())
	assert.False(t, a.Offers(18))
	assert.True(t, a.Offers(19))
	assert.False(t, a.Offers(13))
}

func TestComputeCoversWindowExactlyOnce(t *testing.T) {
	start := date(t, "2024-01-01")
	for i := 0; i < 366; i++ {
		d := start.AddDate(0, 0, i)
		booked := []model.Booking{{ReservationSlot: 14 + i%8}, {ReservationSlot: 16}}
		a := Compute(d, booked)
		h := HoursFor(d)

		free := map[int]bool{}
		for _, s := range a.Slots {
			require.False(t, free[s.Hour], "duplicate slot %d on %s", s.Hour, d)
			free[s.Hour] = true
		}
		for hour := h.Opening; hour <= h.Closing; hour++ {
			taken := hour == 14+i%8 || hour == 16
			require.NotEqual(t, taken, free[hour], "hour %d on %s", hour, d)
		}
		require.IsIncreasing(t, hoursOf(a.Slots))
	}
}

func TestSlotLabelAndJSON(t *testing.T) {
	s := model.NewSlot(18)
	require.Equal(t, "18:00 Hours", s.Label)

	raw, err := json.Marshal([]model.Slot{s})
	require.NoError(t, err)
	require.JSONEq(t, `[[18, "18:00 Hours"]]`, string(raw))
}

type stubLister struct {
	bookings []model.Booking
	err      error
}

func (s stubLister) ListByDate(context.Context, time.Time) ([]model.Booking, error) {
	return s.bookings, s.err
}

func TestForDate(t *testing.T) {
	d := date(t, "2024-06-16")
	a, bookings, err := ForDate(context.Background(), stubLister{bookings: []model.Booking{{ReservationSlot: 21}}}, d)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, []int{14, 15, 16, 17, 18, 19, 20}, hoursOf(a.Slots))

	_, _, err = ForDate(context.Background(), stubLister{err: errors.New("boom")}, d)
	require.Error(t, err)
}
