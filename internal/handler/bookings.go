package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// bookingRecord is the serialized form of a booking: model label, primary
// key and the remaining columns under fields.
type bookingRecord struct {
	Model  string        `json:"model"`
	PK     uint64        `json:"pk"`
	Fields bookingFields `json:"fields"`
}

type bookingFields struct {
	FirstName       string `json:"first_name"`
	ReservationDate string `json:"reservation_date"`
	ReservationSlot int    `json:"reservation_slot"`
}

type bookingsResponse struct {
	Bookings []bookingRecord `json:"bookings"`
	Message  string          `json:"message,omitempty"`
}

// BookingsPage is the view model of bookings.html. Bookings holds the
// records as indented JSON.
type BookingsPage struct {
	Bookings string
	Message  string
	Flash    string
	Count    int
}

func serializeBookings(bs []model.Booking) []bookingRecord {
	out := make([]bookingRecord, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingRecord{
			Model: "restaurant.booking",
			PK:    b.ID,
			Fields: bookingFields{
				FirstName:       b.FirstName,
				ReservationDate: b.DateString(),
				ReservationSlot: b.ReservationSlot,
			},
		})
	}
	return out
}

// Bookings serves GET /bookings. Without a date every booking is listed.
// A valid date lists that day. A malformed date lists every booking and
// says the date was not understood.
func (h *Handler) Bookings(c echo.Context) error {
	ctx := c.Request().Context()
	raw := c.QueryParam("date")

	var (
		list    []model.Booking
		message string
		err     error
	)
	switch date, perr := model.ParseDate(raw); {
	case raw == "":
		if list, err = h.BookingRepo.ListAll(ctx); err == nil && len(list) == 0 {
			message = "No bookings found in the system."
		}
	case perr != nil:
		list, err = h.BookingRepo.ListAll(ctx)
		message = fmt.Sprintf("Invalid date format: %s. Please use /bookings?date=YYYY-MM-DD format.", raw)
	default:
		if list, err = h.BookingRepo.ListByDate(ctx, date); err == nil && len(list) == 0 {
			message = "No bookings found for date: " + raw
		}
	}
	if err != nil {
		return err
	}

	records := serializeBookings(list)
	if middleware.IsProgrammatic(c) {
		return c.JSON(http.StatusOK, bookingsResponse{Bookings: records, Message: message})
	}

	pretty, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "bookings.html", BookingsPage{
		Bookings: string(pretty),
		Message:  message,
		Flash:    h.Flash.Pop(c),
		Count:    len(records),
	})
}
