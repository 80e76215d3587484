package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/availability"
	"github.com/iliyamo/restaurant-booking/internal/form"
	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/view"
)

// BookPage is the view model of book.html.
type BookPage struct {
	Form           form.Booking
	Errors         form.Errors
	Slots          []model.Slot
	SelectedDate   time.Time
	BookingsOnDate []model.Booking
	HoursDisplay   string
}

type bookingSummary struct {
	FirstName       string `json:"first_name"`
	ReservationSlot int    `json:"reservation_slot"`
}

type availabilityResponse struct {
	DateDisplay    string           `json:"date_display"`
	HoursDisplay   string           `json:"hours_display"`
	AvailableSlots []model.Slot     `json:"available_slots"`
	Bookings       []bookingSummary `json:"bookings"`
}

// Book serves GET and POST /book.
//
// The date query parameter selects the day shown; a missing or malformed
// value silently means today. A POST creates a booking from the form fields.
// A GET from page script with format=json returns the day's availability.
func (h *Handler) Book(c echo.Context) error {
	date := h.today()
	if raw := c.QueryParam("date"); raw != "" {
		if d, err := model.ParseDate(raw); err == nil {
			date = d
		}
	}

	if c.Request().Method == http.MethodPost {
		return h.createBooking(c, date)
	}
	return h.showBooking(c, date, form.Booking{}, nil)
}

func (h *Handler) slotsFor(ctx context.Context, date time.Time) (availability.Availability, error) {
	a, _, err := availability.ForDate(ctx, h.BookingRepo, date)
	return a, err
}

func (h *Handler) createBooking(c echo.Context, date time.Time) error {
	ctx := c.Request().Context()
	programmatic := middleware.IsProgrammatic(c)

	f := form.BookingFromValues(c.FormValue)
	b, errs, err := f.Validate(ctx, h.slotsFor)
	if err == nil && len(errs) == 0 {
		errs, err = h.claimSlot(ctx, &b)
	}
	switch {
	case err != nil:
		metrics.RecordBooking(metrics.OutcomeFailed)
		h.logger().Error("booking: create failed", "err", err)
		if programmatic {
			return c.JSON(http.StatusInternalServerError, internalResponse)
		}
		return err
	case len(errs) > 0:
		metrics.RecordBooking(metrics.OutcomeInvalid)
		if programmatic {
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Errors: errs})
		}
		// Show the form against the day that was submitted.
		if d, perr := model.ParseDate(f.ReservationDate); perr == nil {
			date = d
		}
		return h.showBooking(c, date, f, errs)
	}

	metrics.RecordBooking(metrics.OutcomeCreated)
	h.publishCreated(ctx, b)
	if programmatic {
		return c.JSON(http.StatusOK, successResponse)
	}
	h.Flash.Set(c, fmt.Sprintf("Table booked for %s on %s at %s.",
		b.FirstName, view.LongDate(b.ReservationDate), model.NewSlot(b.ReservationSlot).Label))
	return c.Redirect(http.StatusFound, "/bookings")
}

// claimSlot looks the hour up once more right before inserting b. It only
// narrows the window in which two submissions can take the same hour; the
// store has no unique key to close it.
func (h *Handler) claimSlot(ctx context.Context, b *model.Booking) (form.Errors, error) {
	taken, err := h.BookingRepo.ListBySlot(ctx, b.ReservationDate, b.ReservationSlot)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		errs := form.Errors{}
		errs.Add("reservation_slot", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", b.ReservationSlot))
		return errs, nil
	}
	return nil, h.BookingRepo.Create(ctx, b)
}

// showBooking renders the booking page for date. f and errs carry a
// rejected submission back to the form.
func (h *Handler) showBooking(c echo.Context, date time.Time, f form.Booking, errs form.Errors) error {
	avail, bookings, err := availability.ForDate(c.Request().Context(), h.BookingRepo, date)
	if err != nil {
		return err
	}
	metrics.RecordOpenSlots(len(avail.Slots))

	if c.Request().Method == http.MethodGet && middleware.IsProgrammatic(c) && c.QueryParam("format") == "json" {
		out := availabilityResponse{
			DateDisplay:    view.LongDate(date),
			HoursDisplay:   avail.HoursDisplay(),
			AvailableSlots: avail.Slots,
			Bookings:       make([]bookingSummary, 0, len(bookings)),
		}
		for _, b := range bookings {
			out.Bookings = append(out.Bookings, bookingSummary{FirstName: b.FirstName, ReservationSlot: b.ReservationSlot})
		}
		return c.JSON(http.StatusOK, out)
	}

	if f.ReservationDate == "" {
		f.ReservationDate = date.Format(model.DateLayout)
	}
	return c.Render(http.StatusOK, "book.html", BookPage{
		Form:           f,
		Errors:         errs,
		Slots:          avail.Slots,
		SelectedDate:   date,
		BookingsOnDate: bookings,
		HoursDisplay:   avail.HoursDisplay(),
	})
}
