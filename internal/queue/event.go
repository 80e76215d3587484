// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// BookingQueue is the durable queue booking events are routed to.
const BookingQueue = "booking.created"

// BookingCreatedEvent is published after a booking has been persisted. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type BookingCreatedEvent struct {
	EventID         string `json:"event_id"`
	BookingID       uint64 `json:"booking_id"`
	FirstName       string `json:"first_name"`
	ReservationDate string `json:"reservation_date"`
	ReservationSlot int    `json:"reservation_slot"`
	SlotLabel       string `json:"slot_label"`
	CreatedAt       string `json:"created_at"`
}

// NewBookingCreatedEvent describes b, stamped with now in RFC 3339 UTC.
func NewBookingCreatedEvent(b model.Booking, now time.Time) BookingCreatedEvent {
	return BookingCreatedEvent{
		EventID:         uuid.NewString(),
		BookingID:       b.ID,
		FirstName:       b.FirstName,
		ReservationDate: b.DateString(),
		ReservationSlot: b.ReservationSlot,
		SlotLabel:       model.NewSlot(b.ReservationSlot).Label,
		CreatedAt:       now.UTC().Format(time.RFC3339),
	}
}
