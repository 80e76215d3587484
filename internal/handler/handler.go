// Package handler exposes the restaurant site's HTTP handlers. Every page
// answers a browser with rendered HTML and a script that sends
// X-Requested-With: XMLHttpRequest with JSON.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

// MenuCacheNamespace groups the cached menu pages.
const MenuCacheNamespace = "menu"

// Purger drops cached responses after a write.
type Purger interface {
	Purge(ctx context.Context, namespace string) error
}

// Handler aggregates the stores and collaborators the site needs. Zero
// values are usable for Events, Pages, Flash, Location, Now and Logger.
type Handler struct {
	BookingRepo repository.BookingStore // reservations
	MenuRepo    repository.MenuStore    // dishes
	Events      service.Publisher       // booking.created announcements
	Pages       Purger                  // response cache in front of the menu
	Flash       *Flash                  // one-shot messages across redirects
	Location    *time.Location          // decides which date is "today"
	Now         func() time.Time        // clock, replaced in tests
	Logger      *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// today is the current calendar date in the restaurant's time zone.
func (h *Handler) today() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	return model.DateOnly(now().In(loc))
}

// publishCreated announces b. Failures are logged; the booking stands.
func (h *Handler) publishCreated(ctx context.Context, b model.Booking) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	err := h.Events.PublishBookingCreated(ctx, queue.NewBookingCreatedEvent(b, time.Now()))
	metrics.RecordEventPublished(err)
	if err != nil {
		h.logger().Warn("booking event not published", "booking_id", b.ID, "err", err)
	}
}

func (h *Handler) purgeMenu(ctx context.Context) {
	if h.Pages == nil {
		return
	}
	if err := h.Pages.Purge(ctx, MenuCacheNamespace); err != nil {
		h.logger().Warn("menu cache purge failed", "err", err)
	}
}

// statusResponse is the reply to a programmatic submission.
type statusResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var (
	successResponse  = statusResponse{Status: "success"}
	internalResponse = statusResponse{Status: "error", Message: "internal server error"}
)
