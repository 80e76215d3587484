package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/router"
	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/view"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Run the website",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			bookings, menu, closeStore, err := openStores(cfg, migrateUp || cfg.MigrateOnStart)
			if err != nil {
				return err
			}
			defer closeStore()
			logger.Info("store ready", "driver", cfg.DBDriver)

			// Redis is optional: without it the menu is not cached and rate
			// limits are kept per process.
			rdb := config.NewRedisClient(config.LoadRedisConfig())
			if rdb == nil {
				logger.Warn("redis unavailable, response cache disabled")
			} else {
				defer rdb.Close()
			}
			cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

			var events service.Publisher = service.NopPublisher{}
			if cfg.EventsEnabled {
				events = service.NewAMQPPublisher(cfg.AMQPURL)
			}

			if cfg.CSRFKey == "" && cfg.IsProduction() {
				logger.Warn("CSRF_KEY is empty, form submissions are not CSRF protected")
			}

			renderer, err := view.New()
			if err != nil {
				return err
			}

			h := &handler.Handler{
				BookingRepo: bookings,
				MenuRepo:    menu,
				Events:      events,
				Pages:       cache,
				Flash:       handler.NewFlash([]byte(cfg.FlashKey), cfg.IsProduction()),
				Location:    cfg.Location(),
				Logger:      logger,
			}
			e := router.New(h, renderer, router.Options{
				Logger:    logger,
				Cache:     cache,
				RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
				CSRF:      middleware.CSRF([]byte(cfg.CSRFKey), cfg.IsProduction()),
			})
			return serve(ctx, e, ":"+cfg.Port, logger)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "run database migrations on startup")
	return cmd
}

// openStores returns the booking and menu stores for DB_DRIVER together with
// a function releasing them.
func openStores(cfg config.Config, migrateUp bool) (repository.BookingStore, repository.MenuStore, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		s := repository.NewMemoryStore()
		return s.Bookings(), s.Menu(), func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database: %w", err)
	}
	if migrateUp {
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}
	return repository.NewBookingRepo(db), repository.NewMenuRepo(db), func() { _ = db.Close() }, nil
}

// serve runs e on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func serve(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	e.Server.ReadHeaderTimeout = 10 * time.Second

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
