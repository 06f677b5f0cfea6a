// internal/wire/wire.go
package wire

import (
	"net/http"

	"cinema-showtimes/internal/adaptor"
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/internal/usecase"
	"cinema-showtimes/pkg/middleware"
	"cinema-showtimes/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Public routes
	r.Get("/api/showtimes", handler.Showtime.GetShowtimes)
	r.Get("/api/showtimes/{id}", handler.Showtime.GetShowtimeByID)
	r.Get("/api/pricing/quote", handler.Pricing.GetSeatTypePrices)

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/showtimes", handler.Showtime.CreateShowtime)
		r.Post("/showtimes/validate", handler.Showtime.ValidateShowtime)
		r.Post("/showtimes/bulk", handler.Showtime.CreateShowtimes)
		r.Post("/showtimes/bulk/validate", handler.Showtime.ValidateShowtimes)
		r.Delete("/showtimes", handler.Showtime.DeleteShowtimes)
		r.Delete("/showtimes/{id}", handler.Showtime.DeleteShowtime)

		r.Get("/pricing", handler.Pricing.GetPricingConfig)
		r.Put("/pricing", handler.Pricing.UpsertPricingConfig)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
