package adaptor

import (
	"cinema-showtimes/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Showtime *ShowtimeHandler
	Pricing  *PricingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Showtime: NewShowtimeHandler(service.Showtime, log),
		Pricing:  NewPricingHandler(service.Pricing, log),
	}
}
