package usecase

import (
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Showtime ShowtimeService
	Pricing  PricingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Showtime: NewShowtimeService(repo, config, log),
		Pricing:  NewPricingService(repo, config, log),
	}
}
