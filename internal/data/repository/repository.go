package repository

import (
	"cinema-showtimes/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie    MovieRepository
	Theater  TheaterRepository
	Room     RoomRepository
	Showtime ShowtimeRepository
	Pricing  PricingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:    NewMovieRepository(db, log),
		Theater:  NewTheaterRepository(db, log),
		Room:     NewRoomRepository(db, log),
		Showtime: NewShowtimeRepository(db, log),
		Pricing:  NewPricingRepository(db, log),
	}
}
