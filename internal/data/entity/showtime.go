package entity

import (
	"time"

	"github.com/google/uuid"
)

// Showtime is one scheduled screening of a movie in a specific room.
// RoomType is a snapshot copied from the room at creation time; it is
// intentionally NOT kept in sync with later room edits so that quotes
// for already-sold tickets stay stable.
type Showtime struct {
	BaseNoDelete
	MovieID   uuid.UUID `db:"movie_id"`
	TheaterID uuid.UUID `db:"theater_id"`
	RoomID    uuid.UUID `db:"room_id"`
	RoomType  RoomType  `db:"room_type"`
	StartAt   time.Time `db:"start_at"`
	EndAt     time.Time `db:"end_at"`
	IsActive  bool      `db:"is_active"`
}

// Overlaps reports whether the showtime's half-open interval [StartAt, EndAt)
// intersects [startAt, endAt). Intervals that only touch do not overlap.
func (s *Showtime) Overlaps(startAt, endAt time.Time) bool {
	return s.StartAt.Before(endAt) && s.EndAt.After(startAt)
}
