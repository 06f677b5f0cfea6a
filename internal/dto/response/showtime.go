package response

import (
	"time"

	"cinema-showtimes/internal/data/entity"
)

type ShowtimeResponse struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	TheaterID string    `json:"theater_id"`
	RoomID    string    `json:"room_id"`
	RoomType  string    `json:"room_type"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ShowtimeToResponse(st *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        st.ID.String(),
		MovieID:   st.MovieID.String(),
		TheaterID: st.TheaterID.String(),
		RoomID:    st.RoomID.String(),
		RoomType:  string(st.RoomType),
		StartAt:   st.StartAt,
		EndAt:     st.EndAt,
		IsActive:  st.IsActive,
		CreatedAt: st.CreatedAt,
	}
}

// ShowtimeSlotResponse is a materialized slot from a validate-only run.
// No id: nothing has been persisted.
type ShowtimeSlotResponse struct {
	RoomID   string    `json:"room_id"`
	RoomType string    `json:"room_type"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

func ShowtimeToSlotResponse(st *entity.Showtime) ShowtimeSlotResponse {
	return ShowtimeSlotResponse{
		RoomID:   st.RoomID.String(),
		RoomType: string(st.RoomType),
		StartAt:  st.StartAt,
		EndAt:    st.EndAt,
	}
}
