package request

// ScheduleEntry names one room and the requested start instants for it.
// Start times are RFC3339 timestamps.
type ScheduleEntry struct {
	RoomID     string   `json:"room_id" validate:"required,uuid"`
	StartTimes []string `json:"start_times" validate:"required,min=1,dive,required"`
}

type CreateShowtimesRequest struct {
	MovieID   string          `json:"movie_id" validate:"required,uuid"`
	Schedules []ScheduleEntry `json:"schedules" validate:"required,min=1,dive"`
}

type CreateShowtimeRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid"`
	RoomID  string `json:"room_id" validate:"required,uuid"`
	StartAt string `json:"start_at" validate:"required"`
}

type DeleteShowtimesRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ShowtimeListRequest carries the optional listing filters. From/To are
// RFC3339 timestamps bounding start_at.
type ShowtimeListRequest struct {
	PaginatedRequest
	MovieID   string `json:"movie_id" validate:"omitempty,uuid"`
	TheaterID string `json:"theater_id" validate:"omitempty,uuid"`
	RoomID    string `json:"room_id" validate:"omitempty,uuid"`
	IsActive  *bool  `json:"is_active"`
	From      string `json:"from"`
	To        string `json:"to"`
	Sort      string `json:"sort" validate:"omitempty,oneof=asc desc"`
}
