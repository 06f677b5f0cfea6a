package request

type SeatTypeModifierRequest struct {
	SeatType string `json:"seat_type" validate:"required,oneof=NORMAL VIP COUPLE"`
	Delta    int64  `json:"delta"`
}

type RoomTypeModifierRequest struct {
	RoomType string `json:"room_type" validate:"required,oneof=2D 3D IMAX 4DX"`
	Delta    int64  `json:"delta"`
}

type DayOfWeekModifierRequest struct {
	// Days are time.Weekday values, 0=Sunday .. 6=Saturday.
	Days  []int `json:"days" validate:"required,min=1,dive,min=0,max=6"`
	Delta int64 `json:"delta"`
}

type TimeRangeModifierRequest struct {
	Start string `json:"start" validate:"required"` // HH:mm
	End   string `json:"end" validate:"required"`   // HH:mm
	Delta int64  `json:"delta"`
}

// ModifiersRequest uses pointer-to-slice per category so that an omitted
// category keeps its previous value while an empty list clears it.
type ModifiersRequest struct {
	SeatType  *[]SeatTypeModifierRequest  `json:"seat_type,omitempty" validate:"omitempty,dive"`
	RoomType  *[]RoomTypeModifierRequest  `json:"room_type,omitempty" validate:"omitempty,dive"`
	DayOfWeek *[]DayOfWeekModifierRequest `json:"day_of_week,omitempty" validate:"omitempty,dive"`
	TimeRange *[]TimeRangeModifierRequest `json:"time_range,omitempty" validate:"omitempty,dive"`
}

type UpsertPricingRequest struct {
	BasePrice *int64            `json:"base_price,omitempty" validate:"omitempty,min=0"`
	Modifiers *ModifiersRequest `json:"modifiers,omitempty"`
}
