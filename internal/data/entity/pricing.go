package entity

import (
	"time"
)

type SeatType string

const (
	SeatTypeNormal SeatType = "NORMAL"
	SeatTypeVIP    SeatType = "VIP"
	SeatTypeCouple SeatType = "COUPLE"
)

// AllSeatTypes is the fixed enum the price resolver answers for.
var AllSeatTypes = []SeatType{SeatTypeNormal, SeatTypeVIP, SeatTypeCouple}

// PricingConfigID is the well-known key of the singleton pricing row.
const PricingConfigID = 1

type SeatTypeModifier struct {
	SeatType SeatType `json:"seat_type"`
	Delta    int64    `json:"delta"`
}

type RoomTypeModifier struct {
	RoomType RoomType `json:"room_type"`
	Delta    int64    `json:"delta"`
}

// DayOfWeekModifier applies on every day in Days (time.Weekday, 0=Sunday).
type DayOfWeekModifier struct {
	Days  []time.Weekday `json:"days"`
	Delta int64          `json:"delta"`
}

// TimeRangeModifier applies inside the daily half-open window [Start, End).
// A window whose End is before Start wraps past midnight.
type TimeRangeModifier struct {
	Start string `json:"start"` // HH:mm
	End   string `json:"end"`   // HH:mm
	Delta int64  `json:"delta"`
}

// Modifiers groups the four independent delta lists. Stored as JSONB.
type Modifiers struct {
	SeatType  []SeatTypeModifier  `json:"seat_type"`
	RoomType  []RoomTypeModifier  `json:"room_type"`
	DayOfWeek []DayOfWeekModifier `json:"day_of_week"`
	TimeRange []TimeRangeModifier `json:"time_range"`
}

// PricingConfig is a singleton aggregate (single row, fixed id).
type PricingConfig struct {
	ID        int16     `db:"id"`
	BasePrice int64     `db:"base_price"`
	Modifiers Modifiers `db:"modifiers"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
