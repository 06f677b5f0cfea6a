package response

import (
	"time"

	"cinema-showtimes/internal/data/entity"
)

type PricingConfigResponse struct {
	BasePrice int64            `json:"base_price"`
	Modifiers entity.Modifiers `json:"modifiers"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func PricingConfigToResponse(config *entity.PricingConfig) PricingConfigResponse {
	return PricingConfigResponse{
		BasePrice: config.BasePrice,
		Modifiers: config.Modifiers,
		UpdatedAt: config.UpdatedAt,
	}
}

// SeatTypePricesResponse quotes a price per seat type for one
// (room type, instant) pair.
type SeatTypePricesResponse struct {
	RoomType    string                    `json:"room_type"`
	EffectiveAt time.Time                 `json:"effective_at"`
	Prices      map[entity.SeatType]int64 `json:"prices"`
}
