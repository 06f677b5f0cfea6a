package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/internal/dto/request"
	"cinema-showtimes/internal/dto/response"
	"cinema-showtimes/pkg/utils"

	"go.uber.org/zap"
)

// Modifier time-range boundaries snap to a fixed 5-minute grid so that
// rounding can never open gaps between adjacent windows.
const modifierGridMinutes = 5

type PricingService interface {
	GetPricingConfig(ctx context.Context) (*response.PricingConfigResponse, error)
	UpsertPricingConfig(ctx context.Context, req *request.UpsertPricingRequest) (*response.PricingConfigResponse, error)
	GetSeatTypePrices(ctx context.Context, roomType string, effectiveAt time.Time) (*response.SeatTypePricesResponse, error)
}

type pricingService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewPricingService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PricingService {
	return &pricingService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) GetPricingConfig(ctx context.Context) (*response.PricingConfigResponse, error) {
	config, err := s.repo.Pricing.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pricing config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("pricing config not found")
	}

	resp := response.PricingConfigToResponse(config)
	return &resp, nil
}

func (s *pricingService) UpsertPricingConfig(ctx context.Context, req *request.UpsertPricingRequest) (*response.PricingConfigResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Upsert pricing validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.BasePrice == nil && req.Modifiers == nil {
		return nil, fmt.Errorf("validation failed: nothing to update")
	}

	existing, err := s.repo.Pricing.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pricing config: %w", err)
	}
	if existing == nil && req.BasePrice == nil {
		return nil, fmt.Errorf("validation failed: base_price is required when creating the pricing config")
	}

	merged := mergeConfig(existing, req)

	// Each category validates independently; the first violation wins.
	if err := s.validateSeatTypeModifiers(merged.Modifiers.SeatType); err != nil {
		return nil, err
	}
	if err := s.validateRoomTypeModifiers(merged.Modifiers.RoomType); err != nil {
		return nil, err
	}
	if err := s.validateDayOfWeekModifiers(merged.Modifiers.DayOfWeek); err != nil {
		return nil, err
	}
	if err := s.validateTimeRangeModifiers(merged.Modifiers.TimeRange); err != nil {
		return nil, err
	}

	if err := s.assertTotalPriceWithinLimit(merged); err != nil {
		return nil, err
	}

	now := time.Now()
	merged.UpdatedAt = now
	if existing != nil {
		merged.CreatedAt = existing.CreatedAt
	} else {
		merged.CreatedAt = now
	}

	if err := s.repo.Pricing.Upsert(ctx, merged); err != nil {
		return nil, fmt.Errorf("upsert pricing config: %w", err)
	}

	s.log.Info("Pricing config updated",
		zap.Int64("base_price", merged.BasePrice),
		zap.Int("seat_type_modifiers", len(merged.Modifiers.SeatType)),
		zap.Int("room_type_modifiers", len(merged.Modifiers.RoomType)),
		zap.Int("day_of_week_modifiers", len(merged.Modifiers.DayOfWeek)),
		zap.Int("time_range_modifiers", len(merged.Modifiers.TimeRange)),
	)

	resp := response.PricingConfigToResponse(merged)
	return &resp, nil
}

// mergeConfig lays the supplied fields over the existing document. A category
// omitted from the request keeps its previous value; a supplied category
// replaces it wholesale.
func mergeConfig(existing *entity.PricingConfig, req *request.UpsertPricingRequest) *entity.PricingConfig {
	merged := &entity.PricingConfig{ID: entity.PricingConfigID}

	if req.BasePrice != nil {
		merged.BasePrice = *req.BasePrice
	} else {
		merged.BasePrice = existing.BasePrice
	}

	var prev entity.Modifiers
	if existing != nil {
		prev = existing.Modifiers
	}

	merged.Modifiers.SeatType = prev.SeatType
	merged.Modifiers.RoomType = prev.RoomType
	merged.Modifiers.DayOfWeek = prev.DayOfWeek
	merged.Modifiers.TimeRange = prev.TimeRange

	if req.Modifiers == nil {
		return merged
	}

	if req.Modifiers.SeatType != nil {
		merged.Modifiers.SeatType = make([]entity.SeatTypeModifier, len(*req.Modifiers.SeatType))
		for i, m := range *req.Modifiers.SeatType {
			merged.Modifiers.SeatType[i] = entity.SeatTypeModifier{
				SeatType: entity.SeatType(m.SeatType),
				Delta:    m.Delta,
			}
		}
	}
	if req.Modifiers.RoomType != nil {
		merged.Modifiers.RoomType = make([]entity.RoomTypeModifier, len(*req.Modifiers.RoomType))
		for i, m := range *req.Modifiers.RoomType {
			merged.Modifiers.RoomType[i] = entity.RoomTypeModifier{
				RoomType: entity.RoomType(m.RoomType),
				Delta:    m.Delta,
			}
		}
	}
	if req.Modifiers.DayOfWeek != nil {
		merged.Modifiers.DayOfWeek = make([]entity.DayOfWeekModifier, len(*req.Modifiers.DayOfWeek))
		for i, m := range *req.Modifiers.DayOfWeek {
			days := make([]time.Weekday, len(m.Days))
			for j, d := range m.Days {
				days[j] = time.Weekday(d)
			}
			merged.Modifiers.DayOfWeek[i] = entity.DayOfWeekModifier{
				Days:  days,
				Delta: m.Delta,
			}
		}
	}
	if req.Modifiers.TimeRange != nil {
		merged.Modifiers.TimeRange = make([]entity.TimeRangeModifier, len(*req.Modifiers.TimeRange))
		for i, m := range *req.Modifiers.TimeRange {
			merged.Modifiers.TimeRange[i] = entity.TimeRangeModifier{
				Start: m.Start,
				End:   m.End,
				Delta: m.Delta,
			}
		}
	}

	return merged
}

func (s *pricingService) checkDelta(category string, delta int64) error {
	if delta < s.config.Pricing.DeltaMin || delta > s.config.Pricing.DeltaMax {
		return fmt.Errorf("validation failed: %s modifier delta %d out of range [%d, %d]",
			category, delta, s.config.Pricing.DeltaMin, s.config.Pricing.DeltaMax)
	}
	return nil
}

func (s *pricingService) validateSeatTypeModifiers(mods []entity.SeatTypeModifier) error {
	seen := make(map[entity.SeatType]bool, len(mods))
	for _, m := range mods {
		if seen[m.SeatType] {
			return fmt.Errorf("validation failed: duplicate seat type %s in seat_type modifiers", m.SeatType)
		}
		seen[m.SeatType] = true
		if err := s.checkDelta("seat_type", m.Delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *pricingService) validateRoomTypeModifiers(mods []entity.RoomTypeModifier) error {
	seen := make(map[entity.RoomType]bool, len(mods))
	for _, m := range mods {
		if seen[m.RoomType] {
			return fmt.Errorf("validation failed: duplicate room type %s in room_type modifiers", m.RoomType)
		}
		seen[m.RoomType] = true
		if err := s.checkDelta("room_type", m.Delta); err != nil {
			return err
		}
	}
	return nil
}

// validateDayOfWeekModifiers rejects a day claimed by more than one modifier.
func (s *pricingService) validateDayOfWeekModifiers(mods []entity.DayOfWeekModifier) error {
	seen := make(map[time.Weekday]bool, 7)
	for _, m := range mods {
		for _, day := range m.Days {
			if day < time.Sunday || day > time.Saturday {
				return fmt.Errorf("validation failed: invalid day of week %d", day)
			}
			if seen[day] {
				return fmt.Errorf("validation failed: day %s appears in more than one day_of_week modifier", day)
			}
			seen[day] = true
		}
		if err := s.checkDelta("day_of_week", m.Delta); err != nil {
			return err
		}
	}
	return nil
}

// minuteRange is a normalized half-open daily window in minutes of day.
type minuteRange struct {
	start, end int
}

// validateTimeRangeModifiers snaps every window to the 5-minute grid
// (start down, end up), splits midnight-wrapping windows into two segments
// and rejects any overlap between the resulting segments.
func (s *pricingService) validateTimeRangeModifiers(mods []entity.TimeRangeModifier) error {
	var segments []minuteRange

	for _, m := range mods {
		if !utils.IsValidHHmm(m.Start) {
			return fmt.Errorf("validation failed: invalid time range start %q, expected HH:mm", m.Start)
		}
		if !utils.IsValidHHmm(m.End) {
			return fmt.Errorf("validation failed: invalid time range end %q, expected HH:mm", m.End)
		}

		start, _ := utils.ToMinutes(m.Start)
		end, _ := utils.ToMinutes(m.End)
		start = utils.RoundDownMinutes(start, modifierGridMinutes)
		end = utils.RoundUpMinutes(end, modifierGridMinutes)

		if start == end {
			return fmt.Errorf("validation failed: time range %s-%s is empty after rounding", m.Start, m.End)
		}
		if err := s.checkDelta("time_range", m.Delta); err != nil {
			return err
		}

		if start < end {
			segments = append(segments, minuteRange{start, end})
		} else {
			// Midnight wrap: [start, 24:00) plus [00:00, end).
			segments = append(segments, minuteRange{start, utils.MinutesPerDay})
			if end > 0 {
				segments = append(segments, minuteRange{0, end})
			}
		}
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].start < segments[j].start
	})
	for i := 1; i < len(segments); i++ {
		if segments[i].start < segments[i-1].end {
			return fmt.Errorf("validation failed: daily time ranges overlap after normalization")
		}
	}

	return nil
}

// assertTotalPriceWithinLimit bound-checks the merged config with a
// worst/best-case envelope: assume the single largest (or smallest) modifier
// of every independent category applies at once. No combination the resolver
// can produce escapes bounds that this envelope satisfies.
func (s *pricingService) assertTotalPriceWithinLimit(config *entity.PricingConfig) error {
	var maxSeat, minSeat, maxRoom, minRoom, maxDay, minDay, maxTime, minTime int64

	for _, m := range config.Modifiers.SeatType {
		maxSeat = max(maxSeat, m.Delta)
		minSeat = min(minSeat, m.Delta)
	}
	for _, m := range config.Modifiers.RoomType {
		maxRoom = max(maxRoom, m.Delta)
		minRoom = min(minRoom, m.Delta)
	}
	for _, m := range config.Modifiers.DayOfWeek {
		maxDay = max(maxDay, m.Delta)
		minDay = min(minDay, m.Delta)
	}
	for _, m := range config.Modifiers.TimeRange {
		maxTime = max(maxTime, m.Delta)
		minTime = min(minTime, m.Delta)
	}

	worst := config.BasePrice + maxSeat + maxRoom + maxDay + maxTime
	best := config.BasePrice + minSeat + minRoom + minDay + minTime

	if worst > s.config.Pricing.TotalMax {
		return fmt.Errorf("validation failed: worst-case total price %d exceeds maximum %d",
			worst, s.config.Pricing.TotalMax)
	}
	if best < s.config.Pricing.TotalMin {
		return fmt.Errorf("validation failed: best-case total price %d is below minimum %d",
			best, s.config.Pricing.TotalMin)
	}

	return nil
}

// GetSeatTypePrices resolves a concrete price per seat type for one
// (room type, instant) pair. At most one modifier applies per category;
// first match wins when the stored data is inconsistent.
func (s *pricingService) GetSeatTypePrices(ctx context.Context, roomType string, effectiveAt time.Time) (*response.SeatTypePricesResponse, error) {
	rt := entity.RoomType(roomType)
	switch rt {
	case entity.RoomType2D, entity.RoomType3D, entity.RoomTypeIMAX, entity.RoomType4DX:
	default:
		return nil, fmt.Errorf("invalid room type %s", roomType)
	}

	config, err := s.repo.Pricing.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pricing config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("pricing config not found")
	}

	day := effectiveAt.Weekday()
	minute := utils.MinuteOfDay(effectiveAt)

	var baseDelta int64
	for _, m := range config.Modifiers.RoomType {
		if m.RoomType == rt {
			baseDelta += m.Delta
			break
		}
	}
	for _, m := range config.Modifiers.DayOfWeek {
		if containsDay(m.Days, day) {
			baseDelta += m.Delta
			break
		}
	}
	for _, m := range config.Modifiers.TimeRange {
		start, err := utils.ToMinutes(m.Start)
		if err != nil {
			continue
		}
		end, err := utils.ToMinutes(m.End)
		if err != nil {
			continue
		}
		if utils.InWindow(minute, start, end) {
			baseDelta += m.Delta
			break
		}
	}

	prices := make(map[entity.SeatType]int64, len(entity.AllSeatTypes))
	for _, st := range entity.AllSeatTypes {
		var seatDelta int64
		for _, m := range config.Modifiers.SeatType {
			if m.SeatType == st {
				seatDelta = m.Delta
				break
			}
		}
		prices[st] = s.clampTotal(config.BasePrice + baseDelta + seatDelta)
	}

	return &response.SeatTypePricesResponse{
		RoomType:    roomType,
		EffectiveAt: effectiveAt,
		Prices:      prices,
	}, nil
}

func (s *pricingService) clampTotal(price int64) int64 {
	if price < s.config.Pricing.TotalMin {
		return s.config.Pricing.TotalMin
	}
	if price > s.config.Pricing.TotalMax {
		return s.config.Pricing.TotalMax
	}
	return price
}

func containsDay(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
