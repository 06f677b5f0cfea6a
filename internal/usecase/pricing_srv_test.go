package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPricingService(repo *mockPricingRepo) PricingService {
	return NewPricingService(&repository.Repository{Pricing: repo}, testConfig(), zap.NewNop())
}

func int64p(v int64) *int64 { return &v }

func seatMods(mods ...request.SeatTypeModifierRequest) *[]request.SeatTypeModifierRequest {
	return &mods
}

func roomMods(mods ...request.RoomTypeModifierRequest) *[]request.RoomTypeModifierRequest {
	return &mods
}

func dayMods(mods ...request.DayOfWeekModifierRequest) *[]request.DayOfWeekModifierRequest {
	return &mods
}

func timeMods(mods ...request.TimeRangeModifierRequest) *[]request.TimeRangeModifierRequest {
	return &mods
}

func TestUpsertPricingConfig_Bootstrap(t *testing.T) {
	repo := &mockPricingRepo{}
	svc := newPricingService(repo)

	resp, err := svc.UpsertPricingConfig(context.Background(), &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), resp.BasePrice)
	require.NotNil(t, repo.config)
	assert.EqualValues(t, entity.PricingConfigID, repo.config.ID)
}

func TestUpsertPricingConfig_RequiresBasePriceOnFirstWrite(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})

	_, err := svc.UpsertPricingConfig(context.Background(), &request.UpsertPricingRequest{
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000}),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_price is required")
}

func TestUpsertPricingConfig_NothingToUpdate(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})

	_, err := svc.UpsertPricingConfig(context.Background(), &request.UpsertPricingRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestUpsertPricingConfig_MergeSemantics(t *testing.T) {
	repo := &mockPricingRepo{}
	svc := newPricingService(repo)
	ctx := context.Background()

	_, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000}),
			RoomType: roomMods(request.RoomTypeModifierRequest{RoomType: "IMAX", Delta: 40000}),
		},
	})
	require.NoError(t, err)

	// Base-only update keeps every modifier category
	resp, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{BasePrice: int64p(90000)})
	require.NoError(t, err)
	assert.Equal(t, int64(90000), resp.BasePrice)
	assert.Len(t, resp.Modifiers.SeatType, 1)
	assert.Len(t, resp.Modifiers.RoomType, 1)

	// Replacing one category leaves the others alone; an empty list clears
	empty := []request.RoomTypeModifierRequest{}
	resp, err = svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		Modifiers: &request.ModifiersRequest{RoomType: &empty},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(90000), resp.BasePrice)
	assert.Len(t, resp.Modifiers.SeatType, 1)
	assert.Empty(t, resp.Modifiers.RoomType)
}

func TestUpsertPricingConfig_EnvelopeBounds(t *testing.T) {
	repo := &mockPricingRepo{}
	svc := newPricingService(repo)
	ctx := context.Background()

	// base 100000 + VIP 50000: worst case 150000, inside the 200000 cap
	_, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000}),
		},
	})
	require.NoError(t, err)

	// Adding IMAX +60000 pushes the worst case to 210000
	_, err = svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		Modifiers: &request.ModifiersRequest{
			RoomType: roomMods(request.RoomTypeModifierRequest{RoomType: "IMAX", Delta: 60000}),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worst-case total price 210000 exceeds maximum 200000")

	// The rejected write must not touch the stored config
	assert.Empty(t, repo.config.Modifiers.RoomType)

	// Negative deltas check against the floor: 100000 - 80000 = 20000 < 30000
	_, err = svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		Modifiers: &request.ModifiersRequest{
			DayOfWeek: dayMods(request.DayOfWeekModifierRequest{Days: []int{1, 2}, Delta: -80000}),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum")
}

func TestUpsertPricingConfig_DeltaRange(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})

	_, err := svc.UpsertPricingConfig(context.Background(), &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 150000}),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestUpsertPricingConfig_DuplicateDiscriminants(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})
	ctx := context.Background()

	_, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(
				request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000},
				request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 20000},
			),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate seat type VIP")

	// Tuesday claimed by two day_of_week modifiers
	_, err = svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			DayOfWeek: dayMods(
				request.DayOfWeekModifierRequest{Days: []int{1, 2}, Delta: 10000},
				request.DayOfWeekModifierRequest{Days: []int{2, 3}, Delta: 20000},
			),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one day_of_week modifier")
}

func TestUpsertPricingConfig_TimeRangeValidation(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})
	ctx := context.Background()

	upsert := func(mods ...request.TimeRangeModifierRequest) error {
		_, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
			BasePrice: int64p(100000),
			Modifiers: &request.ModifiersRequest{TimeRange: timeMods(mods...)},
		})
		return err
	}

	// [08:00, 12:00) and [11:00, 14:00) overlap
	err := upsert(
		request.TimeRangeModifierRequest{Start: "08:00", End: "12:00", Delta: 10000},
		request.TimeRangeModifierRequest{Start: "11:00", End: "14:00", Delta: 20000},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time ranges overlap")

	// [22:00, 02:00) wraps; [01:00, 03:00) collides with its morning segment
	err = upsert(
		request.TimeRangeModifierRequest{Start: "22:00", End: "02:00", Delta: 10000},
		request.TimeRangeModifierRequest{Start: "01:00", End: "03:00", Delta: 20000},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time ranges overlap")

	// Touching windows are fine
	err = upsert(
		request.TimeRangeModifierRequest{Start: "08:00", End: "12:00", Delta: 10000},
		request.TimeRangeModifierRequest{Start: "12:00", End: "14:00", Delta: 20000},
	)
	require.NoError(t, err)

	// Degenerate window
	err = upsert(request.TimeRangeModifierRequest{Start: "10:00", End: "10:00", Delta: 10000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty after rounding")

	// Malformed boundary
	err = upsert(request.TimeRangeModifierRequest{Start: "25:00", End: "10:00", Delta: 10000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time range start")
}

func TestUpsertPricingConfig_TimeRangeGridRounding(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})

	// 08:02 rounds down to 08:00 and 09:58 up to 10:00, so a window starting
	// at 09:59 now collides.
	_, err := svc.UpsertPricingConfig(context.Background(), &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			TimeRange: timeMods(
				request.TimeRangeModifierRequest{Start: "08:02", End: "09:58", Delta: 10000},
				request.TimeRangeModifierRequest{Start: "09:59", End: "11:00", Delta: 20000},
			),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time ranges overlap")
}

func TestGetSeatTypePrices_Resolution(t *testing.T) {
	repo := &mockPricingRepo{}
	svc := newPricingService(repo)
	ctx := context.Background()

	_, err := svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{
		BasePrice: int64p(100000),
		Modifiers: &request.ModifiersRequest{
			SeatType: seatMods(
				request.SeatTypeModifierRequest{SeatType: "VIP", Delta: 50000},
				request.SeatTypeModifierRequest{SeatType: "COUPLE", Delta: 30000},
			),
			RoomType: roomMods(request.RoomTypeModifierRequest{RoomType: "IMAX", Delta: 20000}),
			DayOfWeek: dayMods(
				// Saturday and Sunday
				request.DayOfWeekModifierRequest{Days: []int{0, 6}, Delta: 15000},
			),
			TimeRange: timeMods(
				request.TimeRangeModifierRequest{Start: "18:00", End: "22:00", Delta: 10000},
			),
		},
	})
	require.NoError(t, err)

	// Wednesday 14:00 in a 2D room: base price only, plus the seat delta
	wednesday := time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC)
	resp, err := svc.GetSeatTypePrices(ctx, "2D", wednesday)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), resp.Prices[entity.SeatTypeNormal])
	assert.Equal(t, int64(150000), resp.Prices[entity.SeatTypeVIP])
	assert.Equal(t, int64(130000), resp.Prices[entity.SeatTypeCouple])
	assert.Len(t, resp.Prices, len(entity.AllSeatTypes))

	// Saturday 19:00 IMAX stacks room, day and time deltas for every seat type
	saturday := time.Date(2025, 1, 11, 19, 0, 0, 0, time.UTC)
	resp, err = svc.GetSeatTypePrices(ctx, "IMAX", saturday)
	require.NoError(t, err)
	assert.Equal(t, int64(145000), resp.Prices[entity.SeatTypeNormal])
	// 100000 + 20000 + 15000 + 10000 + 50000 = 195000
	assert.Equal(t, int64(195000), resp.Prices[entity.SeatTypeVIP])
}

func TestGetSeatTypePrices_WrapWindowAndClamp(t *testing.T) {
	// Seed the stored config directly: a -75000 late-night delta on a 100000
	// base would never pass the envelope check, which is exactly the kind of
	// stale data the resolver's clamp exists for.
	repo := &mockPricingRepo{
		config: &entity.PricingConfig{
			ID:        entity.PricingConfigID,
			BasePrice: 100000,
			Modifiers: entity.Modifiers{
				TimeRange: []entity.TimeRangeModifier{
					{Start: "22:00", End: "02:00", Delta: -75000},
				},
			},
		},
	}
	svc := newPricingService(repo)
	ctx := context.Background()

	// 01:30 falls in the morning segment of the wrapped window; the raw total
	// 25000 clamps up to the 30000 floor.
	lateNight := time.Date(2025, 1, 8, 1, 30, 0, 0, time.UTC)
	resp, err := svc.GetSeatTypePrices(ctx, "2D", lateNight)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.Prices[entity.SeatTypeNormal])

	// 02:00 is the exclusive end of the window
	resp, err = svc.GetSeatTypePrices(ctx, "2D", time.Date(2025, 1, 8, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(100000), resp.Prices[entity.SeatTypeNormal])
}

func TestGetSeatTypePrices_Errors(t *testing.T) {
	svc := newPricingService(&mockPricingRepo{})
	ctx := context.Background()
	at := time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC)

	_, err := svc.GetSeatTypePrices(ctx, "5D", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid room type")

	_, err = svc.GetSeatTypePrices(ctx, "2D", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetPricingConfig(t *testing.T) {
	repo := &mockPricingRepo{}
	svc := newPricingService(repo)
	ctx := context.Background()

	_, err := svc.GetPricingConfig(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = svc.UpsertPricingConfig(ctx, &request.UpsertPricingRequest{BasePrice: int64p(100000)})
	require.NoError(t, err)

	resp, err := svc.GetPricingConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), resp.BasePrice)
}
