package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PricingRepository interface {
	// Get returns the singleton config, or nil when it has never been written.
	Get(ctx context.Context) (*entity.PricingConfig, error)
	Upsert(ctx context.Context, config *entity.PricingConfig) error
}

type pricingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRepository(db database.PgxIface, log *zap.Logger) PricingRepository {
	return &pricingRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing")),
	}
}

func (r *pricingRepository) Get(ctx context.Context) (*entity.PricingConfig, error) {
	query := `
		SELECT id, base_price, modifiers, created_at, updated_at
		FROM pricing_configs
		WHERE id = $1
	`

	var config entity.PricingConfig
	var modifiersJSON []byte
	err := r.db.QueryRow(ctx, query, entity.PricingConfigID).Scan(
		&config.ID,
		&config.BasePrice,
		&modifiersJSON,
		&config.CreatedAt,
		&config.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get pricing config", zap.Error(err))
		return nil, fmt.Errorf("get pricing config: %w", err)
	}

	if err := json.Unmarshal(modifiersJSON, &config.Modifiers); err != nil {
		r.log.Error("Failed to decode pricing modifiers", zap.Error(err))
		return nil, fmt.Errorf("decode pricing modifiers: %w", err)
	}

	return &config, nil
}

func (r *pricingRepository) Upsert(ctx context.Context, config *entity.PricingConfig) error {
	query := `
		INSERT INTO pricing_configs (id, base_price, modifiers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET base_price = EXCLUDED.base_price,
		    modifiers = EXCLUDED.modifiers,
		    updated_at = EXCLUDED.updated_at
	`

	modifiersJSON, err := json.Marshal(config.Modifiers)
	if err != nil {
		return fmt.Errorf("encode pricing modifiers: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		entity.PricingConfigID,
		config.BasePrice,
		modifiersJSON,
		config.CreatedAt,
		config.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert pricing config",
			zap.Error(err),
			zap.Int64("base_price", config.BasePrice),
		)
		return fmt.Errorf("upsert pricing config: %w", err)
	}

	return nil
}
