package repository

import (
	"context"
	"fmt"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Room, error)
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

func (r *roomRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Room, error) {
	query := `
		SELECT id, theater_id, room_name, room_type, created_at, updated_at
		FROM rooms
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find rooms by IDs",
			zap.Error(err),
			zap.Int("id_count", len(ids)),
		)
		return nil, fmt.Errorf("find rooms by IDs: %w", err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		var room entity.Room
		err := rows.Scan(
			&room.ID,
			&room.TheaterID,
			&room.RoomName,
			&room.RoomType,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, nil
}
