package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ShowtimeFilter narrows listing queries. Nil fields are ignored.
type ShowtimeFilter struct {
	MovieID   *uuid.UUID
	TheaterID *uuid.UUID
	RoomID    *uuid.UUID
	IsActive  *bool
	From      *time.Time
	To        *time.Time
	SortDesc  bool
}

// ConflictWindow describes the envelope of a candidate batch. The query
// returns active showtimes intersecting [StartAt, EndAt) that either occupy
// one of the batch's rooms or match (movie, theater, room type); the second
// clause catches same-movie slots in same-type rooms elsewhere.
type ConflictWindow struct {
	StartAt   time.Time
	EndAt     time.Time
	RoomIDs   []uuid.UUID
	MovieID   uuid.UUID
	TheaterID uuid.UUID
	RoomTypes []entity.RoomType
}

type ShowtimeRepository interface {
	InsertMany(ctx context.Context, showtimes []*entity.Showtime) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindConflicting(ctx context.Context, window ConflictWindow) ([]*entity.Showtime, error)
	List(ctx context.Context, filter ShowtimeFilter, limit, offset int) ([]*entity.Showtime, error)
	Count(ctx context.Context, filter ShowtimeFilter) (int64, error)
	FindExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ErrDuplicateSlot surfaces a unique-index violation on insert. It is the
// storage-level backstop for the read-then-write gap in the scheduler.
var ErrDuplicateSlot = errors.New("showtime slot conflicts with an existing showtime")

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `id, movie_id, theater_id, room_id, room_type, start_at, end_at, is_active, created_at, updated_at`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var st entity.Showtime
	err := row.Scan(
		&st.ID,
		&st.MovieID,
		&st.TheaterID,
		&st.RoomID,
		&st.RoomType,
		&st.StartAt,
		&st.EndAt,
		&st.IsActive,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *showtimeRepository) InsertMany(ctx context.Context, showtimes []*entity.Showtime) (int64, error) {
	query := `
		INSERT INTO showtimes (id, movie_id, theater_id, room_id, room_type, start_at, end_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, st := range showtimes {
		batch.Queue(query,
			st.ID,
			st.MovieID,
			st.TheaterID,
			st.RoomID,
			st.RoomType,
			st.StartAt,
			st.EndAt,
			st.IsActive,
			st.CreatedAt,
			st.UpdatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := range showtimes {
		tag, err := results.Exec()
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				r.log.Warn("Unique index rejected showtime insert",
					zap.Error(err),
					zap.String("room_id", showtimes[i].RoomID.String()),
					zap.Time("start_at", showtimes[i].StartAt),
				)
				return inserted, fmt.Errorf("insert showtime in room %s at %s: %w",
					showtimes[i].RoomID.String(),
					showtimes[i].StartAt.Format(time.RFC3339),
					ErrDuplicateSlot)
			}
			r.log.Error("Failed to insert showtime",
				zap.Error(err),
				zap.String("room_id", showtimes[i].RoomID.String()),
			)
			return inserted, fmt.Errorf("insert showtime in room %s: %w",
				showtimes[i].RoomID.String(), err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	st, err := scanShowtime(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return st, nil
}

func (r *showtimeRepository) FindConflicting(ctx context.Context, window ConflictWindow) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE is_active = TRUE
		  AND start_at < $1 AND end_at > $2
		  AND (room_id = ANY($3) OR (movie_id = $4 AND theater_id = $5 AND room_type = ANY($6)))
		ORDER BY start_at
	`

	roomTypes := make([]string, len(window.RoomTypes))
	for i, rt := range window.RoomTypes {
		roomTypes[i] = string(rt)
	}

	rows, err := r.db.Query(ctx, query,
		window.EndAt,
		window.StartAt,
		window.RoomIDs,
		window.MovieID,
		window.TheaterID,
		roomTypes,
	)
	if err != nil {
		r.log.Error("Failed to find conflicting showtimes",
			zap.Error(err),
			zap.Time("window_start", window.StartAt),
			zap.Time("window_end", window.EndAt),
		)
		return nil, fmt.Errorf("find conflicting showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, st)
	}

	return showtimes, nil
}

// buildFilter renders the WHERE clause for List/Count from non-nil fields.
func buildFilter(filter ShowtimeFilter) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.MovieID != nil {
		add("movie_id = $%d", *filter.MovieID)
	}
	if filter.TheaterID != nil {
		add("theater_id = $%d", *filter.TheaterID)
	}
	if filter.RoomID != nil {
		add("room_id = $%d", *filter.RoomID)
	}
	if filter.IsActive != nil {
		add("is_active = $%d", *filter.IsActive)
	}
	if filter.From != nil {
		add("start_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("start_at < $%d", *filter.To)
	}

	return strings.Join(conditions, " AND "), args
}

func (r *showtimeRepository) List(ctx context.Context, filter ShowtimeFilter, limit, offset int) ([]*entity.Showtime, error) {
	where, args := buildFilter(filter)

	order := "start_at ASC"
	if filter.SortDesc {
		order = "start_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT `+showtimeColumns+`
		FROM showtimes
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, order, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list showtimes", zap.Error(err))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, st)
	}

	return showtimes, nil
}

func (r *showtimeRepository) Count(ctx context.Context, filter ShowtimeFilter) (int64, error) {
	where, args := buildFilter(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM showtimes WHERE %s`, where)

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err))
		return 0, fmt.Errorf("count showtimes: %w", err)
	}

	return count, nil
}

func (r *showtimeRepository) FindExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM showtimes WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find existing showtime IDs",
			zap.Error(err),
			zap.Int("id_count", len(ids)),
		)
		return nil, fmt.Errorf("find existing showtime IDs: %w", err)
	}
	defer rows.Close()

	var existing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan showtime ID", zap.Error(err))
			return nil, fmt.Errorf("scan showtime ID: %w", err)
		}
		existing = append(existing, id)
	}

	return existing, nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM showtimes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return 0, fmt.Errorf("delete showtime %s: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *showtimeRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := `DELETE FROM showtimes WHERE id = ANY($1)`

	result, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to delete showtimes",
			zap.Error(err),
			zap.Int("id_count", len(ids)),
		)
		return 0, fmt.Errorf("delete %d showtimes: %w", len(ids), err)
	}

	return result.RowsAffected(), nil
}
