package usecase

import (
	"context"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/pkg/utils"

	"github.com/google/uuid"
)

// In-memory repository mocks. They implement the same contracts as the pgx
// repositories, including the conflict-window query semantics.

type mockMovieRepo struct {
	movies map[uuid.UUID]*entity.Movie
}

func newMockMovieRepo() *mockMovieRepo {
	return &mockMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)}
}

func (m *mockMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	return m.movies[id], nil
}

type mockRoomRepo struct {
	rooms map[uuid.UUID]*entity.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[uuid.UUID]*entity.Room)}
}

func (m *mockRoomRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Room, error) {
	var rooms []*entity.Room
	for _, id := range ids {
		if room := m.rooms[id]; room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

type mockTheaterRepo struct {
	theaters map[uuid.UUID]*entity.Theater
}

func newMockTheaterRepo() *mockTheaterRepo {
	return &mockTheaterRepo{theaters: make(map[uuid.UUID]*entity.Theater)}
}

func (m *mockTheaterRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	return m.theaters[id], nil
}

type mockShowtimeRepo struct {
	showtimes []*entity.Showtime

	insertErr   error
	insertShort bool // report one fewer inserted row than requested
}

func newMockShowtimeRepo() *mockShowtimeRepo {
	return &mockShowtimeRepo{}
}

func (m *mockShowtimeRepo) InsertMany(ctx context.Context, showtimes []*entity.Showtime) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.showtimes = append(m.showtimes, showtimes...)
	inserted := int64(len(showtimes))
	if m.insertShort {
		inserted--
	}
	return inserted, nil
}

func (m *mockShowtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	for _, st := range m.showtimes {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, nil
}

func (m *mockShowtimeRepo) FindConflicting(ctx context.Context, window repository.ConflictWindow) ([]*entity.Showtime, error) {
	inRooms := make(map[uuid.UUID]bool, len(window.RoomIDs))
	for _, id := range window.RoomIDs {
		inRooms[id] = true
	}
	inTypes := make(map[entity.RoomType]bool, len(window.RoomTypes))
	for _, rt := range window.RoomTypes {
		inTypes[rt] = true
	}

	var matches []*entity.Showtime
	for _, st := range m.showtimes {
		if !st.IsActive || !st.Overlaps(window.StartAt, window.EndAt) {
			continue
		}
		sameMovieSlot := st.MovieID == window.MovieID &&
			st.TheaterID == window.TheaterID && inTypes[st.RoomType]
		if inRooms[st.RoomID] || sameMovieSlot {
			matches = append(matches, st)
		}
	}
	return matches, nil
}

func (m *mockShowtimeRepo) List(ctx context.Context, filter repository.ShowtimeFilter, limit, offset int) ([]*entity.Showtime, error) {
	return m.showtimes, nil
}

func (m *mockShowtimeRepo) Count(ctx context.Context, filter repository.ShowtimeFilter) (int64, error) {
	return int64(len(m.showtimes)), nil
}

func (m *mockShowtimeRepo) FindExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var existing []uuid.UUID
	for _, id := range ids {
		for _, st := range m.showtimes {
			if st.ID == id {
				existing = append(existing, id)
				break
			}
		}
	}
	return existing, nil
}

func (m *mockShowtimeRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	for i, st := range m.showtimes {
		if st.ID == id {
			m.showtimes = append(m.showtimes[:i], m.showtimes[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockShowtimeRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		n, _ := m.Delete(ctx, id)
		deleted += n
	}
	return deleted, nil
}

type mockPricingRepo struct {
	config *entity.PricingConfig
}

func (m *mockPricingRepo) Get(ctx context.Context) (*entity.PricingConfig, error) {
	return m.config, nil
}

func (m *mockPricingRepo) Upsert(ctx context.Context, config *entity.PricingConfig) error {
	m.config = config
	return nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		Schedule: utils.ScheduleConfig{
			GapMinutes:       10,
			RoundStepMinutes: 5,
		},
		Pricing: utils.PricingConfig{
			TotalMin: 30000,
			TotalMax: 200000,
			DeltaMin: -100000,
			DeltaMax: 100000,
		},
	}
}
