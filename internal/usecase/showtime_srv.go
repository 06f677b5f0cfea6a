package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cinema-showtimes/internal/data/entity"
	"cinema-showtimes/internal/data/repository"
	"cinema-showtimes/internal/dto/request"
	"cinema-showtimes/internal/dto/response"
	"cinema-showtimes/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	// Admin endpoints
	CreateShowtimes(ctx context.Context, req *request.CreateShowtimesRequest) ([]response.ShowtimeResponse, error)
	CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error)
	ValidateShowtimes(ctx context.Context, req *request.CreateShowtimesRequest) ([]response.ShowtimeSlotResponse, error)
	ValidateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) ([]response.ShowtimeSlotResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID string) error
	DeleteShowtimes(ctx context.Context, req *request.DeleteShowtimesRequest) error

	// Public endpoints
	GetShowtimes(ctx context.Context, req *request.ShowtimeListRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
}

type showtimeService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) CreateShowtimes(ctx context.Context, req *request.CreateShowtimesRequest) ([]response.ShowtimeResponse, error) {
	showtimes, err := s.buildShowtimes(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, showtimes); err != nil {
		return nil, err
	}

	s.log.Info("Showtimes created",
		zap.String("movie_id", req.MovieID),
		zap.Int("room_count", len(req.Schedules)),
		zap.Int("showtime_count", len(showtimes)),
	)

	responses := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		responses[i] = response.ShowtimeToResponse(st)
	}
	return responses, nil
}

// CreateShowtime wraps a single slot into a one-room batch so its guarantees
// are identical to the bulk path.
func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error) {
	created, err := s.CreateShowtimes(ctx, singleToBatch(req))
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// ValidateShowtimes runs the full scheduling pipeline without persisting and
// returns the slots that a create call would insert.
func (s *showtimeService) ValidateShowtimes(ctx context.Context, req *request.CreateShowtimesRequest) ([]response.ShowtimeSlotResponse, error) {
	showtimes, err := s.buildShowtimes(ctx, req)
	if err != nil {
		return nil, err
	}

	slots := make([]response.ShowtimeSlotResponse, len(showtimes))
	for i, st := range showtimes {
		slots[i] = response.ShowtimeToSlotResponse(st)
	}
	return slots, nil
}

func (s *showtimeService) ValidateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) ([]response.ShowtimeSlotResponse, error) {
	return s.ValidateShowtimes(ctx, singleToBatch(req))
}

func singleToBatch(req *request.CreateShowtimeRequest) *request.CreateShowtimesRequest {
	return &request.CreateShowtimesRequest{
		MovieID: req.MovieID,
		Schedules: []request.ScheduleEntry{
			{RoomID: req.RoomID, StartTimes: []string{req.StartAt}},
		},
	}
}

// buildShowtimes is the scheduling pipeline. Phases run in a fixed order so
// callers always see the first violation of: movie -> rooms -> intra-batch ->
// persisted state. Nothing is written here.
func (s *showtimeService) buildShowtimes(ctx context.Context, req *request.CreateShowtimesRequest) ([]*entity.Showtime, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showtimes validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Phase 1: movie
	movie, err := s.validateMovie(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	// Phase 2: rooms
	rooms, err := s.validateRooms(ctx, req.Schedules)
	if err != nil {
		return nil, err
	}

	// Phase 3: materialize ranges, reject overlaps within each room
	showtimes, err := s.materialize(req.Schedules, movie, rooms)
	if err != nil {
		return nil, err
	}

	// Phase 4: room-type uniqueness across the whole batch
	if err := checkBatchRoomTypeCollisions(showtimes); err != nil {
		return nil, err
	}

	// Phase 5: cross-check against persisted active showtimes
	if err := s.checkAgainstExisting(ctx, movie, showtimes); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (s *showtimeService) validateMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID format %s: %w", movieID, err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to look up movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("look up movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s not found", movieID)
	}

	if movie.DurationInMinutes <= 0 {
		return nil, fmt.Errorf("invalid movie %s: duration must be positive", movieID)
	}
	if movie.ReleaseDate.IsZero() {
		return nil, fmt.Errorf("invalid movie %s: release date is not set", movieID)
	}

	return movie, nil
}

// validateRooms resolves every scheduled room, rejecting duplicate rooms and
// batches that span more than one theater.
func (s *showtimeService) validateRooms(ctx context.Context, schedules []request.ScheduleEntry) (map[uuid.UUID]*entity.Room, error) {
	roomIDs := make([]uuid.UUID, 0, len(schedules))
	seen := make(map[uuid.UUID]bool, len(schedules))

	for _, entry := range schedules {
		id, err := uuid.Parse(entry.RoomID)
		if err != nil {
			return nil, fmt.Errorf("invalid room ID format %s: %w", entry.RoomID, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("invalid schedule: room %s appears more than once", entry.RoomID)
		}
		seen[id] = true
		roomIDs = append(roomIDs, id)
	}

	found, err := s.repo.Room.FindByIDs(ctx, roomIDs)
	if err != nil {
		s.log.Error("Failed to look up rooms", zap.Error(err), zap.Int("room_count", len(roomIDs)))
		return nil, fmt.Errorf("look up rooms: %w", err)
	}

	rooms := make(map[uuid.UUID]*entity.Room, len(found))
	for _, room := range found {
		rooms[room.ID] = room
	}
	for _, id := range roomIDs {
		if rooms[id] == nil {
			return nil, fmt.Errorf("room %s not found", id.String())
		}
	}

	// Cross-theater batches are ambiguous and not supported.
	theaterID := rooms[roomIDs[0]].TheaterID
	for _, id := range roomIDs[1:] {
		if rooms[id].TheaterID != theaterID {
			return nil, fmt.Errorf("invalid schedule: rooms %s and %s belong to different theaters",
				roomIDs[0].String(), id.String())
		}
	}

	// Rooms can outlive a soft-deleted theater; nothing is schedulable there.
	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		s.log.Error("Failed to look up theater", zap.Error(err), zap.String("theater_id", theaterID.String()))
		return nil, fmt.Errorf("look up theater %s: %w", theaterID.String(), err)
	}
	if theater == nil {
		return nil, fmt.Errorf("theater %s not found", theaterID.String())
	}

	return rooms, nil
}

// materialize turns each room's start-time list into concrete showtimes:
// starts snap up to the scheduling grid, ends add the movie duration plus the
// turnover gap. Slots within one room must not overlap.
func (s *showtimeService) materialize(schedules []request.ScheduleEntry, movie *entity.Movie, rooms map[uuid.UUID]*entity.Room) ([]*entity.Showtime, error) {
	runtime := time.Duration(movie.DurationInMinutes+s.config.Schedule.GapMinutes) * time.Minute
	now := time.Now()

	var all []*entity.Showtime
	for _, entry := range schedules {
		roomID := uuid.MustParse(entry.RoomID) // parsed in validateRooms
		room := rooms[roomID]

		starts := make([]time.Time, 0, len(entry.StartTimes))
		seen := make(map[int64]bool, len(entry.StartTimes))
		for _, raw := range entry.StartTimes {
			start, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("invalid start time %q for room %s: expected RFC3339", raw, entry.RoomID)
			}
			if seen[start.Unix()] {
				return nil, fmt.Errorf("invalid schedule: duplicate start time %s for room %s", raw, entry.RoomID)
			}
			seen[start.Unix()] = true
			starts = append(starts, start)
		}

		slots := make([]*entity.Showtime, len(starts))
		for i, start := range starts {
			startAt := utils.RoundUpTime(start, s.config.Schedule.RoundStepMinutes)
			slots[i] = &entity.Showtime{
				BaseNoDelete: entity.BaseNoDelete{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				MovieID:   movie.ID,
				TheaterID: room.TheaterID,
				RoomID:    room.ID,
				RoomType:  room.RoomType,
				StartAt:   startAt,
				EndAt:     startAt.Add(runtime),
				IsActive:  true,
			}
		}

		sort.Slice(slots, func(i, j int) bool {
			return slots[i].StartAt.Before(slots[j].StartAt)
		})
		for i := 1; i < len(slots); i++ {
			if slots[i-1].EndAt.After(slots[i].StartAt) {
				return nil, fmt.Errorf("schedule conflicts in room %s: showtime at %s overlaps the one ending %s",
					entry.RoomID,
					slots[i].StartAt.Format(time.RFC3339),
					slots[i-1].EndAt.Format(time.RFC3339))
			}
		}

		all = append(all, slots...)
	}

	return all, nil
}

// checkBatchRoomTypeCollisions rejects two batch slots sharing the same
// (room type, start instant), regardless of room or movie.
func checkBatchRoomTypeCollisions(showtimes []*entity.Showtime) error {
	seen := make(map[entity.RoomType]map[int64]bool)
	for _, st := range showtimes {
		starts := seen[st.RoomType]
		if starts == nil {
			starts = make(map[int64]bool)
			seen[st.RoomType] = starts
		}
		key := st.StartAt.Unix()
		if starts[key] {
			return fmt.Errorf("schedule conflicts: room type %s already has a showtime at %s in this batch",
				st.RoomType, st.StartAt.Format(time.RFC3339))
		}
		starts[key] = true
	}
	return nil
}

func (s *showtimeService) checkAgainstExisting(ctx context.Context, movie *entity.Movie, showtimes []*entity.Showtime) error {
	window := repository.ConflictWindow{
		StartAt:   showtimes[0].StartAt,
		EndAt:     showtimes[0].EndAt,
		MovieID:   movie.ID,
		TheaterID: showtimes[0].TheaterID,
	}

	roomIDs := make(map[uuid.UUID]bool)
	roomTypes := make(map[entity.RoomType]bool)
	for _, st := range showtimes {
		if st.StartAt.Before(window.StartAt) {
			window.StartAt = st.StartAt
		}
		if st.EndAt.After(window.EndAt) {
			window.EndAt = st.EndAt
		}
		if !roomIDs[st.RoomID] {
			roomIDs[st.RoomID] = true
			window.RoomIDs = append(window.RoomIDs, st.RoomID)
		}
		if !roomTypes[st.RoomType] {
			roomTypes[st.RoomType] = true
			window.RoomTypes = append(window.RoomTypes, st.RoomType)
		}
	}

	existing, err := s.repo.Showtime.FindConflicting(ctx, window)
	if err != nil {
		s.log.Error("Failed to query existing showtimes", zap.Error(err))
		return fmt.Errorf("query existing showtimes: %w", err)
	}

	// Room availability first, then room-type uniqueness.
	for _, st := range showtimes {
		for _, ex := range existing {
			if ex.RoomID == st.RoomID && ex.Overlaps(st.StartAt, st.EndAt) {
				return fmt.Errorf("schedule conflicts in room %s: requested showtime at %s overlaps existing showtime %s - %s",
					st.RoomID.String(),
					st.StartAt.Format(time.RFC3339),
					ex.StartAt.Format(time.RFC3339),
					ex.EndAt.Format(time.RFC3339))
			}
		}
	}
	for _, st := range showtimes {
		for _, ex := range existing {
			if ex.RoomType == st.RoomType && ex.StartAt.Equal(st.StartAt) {
				return fmt.Errorf("schedule conflicts: room type %s already has a showtime at %s",
					st.RoomType, st.StartAt.Format(time.RFC3339))
			}
		}
	}

	return nil
}

func (s *showtimeService) commit(ctx context.Context, showtimes []*entity.Showtime) error {
	inserted, err := s.repo.Showtime.InsertMany(ctx, showtimes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			// A concurrent writer won the slot between validation and insert.
			return err
		}
		return fmt.Errorf("insert showtimes: %w", err)
	}

	if inserted != int64(len(showtimes)) {
		s.log.Error("Showtime insert count mismatch",
			zap.Int64("inserted", inserted),
			zap.Int("requested", len(showtimes)),
		)
		return fmt.Errorf("showtime insert integrity failure: inserted %d of %d", inserted, len(showtimes))
	}

	return nil
}

func (s *showtimeService) GetShowtimes(ctx context.Context, req *request.ShowtimeListRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter, err := toShowtimeFilter(req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	showtimes, err := s.repo.Showtime.List(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to list showtimes", zap.Error(err))
		return nil, fmt.Errorf("list showtimes: %w", err)
	}

	total, err := s.repo.Showtime.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count showtimes", zap.Error(err))
		return nil, fmt.Errorf("count showtimes: %w", err)
	}

	responses := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		responses[i] = response.ShowtimeToResponse(st)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

// toShowtimeFilter converts the optional listing parameters into a repository
// filter, rejecting malformed ids up front.
func toShowtimeFilter(req *request.ShowtimeListRequest) (repository.ShowtimeFilter, error) {
	var filter repository.ShowtimeFilter

	parse := func(field, raw string) (*uuid.UUID, error) {
		if raw == "" {
			return nil, nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %s: %w", field, raw, err)
		}
		return &id, nil
	}

	var err error
	if filter.MovieID, err = parse("movie ID", req.MovieID); err != nil {
		return filter, err
	}
	if filter.TheaterID, err = parse("theater ID", req.TheaterID); err != nil {
		return filter, err
	}
	if filter.RoomID, err = parse("room ID", req.RoomID); err != nil {
		return filter, err
	}

	filter.IsActive = req.IsActive
	filter.From = utils.ParseTime(req.From)
	filter.To = utils.ParseTime(req.To)
	filter.SortDesc = req.Sort == "desc"

	return filter, nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID format %s: %w", showtimeID, err)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find showtime %s: %w", showtimeID, err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime %s not found", showtimeID)
	}

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return fmt.Errorf("invalid showtime ID format %s: %w", showtimeID, err)
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find showtime %s: %w", showtimeID, err)
	}
	if showtime == nil {
		return fmt.Errorf("showtime %s not found", showtimeID)
	}

	deleted, err := s.repo.Showtime.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete showtime %s: %w", showtimeID, err)
	}
	if deleted != 1 {
		s.log.Error("Showtime delete count mismatch",
			zap.String("showtime_id", showtimeID),
			zap.Int64("deleted", deleted),
		)
		return fmt.Errorf("showtime delete integrity failure: removed %d rows for %s", deleted, showtimeID)
	}

	s.log.Info("Showtime deleted", zap.String("showtime_id", showtimeID))
	return nil
}

// DeleteShowtimes is all-or-nothing: every requested id must exist before
// anything is removed.
func (s *showtimeService) DeleteShowtimes(ctx context.Context, req *request.DeleteShowtimesRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid showtime ID format %s: %w", raw, err)
		}
		ids[i] = id
	}

	existing, err := s.repo.Showtime.FindExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check showtime IDs: %w", err)
	}
	found := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("showtime %s not found", id.String())
		}
	}

	deleted, err := s.repo.Showtime.DeleteMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("delete showtimes: %w", err)
	}
	if deleted != int64(len(ids)) {
		s.log.Error("Bulk showtime delete count mismatch",
			zap.Int64("deleted", deleted),
			zap.Int("requested", len(ids)),
		)
		return fmt.Errorf("showtime delete integrity failure: removed %d of %d", deleted, len(ids))
	}

	s.log.Info("Showtimes deleted", zap.Int("count", len(ids)))
	return nil
}
