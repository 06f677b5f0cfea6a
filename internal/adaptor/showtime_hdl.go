package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"cinema-showtimes/internal/dto/request"
	"cinema-showtimes/internal/usecase"
	"cinema-showtimes/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// GetShowtimes handles GET /api/showtimes (public)
func (h *ShowtimeHandler) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.ShowtimeListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		MovieID:   query.Get("movie_id"),
		TheaterID: query.Get("theater_id"),
		RoomID:    query.Get("room_id"),
		IsActive:  utils.ParseBool(query.Get("is_active")),
		From:      query.Get("from"),
		To:        query.Get("to"),
		Sort:      query.Get("sort"),
	}

	showtimes, err := h.service.GetShowtimes(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

// GetShowtimeByID handles GET /api/showtimes/{id} (public)
func (h *ShowtimeHandler) GetShowtimeByID(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "Showtime ID is required", nil)
		return
	}

	showtime, err := h.service.GetShowtimeByID(r.Context(), showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "get showtime by ID")
		return
	}

	utils.ResponseSuccess(w, "success", showtime)
}

// CreateShowtime handles POST /api/admin/showtimes
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "success", showtime)
}

// CreateShowtimes handles POST /api/admin/showtimes/bulk
func (h *ShowtimeHandler) CreateShowtimes(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtimes, err := h.service.CreateShowtimes(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create showtimes")
		return
	}

	utils.ResponseCreated(w, "success", showtimes)
}

// ValidateShowtime handles POST /api/admin/showtimes/validate
func (h *ShowtimeHandler) ValidateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slots, err := h.service.ValidateShowtime(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "validate showtime")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// ValidateShowtimes handles POST /api/admin/showtimes/bulk/validate
func (h *ShowtimeHandler) ValidateShowtimes(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slots, err := h.service.ValidateShowtimes(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "validate showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// DeleteShowtime handles DELETE /api/admin/showtimes/{id}
func (h *ShowtimeHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "id")
	if showtimeID == "" {
		utils.ResponseBadRequest(w, "Showtime ID is required", nil)
		return
	}

	if err := h.service.DeleteShowtime(r.Context(), showtimeID); err != nil {
		h.handleServiceError(w, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// DeleteShowtimes handles DELETE /api/admin/showtimes
func (h *ShowtimeHandler) DeleteShowtimes(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteShowtimesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.DeleteShowtimes(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "delete showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError maps service errors for showtime operations
func (h *ShowtimeHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "conflicts"):
		h.log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
