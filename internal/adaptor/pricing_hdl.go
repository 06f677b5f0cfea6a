package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cinema-showtimes/internal/dto/request"
	"cinema-showtimes/internal/usecase"
	"cinema-showtimes/pkg/utils"

	"go.uber.org/zap"
)

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// GetPricingConfig handles GET /api/admin/pricing
func (h *PricingHandler) GetPricingConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.service.GetPricingConfig(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get pricing config")
		return
	}

	utils.ResponseSuccess(w, "success", config)
}

// UpsertPricingConfig handles PUT /api/admin/pricing
func (h *PricingHandler) UpsertPricingConfig(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	config, err := h.service.UpsertPricingConfig(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "upsert pricing config")
		return
	}

	utils.ResponseSuccess(w, "success", config)
}

// GetSeatTypePrices handles GET /api/pricing/quote?room_type=2D&at=... (public)
func (h *PricingHandler) GetSeatTypePrices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	roomType := query.Get("room_type")
	if roomType == "" {
		utils.ResponseBadRequest(w, "room_type query parameter is required", nil)
		return
	}

	effectiveAt := time.Now()
	if at := query.Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			utils.ResponseBadRequest(w, "at must be an RFC3339 timestamp", nil)
			return
		}
		effectiveAt = parsed
	}

	prices, err := h.service.GetSeatTypePrices(r.Context(), roomType, effectiveAt)
	if err != nil {
		h.handleServiceError(w, err, "get seat type prices")
		return
	}

	utils.ResponseSuccess(w, "success", prices)
}

// handleServiceError maps service errors for pricing operations
func (h *PricingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

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
