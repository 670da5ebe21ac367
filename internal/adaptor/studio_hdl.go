package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"yoga-studio/internal/dto/request"
	"yoga-studio/internal/usecase"
	"yoga-studio/pkg/utils"

	"go.uber.org/zap"
)

type StudioHandler struct {
	service usecase.StudioService
	log     *zap.Logger
}

func NewStudioHandler(service usecase.StudioService, log *zap.Logger) *StudioHandler {
	return &StudioHandler{
		service: service,
		log:     log.With(zap.String("handler", "studio")),
	}
}

// CreateStudio handles POST /api/studio (instructor only)
func (h *StudioHandler) CreateStudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	studio, err := h.service.CreateStudio(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create studio")
		return
	}

	utils.ResponseCreated(w, "success", studio)
}

// GetMyStudio handles GET /api/studio (instructor only)
func (h *StudioHandler) GetMyStudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	studio, err := h.service.GetMyStudio(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get studio")
		return
	}

	utils.ResponseSuccess(w, "success", studio)
}

// UpdateStudio handles PUT /api/studio (instructor only)
func (h *StudioHandler) UpdateStudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	studio, err := h.service.UpdateStudio(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "update studio")
		return
	}

	utils.ResponseSuccess(w, "success", studio)
}

// GetStudioStats handles GET /api/studio/stats (instructor only)
func (h *StudioHandler) GetStudioStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.GetStudioStats(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get studio stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// handleServiceError handles errors for studio operations
func (h *StudioHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	case strings.Contains(errMsg, "already exists"),
		strings.Contains(errMsg, "already taken"):
		h.log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

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
