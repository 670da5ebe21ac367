package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"yoga-studio/internal/dto/request"
	"yoga-studio/internal/usecase"
	"yoga-studio/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ClassHandler struct {
	service usecase.ClassService
	log     *zap.Logger
}

func NewClassHandler(service usecase.ClassService, log *zap.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		log:     log.With(zap.String("handler", "class")),
	}
}

// CreateClass handles POST /api/classes (instructor only)
func (h *ClassHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	class, err := h.service.CreateClass(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create class")
		return
	}

	utils.ResponseCreated(w, "success", class)
}

// GetMyClasses handles GET /api/classes (instructor only)
func (h *ClassHandler) GetMyClasses(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	classes, err := h.service.GetMyClasses(r.Context(), userID.String(), req)
	if err != nil {
		h.handleServiceError(w, err, "get classes")
		return
	}

	utils.ResponseSuccess(w, "success", classes)
}

// UpdateClass handles PUT /api/classes/{id} (instructor only)
func (h *ClassHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	classID := chi.URLParam(r, "id")
	if classID == "" {
		utils.ResponseBadRequest(w, "Class ID is required", nil)
		return
	}

	var req request.UpdateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	class, err := h.service.UpdateClass(r.Context(), userID.String(), classID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update class")
		return
	}

	utils.ResponseSuccess(w, "success", class)
}

// DeactivateClass handles DELETE /api/classes/{id} (instructor only)
func (h *ClassHandler) DeactivateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	classID := chi.URLParam(r, "id")
	if classID == "" {
		utils.ResponseBadRequest(w, "Class ID is required", nil)
		return
	}

	if err := h.service.DeactivateClass(r.Context(), userID.String(), classID); err != nil {
		h.handleServiceError(w, err, "deactivate class")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError handles errors for class operations
func (h *ClassHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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

	case strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "requires"),
		strings.Contains(errMsg, "must be"):
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
