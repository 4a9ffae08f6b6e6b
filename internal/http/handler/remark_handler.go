package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RemarkHandler handles HTTP requests addressing a remark directly.
// Only technician remarks can be edited or deleted, and only by their
// author; admin remarks are immutable.
type RemarkHandler struct {
	complaintService *service.ComplaintService
	logger           *zap.Logger
}

// NewRemarkHandler creates a new RemarkHandler instance
func NewRemarkHandler(complaintService *service.ComplaintService, logger *zap.Logger) *RemarkHandler {
	return &RemarkHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// Update godoc
// @Summary Update a remark
// @Description Edit a technician remark (author only), optionally changing the complaint status
// @Tags Remarks
// @Accept json
// @Produce json
// @Param id path string true "Remark ID" format(uuid)
// @Param remark body domain.RemarkRequest true "Remark data"
// @Success 200 {object} domain.RemarkResult
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /remarks/{id} [put]
func (h *RemarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid remark ID format")
		return
	}

	var req domain.RemarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.complaintService.UpdateRemark(r.Context(), id, &req)
	if err != nil {
		h.respondRemarkError(w, err, "update remark")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a remark
// @Description Remove a technician remark (author only)
// @Tags Remarks
// @Accept json
// @Produce json
// @Param id path string true "Remark ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /remarks/{id} [delete]
func (h *RemarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid remark ID format")
		return
	}

	if err := h.complaintService.DeleteRemark(r.Context(), id); err != nil {
		h.respondRemarkError(w, err, "delete remark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RemarkHandler) respondRemarkError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrUserContextRequired):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "You do not have permission for this action")
	case errors.Is(err, service.ErrRemarkNotFound):
		respondWithError(w, http.StatusNotFound, "Remark not found")
	case errors.Is(err, service.ErrComplaintNotFound):
		respondWithError(w, http.StatusNotFound, "Complaint not found")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "The complaint status does not allow this action")
	default:
		h.logger.Error("remark operation failed",
			zap.String("action", action),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
