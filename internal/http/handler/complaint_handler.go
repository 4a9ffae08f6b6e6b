package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ComplaintHandler handles HTTP requests for the complaint workflow
type ComplaintHandler struct {
	complaintService *service.ComplaintService
	logger           *zap.Logger
}

// NewComplaintHandler creates a new ComplaintHandler instance
func NewComplaintHandler(complaintService *service.ComplaintService, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// respondWorkflowError maps service errors of the complaint workflow to
// HTTP responses. Unrecognized errors are logged and reported as 500.
func (h *ComplaintHandler) respondWorkflowError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrUserContextRequired):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "You do not have permission for this action")
	case errors.Is(err, service.ErrComplaintNotFound):
		respondWithError(w, http.StatusNotFound, "Complaint not found")
	case errors.Is(err, service.ErrRemarkNotFound):
		respondWithError(w, http.StatusNotFound, "Remark not found")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "The complaint status does not allow this action")
	case errors.Is(err, service.ErrRemarkLimitReached):
		respondWithError(w, http.StatusConflict, "The complaint already has the maximum number of remarks")
	case errors.Is(err, service.ErrInvalidAssignee):
		respondWithError(w, http.StatusBadRequest, "The assignee is not an active technician")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("complaint workflow operation failed",
			zap.String("action", action),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func complaintIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// Create godoc
// @Summary Register a complaint
// @Description Register a new repair complaint for the current user
// @Tags Complaints
// @Accept json
// @Produce json
// @Param complaint body domain.CreateComplaintRequest true "Complaint data"
// @Success 201 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints [post]
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	complaint, err := h.complaintService.Create(r.Context(), &req)
	if err != nil {
		h.respondWorkflowError(w, err, "create complaint")
		return
	}

	respondJSON(w, http.StatusCreated, complaint)
}

// List godoc
// @Summary List complaints
// @Description Get paginated complaints scoped to the caller's role
// @Tags Complaints
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(pending, in_process, closed, cancelled)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ComplaintDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints [get]
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	status := r.URL.Query().Get("status")
	if status != "" && !domain.ComplaintStatus(status).IsValid() {
		respondWithError(w, http.StatusBadRequest, "invalid status: must be one of pending, in_process, closed, cancelled")
		return
	}

	result, err := h.complaintService.List(r.Context(), status, page, pageSize)
	if err != nil {
		h.respondWorkflowError(w, err, "list complaints")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get complaint by ID
// @Description Get a single complaint visible to the caller
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	complaint, err := h.complaintService.GetByID(r.Context(), id)
	if err != nil {
		h.respondWorkflowError(w, err, "get complaint")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// Forward godoc
// @Summary Forward complaint to a technician
// @Description Assign or reassign a complaint to an active technician (admin only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Param forward body domain.ForwardComplaintRequest true "Forward data"
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/forward [post]
func (h *ComplaintHandler) Forward(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	var req domain.ForwardComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	complaint, err := h.complaintService.Forward(r.Context(), id, &req)
	if err != nil {
		h.respondWorkflowError(w, err, "forward complaint")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// AddRemark godoc
// @Summary Add a remark
// @Description Append a staff remark to a complaint, optionally changing its status in the same call
// @Tags Remarks
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Param remark body domain.RemarkRequest true "Remark data"
// @Success 201 {object} domain.RemarkResult
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/remarks [post]
func (h *ComplaintHandler) AddRemark(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
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

	result, err := h.complaintService.AddRemark(r.Context(), id, &req)
	if err != nil {
		h.respondWorkflowError(w, err, "add remark")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// ListRemarks godoc
// @Summary List remarks
// @Description Get the combined admin and technician remark ledger for a complaint
// @Tags Remarks
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {array} domain.RemarkDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/remarks [get]
func (h *ComplaintHandler) ListRemarks(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	remarks, err := h.complaintService.ListRemarks(r.Context(), id)
	if err != nil {
		h.respondWorkflowError(w, err, "list remarks")
		return
	}

	respondJSON(w, http.StatusOK, remarks)
}

// UpdateStatus godoc
// @Summary Update complaint status
// @Description Set a complaint status directly (staff only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Param status body domain.UpdateStatusRequest true "New status"
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/status [put]
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	var req domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	complaint, err := h.complaintService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.respondWorkflowError(w, err, "update complaint status")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// Cancel godoc
// @Summary Cancel a complaint
// @Description Withdraw a pending complaint (owner only)
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {object} domain.ComplaintDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/cancel [post]
func (h *ComplaintHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	complaint, err := h.complaintService.Cancel(r.Context(), id)
	if err != nil {
		h.respondWorkflowError(w, err, "cancel complaint")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// GetForwardHistory godoc
// @Summary Get forward history
// @Description Get the reassignment trail of a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID" format(uuid)
// @Success 200 {array} domain.ForwardHistoryDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /complaints/{id}/forward-history [get]
func (h *ComplaintHandler) GetForwardHistory(w http.ResponseWriter, r *http.Request) {
	id, err := complaintIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID format")
		return
	}

	history, err := h.complaintService.GetForwardHistory(r.Context(), id)
	if err != nil {
		h.respondWorkflowError(w, err, "get forward history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}
