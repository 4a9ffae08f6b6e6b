package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validNotificationTypes contains all valid notification type values
var validNotificationTypes = map[string]bool{
	string(domain.NotificationTypeNewComplaint):    true,
	string(domain.NotificationTypeAssignment):      true,
	string(domain.NotificationTypeStatusUpdate):    true,
	string(domain.NotificationTypeStatusDetailed):  true,
	string(domain.NotificationTypeTransportUpdate): true,
	string(domain.NotificationTypeCheckingUpdate):  true,
	string(domain.NotificationTypeRemarkUpdate):    true,
	string(domain.NotificationTypeCancellation):    true,
	string(domain.NotificationTypeReminder):        true,
}

// isValidNotificationType checks if the given type string is a valid NotificationType
func isValidNotificationType(t string) bool {
	return validNotificationTypes[t]
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description Get paginated list of notifications for the current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param unreadOnly query bool false "Filter to show only unread notifications" default(false)
// @Param type query string false "Filter by notification type" Enums(new_complaint, assignment, status_update, status_update_detailed, transport_update, checking_update, remark_update, cancellation, reminder)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	notificationType := r.URL.Query().Get("type")

	// Validate notification type if provided
	if notificationType != "" && !isValidNotificationType(notificationType) {
		respondWithError(w, http.StatusBadRequest, "invalid notification type")
		return
	}

	result, err := h.notificationService.GetForCurrentUser(r.Context(), page, pageSize, unreadOnly, notificationType)
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Description Get the count of unread notifications for the current user
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to get unread count", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get unread count")
		return
	}

	respondJSON(w, http.StatusOK, count)
}

// GetByID godoc
// @Summary Get notification by ID
// @Description Get a single notification by its ID
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.NotificationDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/{id} [get]
func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	notification, err := h.notificationService.GetByID(r.Context(), id)
	if err != nil {
		h.respondNotificationError(w, err, "get notification")
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Description Mark a single notification as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		h.respondNotificationError(w, err, "mark notification as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Description Mark all notifications for the current user as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllAsReadForUser(r.Context()); err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to mark all notifications as read", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to mark all notifications as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) respondNotificationError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrUserContextRequired):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrNotificationNotFound):
		respondWithError(w, http.StatusNotFound, "Notification not found")
	case errors.Is(err, service.ErrNotificationNotOwned):
		respondWithError(w, http.StatusForbidden, "You do not have access to this notification")
	default:
		h.logger.Error("notification operation failed",
			zap.String("action", action),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
