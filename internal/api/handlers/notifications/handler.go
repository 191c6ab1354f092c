package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/peluqueriacool/PC-ReservationService/internal/api/handlers"
	notificationsService "github.com/peluqueriacool/PC-ReservationService/internal/service/notifications"
)

const (
	msgInvalidNotificationID = "ID de notificación inválido"
	msgInvalidLimit          = "límite inválido"
	msgNotFound              = "notificación no encontrada"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/notifications
// Query params: limit (опционально)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /notifications - Invalid limit: %s", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /notifications - Failed to list notifications: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /notifications - Listed %d notifications, %d unread", len(result.Notifications), result.Unread)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleMarkRead PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notificationID := vars["notificationId"]

	if err := uuid.Validate(notificationID); err != nil {
		h.logger.Warn("PATCH /notifications/{id}/read - Invalid notification ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID); err != nil {
		switch {
		case errors.Is(err, notificationsService.ErrNotificationNotFound):
			h.logger.Warn("PATCH /notifications/{id}/read - Notification not found: notification_id=%s", notificationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /notifications/{id}/read - Failed to mark notification as read: notification_id=%s, error=%v", notificationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /notifications/{id}/read - Notification marked as read: notification_id=%s", notificationID)
	w.WriteHeader(http.StatusNoContent)
}
