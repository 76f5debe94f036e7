package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) NotificationHandler {
	return &NotificationHandlerImpl{notificationService: notificationService}
}

// ListMine implements NotificationHandler. Returns the caller's delivery
// audit trail, newest first.
func (h *NotificationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	resp, err := h.notificationService.ListForUser(r.Context(), userID, limit)
	if err != nil {
		slog.Error("ListForUser service error", "error", err, "user_id", userID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
