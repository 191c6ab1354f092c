package models

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
)

// NotificationResponse ответ с данными уведомления
type NotificationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"referenceId"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationListResponse ответ со списком уведомлений и счетчиком непрочитанных
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// FromDomainNotification конвертирует domain модель в DTO
func FromDomainNotification(n *domain.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}

	return &NotificationResponse{
		ID:          n.ID,
		Type:        string(n.Type),
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

// FromDomainNotificationList конвертирует список domain моделей в DTO
func FromDomainNotificationList(notifications []*domain.Notification, unread int) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(notifications)),
		Unread:        unread,
	}

	for _, notification := range notifications {
		if n := FromDomainNotification(notification); n != nil {
			resp.Notifications = append(resp.Notifications, *n)
		}
	}

	return resp
}
