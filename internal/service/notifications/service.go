package notifications

import (
	"context"
	"errors"
	"fmt"

	notificationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/notification"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/notifications/models"
)

// DefaultListLimit количество уведомлений в ленте по умолчанию
const DefaultListLimit = 50

// Service сервис ленты уведомлений администратора
type Service struct {
	notificationRepo NotificationRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(notificationRepo NotificationRepository, logger Logger) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListRecent получает последние уведомления со счетчиком непрочитанных
func (s *Service) ListRecent(ctx context.Context, limit int) (*models.NotificationListResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.logger.Info("ListRecent: fetching up to %d notifications", limit)

	notifications, err := s.notificationRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("ListRecent: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRecent - repository error: %v", ErrInternal, err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx)
	if err != nil {
		s.logger.Error("ListRecent: failed to count unread: %v", err)
		return nil, fmt.Errorf("%w: ListRecent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRecent: successfully fetched %d notifications, %d unread", len(notifications), unread)
	return models.FromDomainNotificationList(notifications, unread), nil
}

// MarkRead помечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id string) error {
	s.logger.Info("MarkRead: marking notification id=%s as read", id)

	if id == "" {
		return fmt.Errorf("%w: notification id is required", ErrInvalidInput)
	}

	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%s not found", id)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkRead: successfully marked notification id=%s as read", id)
	return nil
}
