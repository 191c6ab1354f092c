package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	notificationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/notification"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	notifications []*domain.Notification
	unread        int
	limits        []int
	marked        []string
	markErr       error
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]*domain.Notification, error) {
	f.limits = append(f.limits, limit)
	return f.notifications, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeRepo) CountUnread(context.Context) (int, error) {
	return f.unread, nil
}

func TestService_ListRecent(t *testing.T) {
	repo := &fakeRepo{
		notifications: []*domain.Notification{
			{ID: "n1", Type: domain.NotificationReservation, Message: "Nueva reserva de Ana", CreatedAt: time.Now()},
		},
		unread: 1,
	}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.ListRecent(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, []int{10}, repo.limits)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "n1", resp.Notifications[0].ID)
	assert.Equal(t, 1, resp.Unread)
}

func TestService_ListRecent_DefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nopLogger{})

	_, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultListLimit}, repo.limits)
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.MarkRead(context.Background(), "n1"))
	assert.Equal(t, []string{"n1"}, repo.marked)
}

func TestService_MarkRead_Errors(t *testing.T) {
	svc := NewService(&fakeRepo{}, nopLogger{})
	assert.ErrorIs(t, svc.MarkRead(context.Background(), ""), ErrInvalidInput)

	missing := &fakeRepo{markErr: notificationRepo.ErrNotificationNotFound}
	svc = NewService(missing, nopLogger{})
	assert.ErrorIs(t, svc.MarkRead(context.Background(), "n1"), ErrNotificationNotFound)

	broken := &fakeRepo{markErr: errors.New("db down")}
	svc = NewService(broken, nopLogger{})
	assert.ErrorIs(t, svc.MarkRead(context.Background(), "n1"), ErrInternal)
}
