package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/cache"
	reservationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/reservation"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fixedClock детерминированное "сейчас": среда 2026-03-11 10:00
type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
}

// fakeRepo in-memory репозиторий с CAS-семантикой Update
type fakeRepo struct {
	byID       map[string]*domain.Reservation
	listResult []*domain.Reservation
	counts     map[string]int // ключи: today, pending, week, month (в порядке вызовов)
	countCalls []domain.ReservationsFilter
	updateErr  error
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	byID := make(map[string]*domain.Reservation, len(reservations))
	for _, r := range reservations {
		byID[r.ID] = r
	}
	return &fakeRepo{byID: byID}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.listResult, nil
}

func (f *fakeRepo) Count(_ context.Context, filter domain.ReservationsFilter) (int, error) {
	f.countCalls = append(f.countCalls, filter)
	return len(f.countCalls), nil
}

func (f *fakeRepo) Update(_ context.Context, id string, fields reservationRepo.UpdateFields, expectedUpdatedAt time.Time) (*domain.Reservation, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	r, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	if !r.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, reservationRepo.ErrVersionConflict
	}

	if fields.Status != nil {
		r.Status = *fields.Status
	}
	if fields.Notes != nil {
		r.Notes = *fields.Notes
	}
	r.UpdatedAt = r.UpdatedAt.Add(time.Second)

	copied := *r
	return &copied, nil
}

// fakeCache кеш статистики с фиксируемыми вызовами
type fakeCache struct {
	stats  *domain.Stats
	sets   []*domain.Stats
	getErr error
	setErr error
}

func (f *fakeCache) Get(context.Context) (*domain.Stats, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stats, nil
}

func (f *fakeCache) Set(_ context.Context, stats *domain.Stats) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, stats)
	return nil
}

func pendingReservation(id string) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		Status:    domain.StatusPending,
		UpdatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, nil, fixedClock{}, nopLogger{})
}

func TestService_Confirm(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	svc := newTestService(repo)

	resp, err := svc.Confirm(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.byID["r1"].Status)
}

func TestService_Confirm_IllegalFromConfirmed(t *testing.T) {
	r := pendingReservation("r1")
	r.Status = domain.StatusConfirmed
	repo := newFakeRepo(r)
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	// Недопустимый переход не трогает сущность
	assert.Equal(t, domain.StatusConfirmed, repo.byID["r1"].Status)
}

func TestService_Reject_AppendsReasonNote(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	svc := newTestService(repo)

	resp, err := svc.Reject(context.Background(), "r1", &models.RejectReservationRequest{Reason: "sin disponibilidad"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "[2026-03-11 10:00:00] Rechazada: sin disponibilidad", resp.Notes[0])
}

func TestService_Reject_WithoutReason(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	svc := newTestService(repo)

	resp, err := svc.Reject(context.Background(), "r1", &models.RejectReservationRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Empty(t, resp.Notes)
}

func TestService_LifecycleScenarios(t *testing.T) {
	t.Run("reject then confirm fails", func(t *testing.T) {
		repo := newFakeRepo(pendingReservation("r1"))
		svc := newTestService(repo)

		_, err := svc.Reject(context.Background(), "r1", &models.RejectReservationRequest{})
		require.NoError(t, err)

		_, err = svc.Confirm(context.Background(), "r1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("confirm complete then cancel fails", func(t *testing.T) {
		repo := newFakeRepo(pendingReservation("r1"))
		svc := newTestService(repo)

		_, err := svc.Confirm(context.Background(), "r1")
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), "r1")
		require.NoError(t, err)

		_, err = svc.Cancel(context.Background(), "r1")
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Equal(t, domain.StatusCompleted, repo.byID["r1"].Status)
	})

	t.Run("complete requires confirmed", func(t *testing.T) {
		repo := newFakeRepo(pendingReservation("r1"))
		svc := newTestService(repo)

		_, err := svc.Complete(context.Background(), "r1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancel from pending and from confirmed", func(t *testing.T) {
		repo := newFakeRepo(pendingReservation("r1"), pendingReservation("r2"))
		svc := newTestService(repo)

		_, err := svc.Cancel(context.Background(), "r1")
		require.NoError(t, err)

		_, err = svc.Confirm(context.Background(), "r2")
		require.NoError(t, err)
		_, err = svc.Cancel(context.Background(), "r2")
		require.NoError(t, err)
	})
}

func TestService_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.Confirm(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_VersionConflict(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	repo.updateErr = reservationRepo.ErrVersionConflict
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestService_AddNote(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	svc := newTestService(repo)

	resp, err := svc.AddNote(context.Background(), "r1", &models.AddNoteRequest{Text: "Cliente habitual"})
	require.NoError(t, err)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "[2026-03-11 10:00:00] Cliente habitual", resp.Notes[0])

	// Вторая заметка дописывается, первая не меняется
	resp, err = svc.AddNote(context.Background(), "r1", &models.AddNoteRequest{Text: "Pagará en efectivo"})
	require.NoError(t, err)
	require.Len(t, resp.Notes, 2)
	assert.Equal(t, "[2026-03-11 10:00:00] Cliente habitual", resp.Notes[0])
}

func TestService_AddNote_Validation(t *testing.T) {
	repo := newFakeRepo(pendingReservation("r1"))
	svc := newTestService(repo)

	_, err := svc.AddNote(context.Background(), "r1", &models.AddNoteRequest{Text: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	long := make([]byte, domain.MaxNoteLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.AddNote(context.Background(), "r1", &models.AddNoteRequest{Text: string(long)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_List_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeRepo())

	bad := "in_progress"
	_, err := svc.List(context.Background(), &models.ListReservationsRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_Stats_Filters(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)

	// Четыре независимых запроса: сегодня, pending, неделя, месяц
	require.Len(t, repo.countCalls, 4)

	today := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, &today, repo.countCalls[0].Date)

	require.NotNil(t, repo.countCalls[1].Status)
	assert.Equal(t, domain.StatusPending, *repo.countCalls[1].Status)

	// Неделя: понедельник 2026-03-09 .. воскресенье 2026-03-15
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *repo.countCalls[2].DateFrom)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *repo.countCalls[2].DateTo)

	// Месяц: 2026-03-01 .. 2026-03-31
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *repo.countCalls[3].DateFrom)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *repo.countCalls[3].DateTo)
}

func TestService_Stats_CacheHit(t *testing.T) {
	repo := newFakeRepo()
	cached := &fakeCache{stats: &domain.Stats{Today: 3, Pending: 2, Week: 7, Month: 20}}
	svc := NewService(repo, cached, fixedClock{}, nopLogger{})

	resp, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Today)
	assert.Equal(t, 2, resp.Pending)
	// База не опрашивается при попадании в кеш
	assert.Empty(t, repo.countCalls)
}

func TestService_Stats_CacheMissComputesAndStores(t *testing.T) {
	repo := newFakeRepo()
	missing := &fakeCache{getErr: cache.ErrCacheMiss}
	svc := NewService(repo, missing, fixedClock{}, nopLogger{})

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Len(t, repo.countCalls, 4)
	assert.Len(t, missing.sets, 1)
}
