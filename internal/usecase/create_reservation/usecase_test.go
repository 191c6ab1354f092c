package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/notify"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// Фейки контрактов

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	created   []*domain.Reservation
	existing  []*domain.Reservation
	createErr error
	listErr   error
}

func (f *fakeRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *res
	stored.CreatedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeRepo) List(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

type fakeResolver struct {
	candidate *availability.Candidate
	err       error
}

func (f *fakeResolver) ValidateProposal(time.Time, types.TimeString, string) (*availability.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidate, nil
}

type fakeSink struct {
	events []notify.Event
	err    error
}

func (f *fakeSink) Emit(_ context.Context, event notify.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// fakeTxManager прогоняет fn без настоящей транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// Вспомогательные конструкторы

func validRequest() *Request {
	return &Request{
		CustomerName:  "Ana García",
		CustomerPhone: "+34 600 111 222",
		ServiceCode:   "corte",
		Date:          time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		Time:          "10:30",
	}
}

func validCandidate() *availability.Candidate {
	return &availability.Candidate{
		Date:        time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		Time:        "10:30",
		ServiceCode: "corte",
		ServiceName: "Corte de pelo",
	}
}

func newTestUseCase(repo *fakeRepo, resolver *fakeResolver, sink *fakeSink, tx *fakeTxManager, allowOverlap bool) *UseCase {
	calendar := &domain.CalendarConfig{AllowOverlap: allowOverlap}
	return NewUseCase(repo, resolver, sink, tx, calendar, nopLogger{})
}

func TestUseCase_Execute_CreatesPendingReservation(t *testing.T) {
	repo := &fakeRepo{}
	sink := &fakeSink{}
	uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, sink, &fakeTxManager{}, true)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Бронь всегда создается в pending, независимо от чего-либо в запросе
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Corte de pelo", resp.ServiceName)
	assert.Equal(t, types.TimeString("10:30"), resp.Time)

	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.StatusPending, repo.created[0].Status)
	assert.Equal(t, "", repo.created[0].Notes)
}

func TestUseCase_Execute_EmitsNotificationAfterPersist(t *testing.T) {
	repo := &fakeRepo{}
	sink := &fakeSink{}
	uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, sink, &fakeTxManager{}, true)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	event := sink.events[0]
	assert.Equal(t, domain.NotificationReservation, event.Type)
	assert.Equal(t, resp.ID, event.ReferenceID)
	assert.Equal(t, "Nueva reserva de Ana García", event.Message)
}

func TestUseCase_Execute_SinkFailureDoesNotFailCreation(t *testing.T) {
	repo := &fakeRepo{}
	sink := &fakeSink{err: errors.New("queue down")}
	uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, sink, &fakeTxManager{}, true)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, repo.created, 1)
}

func TestUseCase_Execute_NoNotificationWhenPersistFails(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("db down")}
	sink := &fakeSink{}
	uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, sink, &fakeTxManager{}, true)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, sink.events)
}

func TestUseCase_Execute_ResolverErrors(t *testing.T) {
	tests := []struct {
		name        string
		resolverErr error
		wantErr     error
	}{
		{"unknown service", availability.ErrUnknownService, ErrUnknownService},
		{"out of advance window", availability.ErrOutOfAdvanceWindow, ErrOutOfAdvanceWindow},
		{"closed day", availability.ErrClosed, ErrClosed},
		{"invalid slot", availability.ErrInvalidSlot, ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			sink := &fakeSink{}
			uc := newTestUseCase(repo, &fakeResolver{err: tt.resolverErr}, sink, &fakeTxManager{}, true)

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
			assert.Empty(t, sink.events)
		})
	}
}

func TestUseCase_Execute_Validation(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(r *Request)
	}{
		{"empty name", func(r *Request) { r.CustomerName = "  " }},
		{"empty phone", func(r *Request) { r.CustomerPhone = "" }},
		{"malformed email", func(r *Request) { email := "not-an-email"; r.CustomerEmail = &email }},
		{"empty service", func(r *Request) { r.ServiceCode = "" }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty time", func(r *Request) { r.Time = "" }},
		{"bad time format", func(r *Request) { r.Time = "25:99" }},
	}

	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, &fakeSink{}, &fakeTxManager{}, true)

			req := validRequest()
			tt.fn(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.created)
		})
	}
}

func TestUseCase_Execute_AllowOverlap(t *testing.T) {
	active := &domain.Reservation{
		ID:     "existing",
		Time:   "10:30",
		Status: domain.StatusConfirmed,
	}

	t.Run("overlap allowed skips the slot check", func(t *testing.T) {
		repo := &fakeRepo{existing: []*domain.Reservation{active}}
		tx := &fakeTxManager{}
		uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, &fakeSink{}, tx, true)

		_, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Len(t, repo.created, 1)
		assert.Zero(t, tx.calls)
	})

	t.Run("strict mode rejects an occupied slot", func(t *testing.T) {
		repo := &fakeRepo{existing: []*domain.Reservation{active}}
		sink := &fakeSink{}
		tx := &fakeTxManager{}
		uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, sink, tx, false)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Empty(t, repo.created)
		assert.Empty(t, sink.events)
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("strict mode ignores terminal reservations on the slot", func(t *testing.T) {
		cancelled := &domain.Reservation{ID: "old", Time: "10:30", Status: domain.StatusCancelled}
		repo := &fakeRepo{existing: []*domain.Reservation{cancelled}}
		uc := newTestUseCase(repo, &fakeResolver{candidate: validCandidate()}, &fakeSink{}, &fakeTxManager{}, false)

		_, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Len(t, repo.created, 1)
	})

	t.Run("strict mode allows a different slot on the same day", func(t *testing.T) {
		repo := &fakeRepo{existing: []*domain.Reservation{active}}
		candidate := validCandidate()
		candidate.Time = "11:00"
		uc := newTestUseCase(repo, &fakeResolver{candidate: candidate}, &fakeSink{}, &fakeTxManager{}, false)

		req := validRequest()
		req.Time = "11:00"
		_, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, repo.created, 1)
	})
}
