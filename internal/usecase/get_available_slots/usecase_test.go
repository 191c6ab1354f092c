package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (f *fakeRepo) List(context.Context, domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reservations, nil
}

type fakeResolver struct {
	slots []types.TimeString
	err   error
}

func (f *fakeResolver) SlotsForDate(time.Time) ([]types.TimeString, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

var testDate = time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

func TestUseCase_Execute_OpenDay(t *testing.T) {
	resolver := &fakeResolver{slots: []types.TimeString{"10:00", "10:30", "11:00"}}
	uc := New(&fakeRepo{}, resolver, &domain.CalendarConfig{AllowOverlap: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)

	assert.False(t, resp.Closed)
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00"}, resp.Slots)
}

func TestUseCase_Execute_ClosedDay(t *testing.T) {
	resolver := &fakeResolver{err: availability.ErrClosed}
	uc := New(&fakeRepo{}, resolver, &domain.CalendarConfig{AllowOverlap: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)

	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Execute_ZeroDate(t *testing.T) {
	uc := New(&fakeRepo{}, &fakeResolver{}, &domain.CalendarConfig{AllowOverlap: true}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_OverlapAllowedKeepsTakenSlots(t *testing.T) {
	// Исторический режим: занятые слоты остаются в выдаче
	resolver := &fakeResolver{slots: []types.TimeString{"10:00", "10:30"}}
	repo := &fakeRepo{reservations: []*domain.Reservation{
		{Time: "10:00", Status: domain.StatusConfirmed},
	}}
	uc := New(repo, resolver, &domain.CalendarConfig{AllowOverlap: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, resp.Slots)
}

func TestUseCase_Execute_StrictModeFiltersTakenSlots(t *testing.T) {
	resolver := &fakeResolver{slots: []types.TimeString{"10:00", "10:30", "11:00"}}
	repo := &fakeRepo{reservations: []*domain.Reservation{
		{Time: "10:00", Status: domain.StatusConfirmed},
		{Time: "10:30", Status: domain.StatusPending},
		{Time: "11:00", Status: domain.StatusCancelled}, // терминальная не занимает слот
	}}
	uc := New(repo, resolver, &domain.CalendarConfig{AllowOverlap: false}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"11:00"}, resp.Slots)
}

func TestUseCase_Execute_StrictModeListFailure(t *testing.T) {
	resolver := &fakeResolver{slots: []types.TimeString{"10:00"}}
	repo := &fakeRepo{err: errors.New("db down")}
	uc := New(repo, resolver, &domain.CalendarConfig{AllowOverlap: false}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: testDate})
	assert.ErrorIs(t, err, ErrInternal)
}
