package extend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.RoomID == roomID && b.Status != domain.StatusCancelled && b.Status != domain.StatusNoShow && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ExtendEndTime(ctx context.Context, id int64, newEnd time.Time) error {
	r.bookings[id].EndTime = newEnd
	return nil
}

func newTestUseCase(bookings ...*domain.Booking) (*UseCase, *fakeBookingRepo) {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return NewUseCase(repo, &fakeTxManager{}, nopLogger{}), repo
}

func inProgressBooking(id int64, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		RoomID:    1,
		Title:     "Ретроспектива",
		StartTime: end.Add(-time.Hour),
		EndTime:   end,
		Status:    domain.StatusInProgress,
	}
}

func TestExecute_Success(t *testing.T) {
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	uc, repo := newTestUseCase(inProgressBooking(1, end))

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 30})

	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(end.Add(30*time.Minute)))
	assert.True(t, repo.bookings[1].EndTime.Equal(end.Add(30*time.Minute)))
}

func TestExecute_ConflictLeavesBookingUntouched(t *testing.T) {
	// Встреча заканчивается в 15:00, следующая начинается в 15:20
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	next := &domain.Booking{
		ID:        2,
		RoomID:    1,
		Title:     "Следующая встреча",
		StartTime: end.Add(20 * time.Minute),
		EndTime:   end.Add(80 * time.Minute),
		Status:    domain.StatusScheduled,
	}
	uc, repo := newTestUseCase(inProgressBooking(1, end), next)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 30})

	require.ErrorIs(t, err, ErrTimeConflict)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(2), conflictErr.Conflict.BookingID)
	// Бронирование не изменено
	assert.True(t, repo.bookings[1].EndTime.Equal(end))
}

func TestExecute_ExtensionUpToNextMeetingAllowed(t *testing.T) {
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	next := &domain.Booking{
		ID:        2,
		RoomID:    1,
		StartTime: end.Add(30 * time.Minute),
		EndTime:   end.Add(90 * time.Minute),
		Status:    domain.StatusScheduled,
	}
	uc, _ := newTestUseCase(inProgressBooking(1, end), next)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 30})

	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(end.Add(30*time.Minute)))
}

func TestExecute_TerminalStateRejected(t *testing.T) {
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	b := inProgressBooking(1, end)
	b.Status = domain.StatusEnded
	uc, _ := newTestUseCase(b)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 15})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCheckAvailability_Conflict(t *testing.T) {
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	next := &domain.Booking{
		ID:        2,
		RoomID:    1,
		StartTime: end.Add(20 * time.Minute),
		EndTime:   end.Add(80 * time.Minute),
		Status:    domain.StatusScheduled,
	}
	uc, repo := newTestUseCase(inProgressBooking(1, end), next)

	resp, err := uc.CheckAvailability(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 30})

	require.NoError(t, err)
	assert.False(t, resp.CanExtend)
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, int64(2), resp.Conflict.BookingID)
	// Проверка ничего не меняет
	assert.True(t, repo.bookings[1].EndTime.Equal(end))
}

func TestCheckAvailability_Free(t *testing.T) {
	end := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	uc, _ := newTestUseCase(inProgressBooking(1, end))

	resp, err := uc.CheckAvailability(context.Background(), &Request{BookingID: 1, AdditionalMinutes: 30})

	require.NoError(t, err)
	assert.True(t, resp.CanExtend)
	assert.True(t, resp.NewEndTime.Equal(end.Add(30*time.Minute)))
	assert.Nil(t, resp.Conflict)
}
