package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (r *fakeBookingRepo) GetByRoomWithFilter(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.RoomID != filter.RoomID {
			continue
		}
		if filter.From != nil && !b.EndTime.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeRoomRepo struct {
	rooms map[int64]*domain.Room
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, roomRepo.ErrRoomNotFound
	}
	return room, nil
}

func newTestUseCase(bookings *fakeBookingRepo, now time.Time) *UseCase {
	rooms := &fakeRoomRepo{rooms: map[int64]*domain.Room{
		1: {ID: 1, Name: "Переговорная 1", LocationID: 1},
	}}
	cfg := Config{
		SlotStep: 30 * time.Minute,
		DayStart: 9,
		DayEnd:   18,
	}
	uc := NewUseCase(bookings, rooms, cfg, nopLogger{})
	uc.timeProvider = &fakeClock{now: now}
	return uc
}

func booking(roomID int64, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		RoomID:    roomID,
		Status:    status,
		StartTime: start,
		EndTime:   end,
	}
}

func TestExecute_EmptyDayAllSlotsFree(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date})

	require.NoError(t, err)
	// 9:00-18:00 с шагом 30 минут
	require.Len(t, resp.Slots, 18)
	for _, s := range resp.Slots {
		assert.True(t, s.Available, "slot %s should be free", s.StartTime)
	}
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	assert.Equal(t, time.Date(2025, 3, 11, 17, 30, 0, 0, time.UTC), resp.Slots[17].StartTime)
}

func TestExecute_BookingOccupiesOverlappingSlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, domain.StatusScheduled,
			time.Date(2025, 3, 11, 10, 15, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 11, 0, 0, 0, time.UTC)),
	}}
	uc := newTestUseCase(repo, now)

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date})

	require.NoError(t, err)
	byStart := make(map[string]bool)
	for _, s := range resp.Slots {
		byStart[s.StartTime.Format("15:04")] = s.Available
	}
	assert.True(t, byStart["09:30"])
	assert.False(t, byStart["10:00"], "10:00-10:30 пересекается с 10:15")
	assert.False(t, byStart["10:30"])
	// бронирование заканчивается ровно в 11:00 - слот 11:00 свободен
	assert.True(t, byStart["11:00"])
}

func TestExecute_CancelledAndNoShowDoNotOccupy(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, domain.StatusCancelled,
			time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)),
		booking(1, domain.StatusNoShow,
			time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 11, 0, 0, 0, time.UTC)),
	}}
	uc := newTestUseCase(repo, now)

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date})

	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.True(t, s.Available, "slot %s should be free", s.StartTime)
	}
}

func TestExecute_TodayPastSlotsUnavailable(t *testing.T) {
	now := time.Date(2025, 3, 11, 11, 10, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date})

	require.NoError(t, err)
	byStart := make(map[string]bool)
	for _, s := range resp.Slots {
		byStart[s.StartTime.Format("15:04")] = s.Available
	}
	assert.False(t, byStart["09:00"])
	assert.False(t, byStart["11:00"], "слот 11:00 уже начался")
	assert.True(t, byStart["11:30"])
}

func TestExecute_CustomSlotDuration(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date, SlotMinutes: 60})

	require.NoError(t, err)
	// часовые слоты с шагом 30 минут: последний начинается в 17:00
	require.NotEmpty(t, resp.Slots)
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, time.Date(2025, 3, 11, 17, 0, 0, 0, time.UTC), last.StartTime)
	assert.Equal(t, time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC), last.EndTime)
}

func TestExecute_DateInPast(t *testing.T) {
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{RoomID: 1, Date: date})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_RoomNotFound(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{RoomID: 42, Date: date})

	assert.ErrorIs(t, err, ErrRoomNotFound)
}
