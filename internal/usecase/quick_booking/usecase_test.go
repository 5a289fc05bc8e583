package quick_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	deviceRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/device"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	nextID   int64
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.nextID++
	cp := *booking
	cp.ID = r.nextID
	r.bookings = append(r.bookings, &cp)
	return &cp, nil
}

func (r *fakeBookingRepo) FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.RoomID == roomID && b.Status != domain.StatusCancelled && b.Status != domain.StatusNoShow && b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeDeviceRepo struct {
	devices map[string]*domain.Device
}

func (r *fakeDeviceRepo) GetByKey(ctx context.Context, deviceKey string) (*domain.Device, error) {
	d, ok := r.devices[deviceKey]
	if !ok {
		return nil, deviceRepo.ErrDeviceNotFound
	}
	return d, nil
}

func newTestUseCase(bookings *fakeBookingRepo, now time.Time) *UseCase {
	devices := &fakeDeviceRepo{devices: map[string]*domain.Device{
		"tablet-key-1": {ID: 1, DeviceKey: "tablet-key-1", RoomID: 7, Active: true},
		"tablet-key-2": {ID: 2, DeviceKey: "tablet-key-2", RoomID: 8, Active: false},
	}}
	cfg := Config{
		DefaultDuration: 30 * time.Minute,
		MaxDuration:     4 * time.Hour,
	}
	uc := NewUseCase(bookings, devices, &fakeTxManager{}, cfg, nopLogger{})
	uc.timeProvider = &fakeClock{now: now}
	return uc
}

func TestExecute_DefaultDuration(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 12, 45, 0, time.UTC)
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, now)

	resp, err := uc.Execute(context.Background(), &Request{DeviceKey: "tablet-key-1"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.RoomID)
	assert.Equal(t, DefaultTitle, resp.Title)
	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	assert.Equal(t, string(domain.SourceTablet), resp.Source)
	// Старт усекается до минуты
	assert.True(t, resp.StartTime.Equal(time.Date(2025, 3, 10, 10, 12, 0, 0, time.UTC)))
	assert.True(t, resp.EndTime.Equal(resp.StartTime.Add(30*time.Minute)))
	require.NotNil(t, repo.bookings[0].CheckInTime)
}

func TestExecute_RoomOccupied(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{}
	repo.bookings = append(repo.bookings, &domain.Booking{
		ID:        100,
		RoomID:    7,
		StartTime: now.Add(10 * time.Minute),
		EndTime:   now.Add(40 * time.Minute),
		Status:    domain.StatusScheduled,
	})
	uc := newTestUseCase(repo, now)

	_, err := uc.Execute(context.Background(), &Request{DeviceKey: "tablet-key-1"})

	assert.ErrorIs(t, err, ErrRoomOccupied)
}

func TestExecute_FitsBeforeNextMeeting(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{}
	repo.bookings = append(repo.bookings, &domain.Booking{
		ID:        100,
		RoomID:    7,
		StartTime: now.Add(45 * time.Minute),
		EndTime:   now.Add(105 * time.Minute),
		Status:    domain.StatusScheduled,
	})
	uc := newTestUseCase(repo, now)

	resp, err := uc.Execute(context.Background(), &Request{DeviceKey: "tablet-key-1", DurationMinutes: 45})

	require.NoError(t, err)
	assert.True(t, resp.EndTime.Equal(now.Add(45*time.Minute)))
}

func TestExecute_UnknownDevice(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{DeviceKey: "missing"})

	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestExecute_InactiveDevice(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{DeviceKey: "tablet-key-2"})

	assert.ErrorIs(t, err, ErrDeviceInactive)
}

func TestExecute_DurationOverMax(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, now)

	_, err := uc.Execute(context.Background(), &Request{DeviceKey: "tablet-key-1", DurationMinutes: 300})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
