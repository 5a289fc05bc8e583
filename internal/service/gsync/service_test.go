package gsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	storage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/googlecalendar"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeBookingRepo struct {
	locals    []*domain.Booking
	created   []*domain.Booking
	updated   []int64
	cancelled []int64
	nextID    int64

	// ID события, создание которого завершается ошибкой пересечения
	failCreateEventID string
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.failCreateEventID != "" && b.GoogleEventID != nil && *b.GoogleEventID == f.failCreateEventID {
		return nil, storage.ErrOverlapConstraint
	}
	f.nextID++
	b.ID = f.nextID
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingRepo) GetGoogleLinkedByRoom(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.locals, nil
}

func (f *fakeBookingRepo) UpdateEventFields(_ context.Context, id int64, _ string, _, _ time.Time) error {
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeDeletedRepo struct {
	deleted map[string]struct{}
}

func (f *fakeDeletedRepo) ListEventIDsByRoom(_ context.Context, _ int64) (map[string]struct{}, error) {
	if f.deleted == nil {
		return map[string]struct{}{}, nil
	}
	return f.deleted, nil
}

type fakeRoomRepo struct {
	room *domain.Room
}

func (f *fakeRoomRepo) GetByID(_ context.Context, _ int64) (*domain.Room, error) {
	return f.room, nil
}

type fakeCalendar struct {
	events []googlecalendar.Event
}

func (f *fakeCalendar) ListEvents(_ context.Context, _ string, _, _ time.Time) ([]googlecalendar.Event, error) {
	return f.events, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(bookings *fakeBookingRepo, deleted *fakeDeletedRepo, cal *fakeCalendar, clock *fakeClock) *Service {
	rooms := &fakeRoomRepo{room: &domain.Room{
		ID:               1,
		Name:             "Neptune",
		GoogleCalendarID: ptr.Ptr("neptune@resource.calendar.google.com"),
	}}

	cfg := Config{
		CreationGrace: 5 * time.Minute,
		MinInterval:   time.Minute,
		Lookbehind:    24 * time.Hour,
		Lookahead:     30 * 24 * time.Hour,
	}

	return NewService(bookings, deleted, rooms, cal, cfg, NopMetrics{}, nopLogger{}).
		WithTimeProvider(clock)
}

func TestSyncRoom_CreatesNewBookingsFromEvents(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	bookings := &fakeBookingRepo{}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:             "evt-1",
			Status:         googlecalendar.EventStatusConfirmed,
			Summary:        "Планирование спринта",
			OrganizerEmail: "pm@example.com",
			Start:          now.Add(time.Hour),
			End:            now.Add(2 * time.Hour),
		},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	require.Len(t, bookings.created, 1)
	created := bookings.created[0]
	assert.Equal(t, domain.SourceGoogle, created.Source)
	assert.Equal(t, domain.StatusScheduled, created.Status)
	assert.Equal(t, "evt-1", *created.GoogleEventID)
	assert.Equal(t, "pm@example.com", created.OrganizerEmail)
}

func TestSyncRoom_EventInProgressGetsInProgressStatus(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	bookings := &fakeBookingRepo{}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:      "evt-running",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Идущая встреча",
			Start:   now.Add(-30 * time.Minute),
			End:     now.Add(30 * time.Minute),
		},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	_, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, bookings.created, 1)
	assert.Equal(t, domain.StatusInProgress, bookings.created[0].Status)
}

func TestSyncRoom_SkipsEventConflictingWithLocal(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	// evt-busy пересекается с локальным бронированием и не создается;
	// остальные события комнаты при этом сверяются
	bookings := &fakeBookingRepo{failCreateEventID: "evt-busy"}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:      "evt-busy",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Конфликтующая встреча",
			Start:   now.Add(time.Hour),
			End:     now.Add(2 * time.Hour),
		},
		{
			ID:      "evt-free",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Независимая встреча",
			Start:   now.Add(3 * time.Hour),
			End:     now.Add(4 * time.Hour),
		},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	require.Len(t, bookings.created, 1)
	assert.Equal(t, "evt-free", *bookings.created[0].GoogleEventID)
}

func TestSyncRoom_UpdatesChangedEvent(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	local := &domain.Booking{
		ID:            42,
		RoomID:        1,
		Title:         "Старое название",
		StartTime:     now.Add(time.Hour),
		EndTime:       now.Add(2 * time.Hour),
		Status:        domain.StatusScheduled,
		Source:        domain.SourceGoogle,
		GoogleEventID: ptr.Ptr("evt-1"),
		CreatedAt:     now.Add(-time.Hour),
	}
	bookings := &fakeBookingRepo{locals: []*domain.Booking{local}}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:      "evt-1",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Новое название",
			Start:   now.Add(time.Hour),
			End:     now.Add(2 * time.Hour),
		},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, []int64{42}, bookings.updated)
	assert.Empty(t, bookings.cancelled)
}

func TestSyncRoom_CancelsVanishedEvent(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	local := &domain.Booking{
		ID:            7,
		RoomID:        1,
		Status:        domain.StatusScheduled,
		Source:        domain.SourceGoogle,
		GoogleEventID: ptr.Ptr("evt-gone"),
		CreatedAt:     now.Add(-time.Hour),
	}
	bookings := &fakeBookingRepo{locals: []*domain.Booking{local}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, &fakeCalendar{}, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, []int64{7}, bookings.cancelled)
}

func TestSyncRoom_DeletedEventIsNeverResurrected(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	bookings := &fakeBookingRepo{}
	deleted := &fakeDeletedRepo{deleted: map[string]struct{}{"evt-deleted": {}}}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:      "evt-deleted",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Удаленное локально событие",
			Start:   now.Add(time.Hour),
			End:     now.Add(2 * time.Hour),
		},
	}}

	svc := newTestService(bookings, deleted, cal, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	assert.Empty(t, bookings.created)
}

func TestSyncRoom_GraceWindowProtectsFreshBookings(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	// Планшетное бронирование создано минуту назад; соответствующее событие
	// еще не появилось в календаре, отменять его нельзя
	fresh := &domain.Booking{
		ID:            11,
		RoomID:        1,
		Status:        domain.StatusInProgress,
		Source:        domain.SourceGoogle,
		GoogleEventID: ptr.Ptr("evt-fresh"),
		CreatedAt:     now.Add(-time.Minute),
	}
	bookings := &fakeBookingRepo{locals: []*domain.Booking{fresh}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, &fakeCalendar{}, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	assert.Empty(t, bookings.cancelled)
}

func TestSyncRoom_CancelledRemoteEventCancelsLocal(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	local := &domain.Booking{
		ID:            13,
		RoomID:        1,
		Status:        domain.StatusScheduled,
		Source:        domain.SourceGoogle,
		GoogleEventID: ptr.Ptr("evt-cancelled"),
		CreatedAt:     now.Add(-time.Hour),
	}
	bookings := &fakeBookingRepo{locals: []*domain.Booking{local}}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{ID: "evt-cancelled", Status: googlecalendar.EventStatusCancelled},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, []int64{13}, bookings.cancelled)
}

func TestSyncRoom_ThrottledWithoutForce(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	bookings := &fakeBookingRepo{}
	cal := &fakeCalendar{events: []googlecalendar.Event{
		{
			ID:      "evt-1",
			Status:  googlecalendar.EventStatusConfirmed,
			Summary: "Встреча",
			Start:   now.Add(time.Hour),
			End:     now.Add(2 * time.Hour),
		},
	}}

	svc := newTestService(bookings, &fakeDeletedRepo{}, cal, clock)

	_, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, bookings.created, 1)

	// Повторный вызов в пределах MinInterval пропускается
	synced, err := svc.SyncRoom(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	assert.Len(t, bookings.created, 1)

	// force обходит троттлинг: событие уже есть локально, но sync выполняется
	bookings.locals = []*domain.Booking{bookings.created[0]}
	bookings.created[0].Title = "Встреча"
	bookings.created[0].CreatedAt = now.Add(-time.Hour)
	_, err = svc.SyncRoom(context.Background(), 1, true)
	require.NoError(t, err)
}
