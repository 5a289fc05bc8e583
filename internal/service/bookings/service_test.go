package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	storage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomstorage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
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
	bookings map[int64]*domain.Booking

	cancelCalls  []int64
	tokensIssued map[int64]string
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{
		bookings:     make(map[int64]*domain.Booking),
		tokensIssued: make(map[int64]string),
	}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByRoomWithFilter(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.RoomID == filter.RoomID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByHostWithFilter(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.HostUserID == nil || *b.HostUserID != filter.HostUserID {
			continue
		}
		if !filter.IncludeCancelled && filter.Status == nil && b.Status == domain.StatusCancelled {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookingRepo) SetCheckIn(ctx context.Context, id int64, checkInTime time.Time) error {
	b := r.bookings[id]
	b.Status = domain.StatusInProgress
	b.CheckInTime = &checkInTime
	return nil
}

func (r *fakeBookingRepo) SetEnded(ctx context.Context, id int64, endTime time.Time) error {
	b := r.bookings[id]
	b.Status = domain.StatusEnded
	b.EndTime = endTime
	return nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64) error {
	r.cancelCalls = append(r.cancelCalls, id)
	r.bookings[id].Status = domain.StatusCancelled
	return nil
}

func (r *fakeBookingRepo) CancelSeriesScheduled(ctx context.Context, rootID int64) ([]storage.SeriesCancellation, error) {
	var out []storage.SeriesCancellation
	for _, b := range r.bookings {
		inSeries := b.ID == rootID || (b.RecurringParentID != nil && *b.RecurringParentID == rootID)
		if inSeries && b.Status == domain.StatusScheduled {
			b.Status = domain.StatusCancelled
			out = append(out, storage.SeriesCancellation{ID: b.ID, GoogleEventID: b.GoogleEventID})
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkNoShows(ctx context.Context, cutoff time.Time) ([]int64, error) {
	var ids []int64
	for _, b := range r.bookings {
		if b.Status == domain.StatusScheduled && b.CheckInTime == nil && b.StartTime.Before(cutoff) {
			b.Status = domain.StatusNoShow
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (r *fakeBookingRepo) FindOverdue(ctx context.Context, now time.Time) ([]*domain.OverdueBooking, error) {
	var out []*domain.OverdueBooking
	for _, b := range r.bookings {
		if b.Status == domain.StatusInProgress && b.EndTime.Before(now) && b.ActionTokenIssuedAt == nil {
			out = append(out, &domain.OverdueBooking{Booking: *b, RoomName: "Переговорная 1", LocationName: "Офис"})
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) SetActionToken(ctx context.Context, id int64, token string, issuedAt time.Time) error {
	b := r.bookings[id]
	b.ActionToken = &token
	b.ActionTokenIssuedAt = &issuedAt
	r.tokensIssued[id] = token
	return nil
}

func (r *fakeBookingRepo) GetByActionToken(ctx context.Context, token string) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ActionToken != nil && *b.ActionToken == token {
			cp := *b
			return &cp, nil
		}
	}
	return nil, storage.ErrBookingNotFound
}

func (r *fakeBookingRepo) ConsumeActionToken(ctx context.Context, token string) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ActionToken != nil && *b.ActionToken == token {
			b.ActionToken = nil
			cp := *b
			return &cp, nil
		}
	}
	return nil, storage.ErrBookingNotFound
}

func (r *fakeBookingRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.bookings[id]; !ok {
		return storage.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

type fakeRoomRepo struct {
	rooms map[int64]*domain.Room
}

func newFakeRoomRepo(ids ...int64) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: make(map[int64]*domain.Room)}
	for _, id := range ids {
		r.rooms[id] = &domain.Room{ID: id, Name: "Переговорная 1", LocationID: 1}
	}
	return r
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, roomstorage.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

type fakeDeletedRepo struct {
	events map[string]int64

	onCreate func(eventID string, roomID int64)
}

func newFakeDeletedRepo() *fakeDeletedRepo {
	return &fakeDeletedRepo{events: make(map[string]int64)}
}

func (r *fakeDeletedRepo) Create(ctx context.Context, eventID string, roomID int64) error {
	if r.onCreate != nil {
		r.onCreate(eventID, roomID)
	}
	r.events[eventID] = roomID
	return nil
}

type fakeSync struct {
	synced int
	calls  int
	err    error
}

func (s *fakeSync) SyncRoom(ctx context.Context, roomID int64, force bool) (int, error) {
	s.calls++
	return s.synced, s.err
}

func testPolicy() Policy {
	return Policy{
		CheckInEarly: 10 * time.Minute,
		CheckInLate:  15 * time.Minute,
		NoShowGrace:  15 * time.Minute,
	}
}

func newTestService(repo *fakeBookingRepo, deleted *fakeDeletedRepo, sync SyncService, now time.Time) *Service {
	return NewService(repo, newFakeRoomRepo(1), deleted, sync, testPolicy(), nopLogger{}).
		WithTimeProvider(&fakeClock{now: now})
}

func scheduledBooking(id int64, start time.Time) *domain.Booking {
	return &domain.Booking{
		ID:             id,
		RoomID:         1,
		OrganizerEmail: "ivanov@example.com",
		Title:          "Планёрка",
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		Status:         domain.StatusScheduled,
		Source:         domain.SourceWeb,
	}
}

func TestCheckIn_WithinWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(5*time.Minute))

	resp, err := svc.CheckIn(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	require.NotNil(t, repo.bookings[1].CheckInTime)
}

func TestCheckIn_TooEarly(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(-11*time.Minute))

	_, err := svc.CheckIn(context.Background(), 1)

	assert.ErrorIs(t, err, ErrCheckInTooEarly)
	assert.Equal(t, domain.StatusScheduled, repo.bookings[1].Status)
}

func TestCheckIn_TooLate(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(16*time.Minute))

	_, err := svc.CheckIn(context.Background(), 1)

	assert.ErrorIs(t, err, ErrCheckInTooLate)
}

func TestCheckIn_BoundaryOfWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(-10*time.Minute))

	_, err := svc.CheckIn(context.Background(), 1)

	assert.NoError(t, err)
}

func TestCancel_Idempotent(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(-time.Hour))

	first, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCancelled)

	second, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCancelled)
	// Повторная отмена не трогает запись
	assert.Len(t, repo.cancelCalls, 1)
}

func TestCancel_InProgressRejected(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusInProgress
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(10*time.Minute))

	_, err := svc.Cancel(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel_GoogleLinkedSuppressed(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	eventID := "evt_42"
	b.GoogleEventID = &eventID
	repo := newFakeBookingRepo(b)
	deleted := newFakeDeletedRepo()
	svc := newTestService(repo, deleted, nil, start.Add(-time.Hour))

	_, err := svc.Cancel(context.Background(), 1)

	require.NoError(t, err)
	assert.Contains(t, deleted.events, "evt_42")
}

func TestCancelSeries_FromOccurrence(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	root := scheduledBooking(1, start)
	root.IsRecurring = true
	occ1 := scheduledBooking(2, start.AddDate(0, 0, 7))
	occ1.RecurringParentID = &root.ID
	occ2 := scheduledBooking(3, start.AddDate(0, 0, 14))
	occ2.RecurringParentID = &root.ID
	occ2.Status = domain.StatusEnded
	repo := newFakeBookingRepo(root, occ1, occ2)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start)

	result, err := svc.CancelSeries(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RootID)
	assert.Equal(t, 2, result.CancelledCount)
	// Завершённое вхождение не трогаем
	assert.Equal(t, domain.StatusEnded, repo.bookings[3].Status)
}

func TestCancelSeries_NonRecurringRejected(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start)

	_, err := svc.CancelSeries(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotSeriesRoot)
}

func TestEndEarly_InProgress(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusInProgress
	repo := newFakeBookingRepo(b)
	now := start.Add(30 * time.Minute)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, now)

	resp, err := svc.EndEarly(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusEnded), resp.Status)
	assert.True(t, repo.bookings[1].EndTime.Equal(now))
}

func TestEndEarly_AlreadyEndedNoop(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusEnded
	b.EndTime = start.Add(20 * time.Minute)
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(time.Hour))

	resp, err := svc.EndEarly(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusEnded), resp.Status)
	assert.True(t, repo.bookings[1].EndTime.Equal(start.Add(20*time.Minute)))
}

func TestEndEarly_ScheduledReleasesRoom(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(-time.Hour))

	resp, err := svc.EndEarly(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestMarkNoShows_SecondScanFindsNothing(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	missed := scheduledBooking(1, start)
	checkedIn := scheduledBooking(2, start)
	checkInAt := start.Add(2 * time.Minute)
	checkedIn.Status = domain.StatusInProgress
	checkedIn.CheckInTime = &checkInAt
	upcoming := scheduledBooking(3, start.Add(2*time.Hour))
	repo := newFakeBookingRepo(missed, checkedIn, upcoming)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(20*time.Minute))

	first, err := svc.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Marked)
	assert.Equal(t, []int64{1}, first.BookingIDs)

	second, err := svc.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Marked)
}

func TestDispatchOverdueReminders_IssuesTokenOnce(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusInProgress
	repo := newFakeBookingRepo(b)
	now := start.Add(90 * time.Minute)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, now)

	first, err := svc.DispatchOverdueReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Reminders, 1)
	assert.NotEmpty(t, first.Reminders[0].Token)

	// Токен уже выпущен, повторное напоминание не отправляется
	second, err := svc.DispatchOverdueReminders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Reminders)
}

func TestConsumeActionToken_SingleUse(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusInProgress
	token := "tok_1"
	issuedAt := start.Add(time.Hour)
	b.ActionToken = &token
	b.ActionTokenIssuedAt = &issuedAt
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(65*time.Minute))

	resp, err := svc.ConsumeActionToken(context.Background(), "tok_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Токен погашен при первом использовании
	_, err = svc.ConsumeActionToken(context.Background(), "tok_1")
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.ResolveActionToken(context.Background(), "tok_1")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResolveActionToken_DoesNotConsume(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusInProgress
	token := "tok_3"
	b.ActionToken = &token
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(65*time.Minute))

	_, err := svc.ResolveActionToken(context.Background(), "tok_3")
	require.NoError(t, err)

	// Просмотр ссылки не гасит токен
	resp, err := svc.ResolveActionToken(context.Background(), "tok_3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestResolveActionToken_DeadAfterTerminal(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	b.Status = domain.StatusEnded
	token := "tok_2"
	b.ActionToken = &token
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start.Add(2*time.Hour))

	_, err := svc.ResolveActionToken(context.Background(), "tok_2")

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDelete_SuppressesGoogleEventFirst(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := scheduledBooking(1, start)
	eventID := "evt_9"
	b.GoogleEventID = &eventID
	repo := newFakeBookingRepo(b)
	deleted := newFakeDeletedRepo()
	var presentAtSuppress bool
	deleted.onCreate = func(string, int64) {
		_, presentAtSuppress = repo.bookings[1]
	}
	svc := newTestService(repo, deleted, nil, start)

	require.NoError(t, svc.Delete(context.Background(), 1))

	// Удаление фиксируется, пока строка еще существует, иначе следующая
	// синхронизация воскресит событие
	assert.True(t, presentAtSuppress)
	assert.Contains(t, deleted.events, "evt_9")
	assert.NotContains(t, repo.bookings, int64(1))
}

func TestDelete_NotFound(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeBookingRepo(), newFakeDeletedRepo(), nil, start)

	err := svc.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetRoomBookings_UnknownRoom(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	sync := &fakeSync{}
	svc := newTestService(newFakeBookingRepo(), newFakeDeletedRepo(), sync, start)

	_, err := svc.GetRoomBookings(context.Background(), &models.GetRoomBookingsRequest{RoomID: 99})

	assert.ErrorIs(t, err, ErrRoomNotFound)
	// До проверки существования комнаты синхронизация не запускается
	assert.Equal(t, 0, sync.calls)
}

func TestGetRoomBookings_SyncFailureNotFatal(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo(scheduledBooking(1, start))
	sync := &fakeSync{err: context.DeadlineExceeded}
	svc := newTestService(repo, newFakeDeletedRepo(), sync, start)

	resp, err := svc.GetRoomBookings(context.Background(), &models.GetRoomBookingsRequest{RoomID: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, sync.calls)
	assert.Equal(t, 0, resp.Synced)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetUserBookings_FiltersByHost(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	host := int64(7)
	other := int64(8)

	mine := scheduledBooking(1, start)
	mine.HostUserID = &host
	foreign := scheduledBooking(2, start.Add(2*time.Hour))
	foreign.HostUserID = &other
	cancelled := scheduledBooking(3, start.Add(4*time.Hour))
	cancelled.HostUserID = &host
	cancelled.Status = domain.StatusCancelled

	repo := newFakeBookingRepo(mine, foreign, cancelled)
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{HostUserID: host})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeDeletedRepo(), nil, start)

	bad := "unknown"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{HostUserID: 7, Status: &bad})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
