package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	storage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomstorage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// Policy временные окна жизненного цикла бронирований.
type Policy struct {
	CheckInEarly time.Duration
	CheckInLate  time.Duration
	NoShowGrace  time.Duration
}

// Service сервис управления жизненным циклом бронирований
type Service struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	deletedRepo  DeletedEventRepository
	syncService  SyncService
	policy       Policy
	timeProvider TimeProvider
	logger       Logger
}

func NewService(bookingRepo BookingRepository, roomRepo RoomRepository, deletedRepo DeletedEventRepository, syncService SyncService, policy Policy, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		deletedRepo:  deletedRepo,
		syncService:  syncService,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider заменяет источник времени (используется в тестах)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: GetByID - booking %d", ErrBookingNotFound, id)
		}
		s.logger.Error("GetByID: ошибка получения бронирования id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetRoomBookings возвращает бронирования переговорной за период.
// Перед чтением запускает синхронизацию с Google Calendar; её сбой не
// блокирует выдачу локальных данных.
func (s *Service) GetRoomBookings(ctx context.Context, req *models.GetRoomBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoomBookings - %v", ErrInvalidInput, err)
	}

	if _, err := s.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomstorage.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: GetRoomBookings - room %d", ErrRoomNotFound, req.RoomID)
		}
		s.logger.Error("GetRoomBookings: ошибка получения комнаты %d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: GetRoomBookings - repository error: %v", ErrInternal, err)
	}

	synced := 0
	if s.syncService != nil {
		n, syncErr := s.syncService.SyncRoom(ctx, req.RoomID, req.ForceSync)
		if syncErr != nil {
			s.logger.Warn("GetRoomBookings: синхронизация комнаты %d не удалась: %v", req.RoomID, syncErr)
		} else {
			synced = n
		}
	}

	bookings, err := s.bookingRepo.GetByRoomWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetRoomBookings: ошибка получения бронирований комнаты %d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: GetRoomBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings, synced), nil
}

// GetUserBookings возвращает бронирования, организованные пользователем.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.UserBookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserBookings - %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByHostWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: ошибка получения бронирований пользователя %d: %v", req.HostUserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainUserBookingList(bookings), nil
}

// Cancel отменяет бронирование. Повторная отмена идемпотентна.
func (s *Service) Cancel(ctx context.Context, id int64) (*models.CancelResult, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: Cancel - booking %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.Status == domain.StatusCancelled {
		return &models.CancelResult{ID: id, AlreadyCancelled: true}, nil
	}
	if booking.Status != domain.StatusScheduled {
		return nil, fmt.Errorf("%w: Cancel - booking %d in status %s", ErrInvalidState, id, booking.Status)
	}

	if err := s.bookingRepo.Cancel(ctx, id); err != nil {
		s.logger.Error("Cancel: ошибка отмены бронирования id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}
	s.suppressGoogleEvent(ctx, booking)

	s.logger.Info("Cancel: бронирование id=%d отменено", id)
	return &models.CancelResult{ID: id}, nil
}

// CancelSeries отменяет все запланированные бронирования повторяющейся серии.
// Принимает ID корня серии либо любого её вхождения.
func (s *Service) CancelSeries(ctx context.Context, id int64) (*models.SeriesCancelResult, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: CancelSeries - booking %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: CancelSeries - repository error: %v", ErrInternal, err)
	}

	rootID := booking.ID
	if booking.IsOccurrence() {
		rootID = *booking.RecurringParentID
	} else if !booking.IsSeriesRoot() {
		return nil, fmt.Errorf("%w: CancelSeries - booking %d is not recurring", ErrNotSeriesRoot, id)
	}

	cancelled, err := s.bookingRepo.CancelSeriesScheduled(ctx, rootID)
	if err != nil {
		s.logger.Error("CancelSeries: ошибка отмены серии root=%d: %v", rootID, err)
		return nil, fmt.Errorf("%w: CancelSeries - repository error: %v", ErrInternal, err)
	}

	for _, c := range cancelled {
		if c.GoogleEventID != nil {
			if err := s.deletedRepo.Create(ctx, *c.GoogleEventID, booking.RoomID); err != nil {
				s.logger.Warn("CancelSeries: не удалось записать удалённое событие %s: %v", *c.GoogleEventID, err)
			}
		}
	}

	s.logger.Info("CancelSeries: отменено %d бронирований серии root=%d", len(cancelled), rootID)
	return &models.SeriesCancelResult{RootID: rootID, CancelledCount: len(cancelled)}, nil
}

// CheckIn отмечает прибытие участников. Разрешено только в окне
// [start - CheckInEarly, start + CheckInLate].
func (s *Service) CheckIn(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: CheckIn - booking %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
	}

	if booking.Status != domain.StatusScheduled {
		return nil, fmt.Errorf("%w: CheckIn - booking %d in status %s", ErrInvalidState, id, booking.Status)
	}

	now := s.timeProvider.Now()
	if now.Before(booking.StartTime.Add(-s.policy.CheckInEarly)) {
		return nil, fmt.Errorf("%w: CheckIn - booking %d starts at %s", ErrCheckInTooEarly, id, booking.StartTime.Format(time.RFC3339))
	}
	if now.After(booking.StartTime.Add(s.policy.CheckInLate)) {
		return nil, fmt.Errorf("%w: CheckIn - booking %d started at %s", ErrCheckInTooLate, id, booking.StartTime.Format(time.RFC3339))
	}

	if err := s.bookingRepo.SetCheckIn(ctx, id, now); err != nil {
		s.logger.Error("CheckIn: ошибка отметки прибытия id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusInProgress
	booking.CheckInTime = &now

	s.logger.Info("CheckIn: бронирование id=%d переведено в in_progress", id)
	return models.FromDomainBooking(booking), nil
}

// EndEarly досрочно завершает встречу и освобождает переговорную.
// Повторное завершение идемпотентно.
func (s *Service) EndEarly(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: EndEarly - booking %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: EndEarly - repository error: %v", ErrInternal, err)
	}

	switch booking.Status {
	case domain.StatusEnded:
		return models.FromDomainBooking(booking), nil
	case domain.StatusScheduled:
		// Встреча ещё не началась: завершение равносильно отмене.
		if err := s.bookingRepo.Cancel(ctx, id); err != nil {
			s.logger.Error("EndEarly: ошибка отмены бронирования id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: EndEarly - repository error: %v", ErrInternal, err)
		}
		s.suppressGoogleEvent(ctx, booking)
		booking.Status = domain.StatusCancelled
		return models.FromDomainBooking(booking), nil
	case domain.StatusInProgress:
		now := s.timeProvider.Now()
		if !now.Before(booking.EndTime) {
			now = booking.EndTime
		}
		if err := s.bookingRepo.SetEnded(ctx, id, now); err != nil {
			s.logger.Error("EndEarly: ошибка завершения бронирования id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: EndEarly - repository error: %v", ErrInternal, err)
		}
		booking.Status = domain.StatusEnded
		booking.EndTime = now
		s.logger.Info("EndEarly: бронирование id=%d завершено досрочно", id)
		return models.FromDomainBooking(booking), nil
	default:
		return nil, fmt.Errorf("%w: EndEarly - booking %d in status %s", ErrInvalidState, id, booking.Status)
	}
}

// MarkNoShows переводит в no_show запланированные бронирования, по которым
// не было отметки прибытия в течение грейс-периода после начала.
func (s *Service) MarkNoShows(ctx context.Context) (*models.NoShowScanResult, error) {
	cutoff := s.timeProvider.Now().Add(-s.policy.NoShowGrace)

	ids, err := s.bookingRepo.MarkNoShows(ctx, cutoff)
	if err != nil {
		s.logger.Error("MarkNoShows: ошибка сканирования: %v", err)
		return nil, fmt.Errorf("%w: MarkNoShows - repository error: %v", ErrInternal, err)
	}

	if len(ids) > 0 {
		s.logger.Info("MarkNoShows: помечено %d бронирований как no_show", len(ids))
	}
	return &models.NoShowScanResult{
		Marked:       len(ids),
		GraceMinutes: int(s.policy.NoShowGrace / time.Minute),
		BookingIDs:   ids,
	}, nil
}

// DispatchOverdueReminders находит просроченные встречи без отправленного
// напоминания и выпускает для каждой одноразовый токен действия.
func (s *Service) DispatchOverdueReminders(ctx context.Context) (*models.ReminderDispatchResult, error) {
	now := s.timeProvider.Now()

	overdue, err := s.bookingRepo.FindOverdue(ctx, now)
	if err != nil {
		s.logger.Error("DispatchOverdueReminders: ошибка поиска просроченных встреч: %v", err)
		return nil, fmt.Errorf("%w: DispatchOverdueReminders - repository error: %v", ErrInternal, err)
	}

	result := &models.ReminderDispatchResult{Reminders: make([]models.Reminder, 0, len(overdue))}
	for _, ob := range overdue {
		token := uuid.NewString()
		if err := s.bookingRepo.SetActionToken(ctx, ob.Booking.ID, token, now); err != nil {
			s.logger.Warn("DispatchOverdueReminders: не удалось выпустить токен для id=%d: %v", ob.Booking.ID, err)
			continue
		}
		result.Reminders = append(result.Reminders, models.Reminder{
			Overdue: models.FromDomainOverdue(ob),
			Token:   token,
		})
	}

	if len(result.Reminders) > 0 {
		s.logger.Info("DispatchOverdueReminders: выпущено %d напоминаний", len(result.Reminders))
	}
	return result, nil
}

// ResolveActionToken находит бронирование по одноразовому токену.
// Токен мёртв, если бронирование уже в терминальном статусе.
func (s *Service) ResolveActionToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByActionToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: ResolveActionToken - unknown token", ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: ResolveActionToken - repository error: %v", ErrInternal, err)
	}

	if booking.IsTerminal() {
		return nil, fmt.Errorf("%w: ResolveActionToken - booking %d already %s", ErrTokenExpired, booking.ID, booking.Status)
	}

	return models.FromDomainBooking(booking), nil
}

// ConsumeActionToken атомарно гасит токен и возвращает бронирование.
// Токен одноразовый: из конкурентных запросов бронирование получит ровно
// один, остальные увидят ErrTokenExpired.
func (s *Service) ConsumeActionToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.ConsumeActionToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: ConsumeActionToken - unknown token", ErrTokenExpired)
		}
		s.logger.Error("ConsumeActionToken: ошибка гашения токена: %v", err)
		return nil, fmt.Errorf("%w: ConsumeActionToken - repository error: %v", ErrInternal, err)
	}

	if booking.IsTerminal() {
		return nil, fmt.Errorf("%w: ConsumeActionToken - booking %d already %s", ErrTokenExpired, booking.ID, booking.Status)
	}

	return models.FromDomainBooking(booking), nil
}

// Delete удаляет бронирование (административная операция)
func (s *Service) Delete(ctx context.Context, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return fmt.Errorf("%w: Delete - booking %d", ErrBookingNotFound, id)
		}
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Фиксируем удаление до физического удаления строки, иначе следующая
	// синхронизация воскресит событие из Google Calendar.
	s.suppressGoogleEvent(ctx, booking)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Delete: ошибка удаления бронирования id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: бронирование id=%d удалено", id)
	return nil
}

func (s *Service) suppressGoogleEvent(ctx context.Context, booking *domain.Booking) {
	if booking.GoogleEventID == nil {
		return
	}
	if err := s.deletedRepo.Create(ctx, *booking.GoogleEventID, booking.RoomID); err != nil {
		s.logger.Warn("suppressGoogleEvent: не удалось записать удалённое событие %s: %v", *booking.GoogleEventID, err)
	}
}
