// Package gsync сверяет календари Google комнат с локальными бронированиями.
//
// Правила сверки:
//   - новое внешнее событие создает локальное бронирование source=google;
//   - измененное событие обновляет время/название локальной копии;
//   - исчезнувшее или отмененное событие отменяет локальную копию, кроме
//     событий из deleted_google_events (удаление уже обработано локально)
//     и бронирований, созданных недавно (grace window: событие от планшета
//     могло еще не доехать до календаря).
//
// Сверка никогда не трогает бронирования в финальном статусе.
package gsync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/googlecalendar"
)

// Config параметры синхронизации
type Config struct {
	// CreationGrace окно после создания локального бронирования, в течение
	// которого sync не имеет права его перезаписывать или отменять
	CreationGrace time.Duration
	// MinInterval минимальный интервал между синхронизациями одной комнаты
	// (обходится флагом force)
	MinInterval time.Duration
	// Lookbehind и Lookahead задают окно выборки событий вокруг текущего момента
	Lookbehind time.Duration
	Lookahead  time.Duration
}

// Service адаптер синхронизации с Google Calendar
type Service struct {
	bookingRepo  BookingRepository
	deletedRepo  DeletedEventRepository
	roomRepo     RoomRepository
	calendar     CalendarClient
	cfg          Config
	recentSyncs  *gocache.Cache
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр адаптера синхронизации
func NewService(
	bookingRepo BookingRepository,
	deletedRepo DeletedEventRepository,
	roomRepo RoomRepository,
	calendar CalendarClient,
	cfg Config,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		deletedRepo:  deletedRepo,
		roomRepo:     roomRepo,
		calendar:     calendar,
		cfg:          cfg,
		recentSyncs:  gocache.New(cfg.MinInterval, 2*cfg.MinInterval),
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// SyncRoom сверяет календарь комнаты с локальными бронированиями.
// Возвращает число затронутых бронирований. Без force повторная
// синхронизация той же комнаты внутри MinInterval пропускается.
func (s *Service) SyncRoom(ctx context.Context, roomID int64, force bool) (int, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("%w: room id=%d: %v", ErrRoomNotFound, roomID, err)
	}
	if !room.HasCalendar() {
		return 0, ErrNoCalendar
	}

	throttleKey := strconv.FormatInt(roomID, 10)
	if !force {
		if _, found := s.recentSyncs.Get(throttleKey); found {
			s.logger.Debug("SyncRoom: room=%d synced recently, skipping", roomID)
			return 0, nil
		}
	}

	now := s.timeProvider.Now()
	from := now.Add(-s.cfg.Lookbehind)
	to := now.Add(s.cfg.Lookahead)

	events, err := s.calendar.ListEvents(ctx, *room.GoogleCalendarID, from, to)
	if err != nil {
		s.metrics.IncSyncFailures()
		return 0, fmt.Errorf("%w: room=%d: %v", ErrSyncFailed, roomID, err)
	}

	deleted, err := s.deletedRepo.ListEventIDsByRoom(ctx, roomID)
	if err != nil {
		s.metrics.IncSyncFailures()
		return 0, fmt.Errorf("%w: list deleted events: %v", ErrInternal, err)
	}

	locals, err := s.bookingRepo.GetGoogleLinkedByRoom(ctx, roomID, from)
	if err != nil {
		s.metrics.IncSyncFailures()
		return 0, fmt.Errorf("%w: list linked bookings: %v", ErrInternal, err)
	}

	synced, err := s.reconcile(ctx, roomID, now, events, locals, deleted)
	if err != nil {
		s.metrics.IncSyncFailures()
		return synced, err
	}

	s.recentSyncs.Set(throttleKey, now, gocache.DefaultExpiration)
	s.metrics.AddSyncedBookings(synced)
	s.logger.Info("SyncRoom: room=%d synced=%d events=%d locals=%d", roomID, synced, len(events), len(locals))
	return synced, nil
}

func (s *Service) reconcile(
	ctx context.Context,
	roomID int64,
	now time.Time,
	events []googlecalendar.Event,
	locals []*domain.Booking,
	deleted map[string]struct{},
) (int, error) {
	byEventID := make(map[string]*domain.Booking, len(locals))
	for _, b := range locals {
		if b.GoogleEventID != nil {
			byEventID[*b.GoogleEventID] = b
		}
	}

	remote := make(map[string]struct{}, len(events))
	synced := 0

	for _, e := range events {
		if _, isDeleted := deleted[e.ID]; isDeleted {
			continue
		}
		remote[e.ID] = struct{}{}

		local, exists := byEventID[e.ID]

		if e.IsCancelled() {
			if exists && !local.IsTerminal() && !s.inGraceWindow(local, now) {
				if err := s.bookingRepo.Cancel(ctx, local.ID); err != nil {
					return synced, fmt.Errorf("%w: cancel booking id=%d: %v", ErrInternal, local.ID, err)
				}
				synced++
			}
			continue
		}

		if !exists {
			if !e.End.After(now) {
				// Прошедшие события не материализуем
				continue
			}
			if err := s.createFromEvent(ctx, roomID, now, e); err != nil {
				// Событие, пересекшееся с локальным бронированием,
				// пропускаем; остальные события комнаты сверяем
				s.logger.Warn("reconcile: room=%d event=%s skipped: %v", roomID, e.ID, err)
				continue
			}
			synced++
			continue
		}

		// Статус, выставленный локально, в grace window не перезаписываем
		if s.inGraceWindow(local, now) || local.IsTerminal() {
			continue
		}

		if local.Title != e.Summary || !local.StartTime.Equal(e.Start) || !local.EndTime.Equal(e.End) {
			if err := s.bookingRepo.UpdateEventFields(ctx, local.ID, e.Summary, e.Start, e.End); err != nil {
				return synced, fmt.Errorf("%w: update booking id=%d: %v", ErrInternal, local.ID, err)
			}
			synced++
		}
	}

	// События, исчезнувшие из календаря: отменяем локальные копии source=google
	for _, local := range locals {
		if local.Source != domain.SourceGoogle || local.GoogleEventID == nil {
			continue
		}
		if _, stillRemote := remote[*local.GoogleEventID]; stillRemote {
			continue
		}
		if _, isDeleted := deleted[*local.GoogleEventID]; isDeleted {
			continue
		}
		if local.IsTerminal() || s.inGraceWindow(local, now) {
			continue
		}

		if err := s.bookingRepo.Cancel(ctx, local.ID); err != nil {
			return synced, fmt.Errorf("%w: cancel vanished booking id=%d: %v", ErrInternal, local.ID, err)
		}
		synced++
	}

	return synced, nil
}

func (s *Service) createFromEvent(ctx context.Context, roomID int64, now time.Time, e googlecalendar.Event) error {
	status := domain.StatusScheduled
	if !e.Start.After(now) {
		status = domain.StatusInProgress
	}

	var description *string
	if e.Description != "" {
		description = &e.Description
	}

	eventID := e.ID
	b := &domain.Booking{
		RoomID:         roomID,
		OrganizerEmail: e.OrganizerEmail,
		Title:          e.Summary,
		Description:    description,
		StartTime:      e.Start,
		EndTime:        e.End,
		Status:         status,
		Source:         domain.SourceGoogle,
		GoogleEventID:  &eventID,
	}

	if _, err := s.bookingRepo.Create(ctx, b); err != nil {
		return fmt.Errorf("%w: create booking from event id=%s: %v", ErrInternal, e.ID, err)
	}
	return nil
}

func (s *Service) inGraceWindow(b *domain.Booking, now time.Time) bool {
	return now.Sub(b.CreatedAt) < s.cfg.CreationGrace
}
