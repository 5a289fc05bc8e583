package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
)

// UseCase use case для получения сетки доступных слотов переговорной
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Сетка строится по рабочему дню комнаты; слот помечается занятым,
// если пересекается с активным бронированием или уже начался.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: room=%d, date=%s, slotMinutes=%d",
		req.RoomID, req.Date.Format(domain.DateFormat), req.SlotMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.cfg); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Проверяем существование переговорной
	if _, err := uc.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("GetAvailableSlots: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Генерируем сетку слотов рабочего дня
	slotDuration := uc.cfg.SlotStep
	if req.SlotMinutes > 0 {
		slotDuration = time.Duration(req.SlotMinutes) * time.Minute
	}
	slots := generateTimeSlots(req.Date, slotDuration, uc.cfg)

	// 4. Получаем бронирования комнаты за день
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	bookings, err := uc.bookingRepo.GetByRoomWithFilter(ctx, domain.RoomBookingsFilter{
		RoomID: req.RoomID,
		From:   &dayStart,
		To:     &dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Помечаем занятые и прошедшие слоты
	markOccupiedSlots(slots, bookings)
	if isSameDay(req.Date, now) {
		markPastSlots(slots, now)
	}

	return &Response{
		RoomID: req.RoomID,
		Date:   req.Date,
		Slots:  slots,
	}, nil
}
