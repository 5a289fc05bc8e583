package quick_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	deviceRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/device"
)

// DefaultTitle тема встречи, если планшет ее не передал
const DefaultTitle = "Быстрая встреча"

// Config настройки быстрого бронирования
type Config struct {
	DefaultDuration time.Duration
	MaxDuration     time.Duration
}

// UseCase use case для быстрого бронирования с планшета у переговорной.
// Встреча начинается немедленно и сразу считается начатой: человек
// физически стоит у комнаты, отметка прибытия не нужна.
type UseCase struct {
	bookingRepo  BookingRepository
	deviceRepo   DeviceRepository
	txManager    TransactionManager
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	deviceRepo DeviceRepository,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		deviceRepo:   deviceRepo,
		txManager:    txManager,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case быстрого бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Аутентифицируем планшет и определяем комнату
	device, err := uc.deviceRepo.GetByKey(ctx, req.DeviceKey)
	if err != nil {
		if errors.Is(err, deviceRepo.ErrDeviceNotFound) {
			uc.logger.Warn("QuickBooking: unknown device key")
			return nil, ErrDeviceNotFound
		}
		uc.logger.Error("QuickBooking: failed to get device: %v", err)
		return nil, fmt.Errorf("%w: failed to get device: %v", ErrInternal, err)
	}
	if !device.Active {
		uc.logger.Warn("QuickBooking: device id=%d is inactive", device.ID)
		return nil, ErrDeviceInactive
	}

	uc.logger.Info("QuickBooking: device=%d, room=%d, duration=%d",
		device.ID, device.RoomID, req.DurationMinutes)

	// 2. Определяем интервал встречи
	duration := uc.cfg.DefaultDuration
	if req.DurationMinutes != 0 {
		if req.DurationMinutes < 0 {
			return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
		}
		duration = time.Duration(req.DurationMinutes) * time.Minute
		if duration > uc.cfg.MaxDuration {
			return nil, fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidInput, int(uc.cfg.MaxDuration/time.Minute))
		}
	}

	now := uc.timeProvider.Now()
	start := now.Truncate(time.Minute)
	end := start.Add(duration)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle
	}
	if len(title) > domain.MaxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 3. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, device.RoomID, start, end, nil)
		if err != nil {
			uc.logger.Error("QuickBooking: failed to find overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("QuickBooking: room=%d occupied by booking id=%d",
				device.RoomID, overlapping[0].ID)
			return ErrRoomOccupied
		}

		booking := &domain.Booking{
			RoomID:      device.RoomID,
			Title:       title,
			StartTime:   start,
			EndTime:     end,
			Status:      domain.StatusInProgress,
			Source:      domain.SourceTablet,
			CheckInTime: &now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOverlapConstraint) {
				return ErrRoomOccupied
			}
			uc.logger.Error("QuickBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("QuickBooking: successfully created booking id=%d for room=%d", result.ID, result.RoomID)

	return toResponse(result), nil
}
