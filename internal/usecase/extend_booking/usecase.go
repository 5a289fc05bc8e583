package extend_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
)

// UseCase use case для продления текущей встречи
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute продлевает бронирование на additionalMinutes. Проверка занятости
// окна продления и запись нового времени выполняются в одной сериализуемой
// транзакции: при конфликте бронирование не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendBooking: booking=%d, additionalMinutes=%d", req.BookingID, req.AdditionalMinutes)

	if err := validateMinutes(req.AdditionalMinutes); err != nil {
		uc.logger.Warn("ExtendBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, newEnd, conflict, err := uc.checkExtension(txCtx, req.BookingID, req.AdditionalMinutes)
		if err != nil {
			return err
		}
		if conflict != nil {
			uc.logger.Warn("ExtendBooking: booking=%d conflicts with booking=%d", req.BookingID, conflict.BookingID)
			return &ConflictError{Conflict: *conflict}
		}

		if err := uc.bookingRepo.ExtendEndTime(txCtx, booking.ID, newEnd); err != nil {
			uc.logger.Error("ExtendBooking: failed to extend booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to extend booking: %v", ErrInternal, err)
		}

		booking.EndTime = newEnd
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ExtendBooking: booking id=%d extended until %s", result.ID, result.EndTime.Format(time.RFC3339))

	return &Response{
		ID:        result.ID,
		RoomID:    result.RoomID,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
		Status:    string(result.Status),
	}, nil
}

// CheckAvailability сообщает, возможно ли продление, не меняя бронирование.
// Планшет показывает кнопку продления только когда следующий слот свободен.
func (uc *UseCase) CheckAvailability(ctx context.Context, req *Request) (*AvailabilityResponse, error) {
	if err := validateMinutes(req.AdditionalMinutes); err != nil {
		return nil, err
	}

	booking, newEnd, conflict, err := uc.checkExtension(ctx, req.BookingID, req.AdditionalMinutes)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		BookingID:  booking.ID,
		CanExtend:  conflict == nil,
		NewEndTime: newEnd,
		Conflict:   conflict,
	}, nil
}

func (uc *UseCase) checkExtension(ctx context.Context, id int64, additionalMinutes int) (*domain.Booking, time.Time, *domain.ConflictInfo, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, time.Time{}, nil, ErrBookingNotFound
		}
		uc.logger.Error("ExtendBooking: failed to get booking id=%d: %v", id, err)
		return nil, time.Time{}, nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.Status != domain.StatusScheduled && booking.Status != domain.StatusInProgress {
		return nil, time.Time{}, nil, fmt.Errorf("%w: booking %d is %s", ErrInvalidState, id, booking.Status)
	}

	newEnd := booking.EndTime.Add(time.Duration(additionalMinutes) * time.Minute)

	// Окно продления начинается со старого конца встречи: текущее
	// бронирование пересекаться само с собой не может.
	overlapping, err := uc.bookingRepo.FindOverlapping(ctx, booking.RoomID, booking.EndTime, newEnd, &booking.ID)
	if err != nil {
		uc.logger.Error("ExtendBooking: failed to find overlapping bookings: %v", err)
		return nil, time.Time{}, nil, fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
	}

	if len(overlapping) > 0 {
		conflict := overlapping[0].ConflictOf()
		return booking, newEnd, &conflict, nil
	}
	return booking, newEnd, nil, nil
}

func validateMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: additionalMinutes must be positive", ErrInvalidInput)
	}
	if minutes > domain.MaxExtensionMinutes {
		return fmt.Errorf("%w: additionalMinutes exceeds %d", ErrInvalidInput, domain.MaxExtensionMinutes)
	}
	return nil
}
