package extend_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("extend_booking: booking not found")

	// ErrInvalidState возвращается, когда бронирование нельзя продлить в текущем статусе
	ErrInvalidState = errors.New("extend_booking: booking cannot be extended in its current state")

	// ErrTimeConflict возвращается, когда продление упирается в следующее бронирование
	ErrTimeConflict = errors.New("extend_booking: extension conflicts with the next booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("extend_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_booking: internal error")
)

// ConflictError ошибка продления с данными мешающего бронирования
type ConflictError struct {
	Conflict domain.ConflictInfo
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("extend_booking: conflict with booking %d starting at %s",
		e.Conflict.BookingID, e.Conflict.StartTime.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}
