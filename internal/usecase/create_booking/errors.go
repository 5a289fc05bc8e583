package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда переговорная не найдена
	ErrRoomNotFound = errors.New("create_booking: room not found")

	// ErrTimeConflict возвращается, когда запрошенный интервал пересекается с существующим бронированием
	ErrTimeConflict = errors.New("create_booking: time conflict with existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError ошибка пересечения интервалов с данными конфликтующего бронирования
type ConflictError struct {
	Conflict domain.ConflictInfo
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("create_booking: time conflict with booking %d (%s - %s)",
		e.Conflict.BookingID,
		e.Conflict.StartTime.Format(time.RFC3339),
		e.Conflict.EndTime.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}
