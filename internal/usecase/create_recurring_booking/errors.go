package create_recurring_booking

import "errors"

var (
	// ErrRoomNotFound возвращается, когда переговорная не найдена
	ErrRoomNotFound = errors.New("create_recurring_booking: room not found")

	// ErrInvalidRule возвращается при некорректном правиле повторения
	ErrInvalidRule = errors.New("create_recurring_booking: invalid recurrence rule")

	// ErrAllSlotsConflict возвращается, когда все вхождения серии конфликтуют
	ErrAllSlotsConflict = errors.New("create_recurring_booking: all occurrences conflict with existing bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_booking: internal error")
)
