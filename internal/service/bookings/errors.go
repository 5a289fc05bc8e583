package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidState возвращается, когда операция неприменима к текущему
	// статусу бронирования
	ErrInvalidState = errors.New("operation is not valid for current booking status")

	// ErrCheckInTooEarly возвращается при попытке check-in задолго до начала
	ErrCheckInTooEarly = errors.New("too early to check in")

	// ErrCheckInTooLate возвращается, когда окно check-in уже закрыто
	ErrCheckInTooLate = errors.New("too late to check in")

	// ErrTokenExpired возвращается, когда токен неизвестен или уже использован
	ErrTokenExpired = errors.New("action token is unknown or already used")

	// ErrNotSeriesRoot возвращается при отмене серии по ID одиночного бронирования
	ErrNotSeriesRoot = errors.New("booking is not part of a recurring series")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
