package gsync

import "errors"

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("gsync: room not found")

	// ErrNoCalendar возвращается, когда комната не привязана к календарю
	ErrNoCalendar = errors.New("gsync: room has no linked calendar")

	// ErrSyncFailed возвращается, когда синхронизация с провайдером не удалась.
	// Пути чтения обязаны переживать эту ошибку и отдавать локальные данные.
	ErrSyncFailed = errors.New("gsync: calendar sync failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("gsync: internal error")
)
