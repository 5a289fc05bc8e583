package googlecalendar

import "errors"

var (
	// ErrCalendarNotFound возвращается, когда календарь ресурса не найден
	ErrCalendarNotFound = errors.New("googlecalendar: calendar not found")

	// ErrUnavailable возвращается, когда провайдер недоступен или вернул 5xx
	ErrUnavailable = errors.New("googlecalendar: provider unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("googlecalendar: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("googlecalendar: internal error")
)
