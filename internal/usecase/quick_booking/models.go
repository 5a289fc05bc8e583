package quick_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса на быстрое бронирование с планшета
type Request struct {
	DeviceKey       string // Ключ планшета из заголовка запроса
	DurationMinutes int    // Длительность в минутах (0 - длительность по умолчанию)
	Title           string // Тема встречи (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64     // ID созданного бронирования
	RoomID    int64     // ID переговорной
	Title     string    // Тема встречи
	StartTime time.Time // Начало встречи
	EndTime   time.Time // Конец встречи
	Status    string    // Статус (сразу in_progress)
	Source    string    // Источник (tablet)
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:        b.ID,
		RoomID:    b.RoomID,
		Title:     b.Title,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		Source:    string(b.Source),
	}
}
