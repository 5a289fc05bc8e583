package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	RoomID         int64      // ID переговорной
	HostUserID     *int64     // ID сотрудника-организатора (опционально)
	OrganizerEmail string     // Email организатора
	Title          string     // Тема встречи
	Description    *string    // Описание (опционально)
	StartTime      time.Time  // Начало встречи
	EndTime        time.Time  // Конец встречи
	Source         string     // Источник бронирования (web/admin)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64     // ID созданного бронирования
	RoomID         int64     // ID переговорной
	HostUserID     *int64    // ID организатора
	OrganizerEmail string    // Email организатора
	Title          string    // Тема встречи
	Description    *string   // Описание
	StartTime      time.Time // Начало встречи
	EndTime        time.Time // Конец встречи
	Status         string    // Статус бронирования
	Source         string    // Источник

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		RoomID:         b.RoomID,
		HostUserID:     b.HostUserID,
		OrganizerEmail: b.OrganizerEmail,
		Title:          b.Title,
		Description:    b.Description,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		Source:         string(b.Source),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
