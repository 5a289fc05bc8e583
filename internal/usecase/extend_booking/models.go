package extend_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса на продление бронирования
type Request struct {
	BookingID         int64 // ID бронирования
	AdditionalMinutes int   // На сколько минут продлить
}

// Response модель ответа с продленным бронированием
type Response struct {
	ID        int64     // ID бронирования
	RoomID    int64     // ID переговорной
	StartTime time.Time // Начало встречи
	EndTime   time.Time // Новый конец встречи
	Status    string    // Статус бронирования
}

// AvailabilityResponse результат проверки возможности продления
type AvailabilityResponse struct {
	BookingID  int64                // ID бронирования
	CanExtend  bool                 // Можно ли продлить
	NewEndTime time.Time            // Конец встречи после продления
	Conflict   *domain.ConflictInfo // Мешающее бронирование, если продлить нельзя
}
