package create_recurring_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модель запроса на создание повторяющейся серии бронирований
type Request struct {
	RoomID            int64     // ID переговорной
	HostUserID        *int64    // ID сотрудника-организатора (опционально)
	OrganizerEmail    string    // Email организатора
	Title             string    // Тема встречи
	Description       *string   // Описание (опционально)
	StartTime         time.Time // Начало первого вхождения
	EndTime           time.Time // Конец первого вхождения
	RecurrenceRule    string    // Правило повторения (RFC 5545 RRULE)
	RecurrenceEndDate time.Time // Дата окончания серии
}

// CreatedBooking одно созданное вхождение серии
type CreatedBooking struct {
	ID        int64     // ID бронирования
	StartTime time.Time // Начало
	EndTime   time.Time // Конец
	IsRoot    bool      // Корень серии
}

// SkippedSlot вхождение, пропущенное из-за конфликта
type SkippedSlot struct {
	StartTime time.Time           // Начало запрошенного слота
	EndTime   time.Time           // Конец запрошенного слота
	Conflict  domain.ConflictInfo // С чем конфликтует
}

// Response результат создания серии. Серия создается частично:
// конфликтующие вхождения пропускаются, остальные создаются.
type Response struct {
	RootID  int64            // ID корня серии
	Created []CreatedBooking // Созданные вхождения
	Skipped []SkippedSlot    // Пропущенные из-за конфликтов
}
