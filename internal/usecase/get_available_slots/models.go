package get_available_slots

import "time"

// Config параметры сетки слотов
type Config struct {
	SlotStep time.Duration // шаг сетки
	DayStart int           // час начала рабочего дня
	DayEnd   int           // час конца рабочего дня
}

// Request модель запроса на получение доступных слотов
type Request struct {
	RoomID      int64     // ID переговорной
	Date        time.Time // Дата, на которую запрашиваются слоты (без времени)
	SlotMinutes int       // Длительность слота; при 0 используется шаг сетки
}

// Response модель ответа со списком слотов
type Response struct {
	RoomID int64
	Date   time.Time
	Slots  []Slot
}

// Slot временной слот сетки рабочего дня
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
}
