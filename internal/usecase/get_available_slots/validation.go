package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, cfg Config) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotMinutes < 0 {
		return fmt.Errorf("%w: slotMinutes must not be negative", ErrInvalidInput)
	}

	if req.SlotMinutes > 0 && time.Duration(req.SlotMinutes)*time.Minute > dayLength(cfg) {
		return fmt.Errorf("%w: slotMinutes exceeds the working day", ErrInvalidInput)
	}

	return nil
}

func dayLength(cfg Config) time.Duration {
	return time.Duration(cfg.DayEnd-cfg.DayStart) * time.Hour
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
