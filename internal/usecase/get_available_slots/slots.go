package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// generateTimeSlots генерирует сетку слотов рабочего дня [DayStart, DayEnd)
// с фиксированным шагом. Слот, не помещающийся целиком до конца дня,
// не генерируется.
func generateTimeSlots(date time.Time, slotDuration time.Duration, cfg Config) []Slot {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), cfg.DayStart, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), cfg.DayEnd, 0, 0, 0, date.Location())

	slots := make([]Slot, 0)
	for start := dayStart; !start.Add(slotDuration).After(dayEnd); start = start.Add(cfg.SlotStep) {
		slots = append(slots, Slot{
			StartTime: start,
			EndTime:   start.Add(slotDuration),
			Available: true,
		})
	}

	return slots
}

// markOccupiedSlots помечает занятыми слоты, пересекающиеся с активными
// бронированиями. Интервалы полуоткрытые: бронирование, заканчивающееся
// ровно на границе слота, слот не занимает.
func markOccupiedSlots(slots []Slot, bookings []*domain.Booking) {
	for i := range slots {
		for _, b := range bookings {
			if !b.OccupiesRoom() {
				continue
			}
			if b.Overlaps(slots[i].StartTime, slots[i].EndTime) {
				slots[i].Available = false
				break
			}
		}
	}
}

// markPastSlots помечает занятыми слоты, которые уже начались.
// Применяется только для сегодняшней даты.
func markPastSlots(slots []Slot, now time.Time) {
	for i := range slots {
		if !slots[i].StartTime.After(now) {
			slots[i].Available = false
		}
	}
}
