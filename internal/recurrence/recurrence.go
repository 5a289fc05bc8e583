// Package recurrence разворачивает RRULE (RFC 5545) в конкретные
// временные слоты серии бронирований.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrInvalidRule возвращается при некорректной строке правила
	ErrInvalidRule = errors.New("recurrence: invalid recurrence rule")

	// ErrEmptyExpansion возвращается, когда правило не дает ни одного слота
	ErrEmptyExpansion = errors.New("recurrence: rule expands to no occurrences")

	// ErrTooManyOccurrences возвращается, когда серия превышает лимит
	ErrTooManyOccurrences = errors.New("recurrence: too many occurrences")
)

// Slot один конкретный интервал серии
type Slot struct {
	Start time.Time
	End   time.Time
}

// Expand разворачивает rule в слоты на отрезке [start, until].
// Первый слот при этом сам запрошенный интервал (корень серии).
// Длительность каждого слота равна длительности исходного интервала.
func Expand(rule string, start time.Time, duration time.Duration, until time.Time) ([]Slot, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration", ErrInvalidRule)
	}
	if until.Before(start) {
		return nil, fmt.Errorf("%w: recurrence end before series start", ErrInvalidRule)
	}

	r, err := rrule.StrToRRule(normalize(rule))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	r.DTStart(start)

	starts := r.Between(start, until, true)
	if len(starts) == 0 {
		return nil, ErrEmptyExpansion
	}
	if len(starts) > domain.MaxSeriesOccurrences {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyOccurrences, len(starts), domain.MaxSeriesOccurrences)
	}

	slots := make([]Slot, 0, len(starts))
	for _, s := range starts {
		slots = append(slots, Slot{Start: s, End: s.Add(duration)})
	}

	// rrule гарантирует возрастающий порядок, но DTSTART может не попасть
	// в правило (например, BYDAY без дня начала); тогда корнем серии
	// становится первый реальный слот.
	return slots, nil
}

func normalize(rule string) string {
	rule = strings.TrimSpace(rule)
	rule = strings.TrimPrefix(rule, "RRULE:")
	return rule
}
