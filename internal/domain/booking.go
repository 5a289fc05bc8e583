package domain

import (
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusInProgress BookingStatus = "in_progress"
	StatusEnded      BookingStatus = "ended"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// BookingSource identifies where a booking was created
type BookingSource string

const (
	SourceTablet BookingSource = "tablet"
	SourceWeb    BookingSource = "web"
	SourceGoogle BookingSource = "google"
	SourceAdmin  BookingSource = "admin"
)

// Booking represents a single room reservation (one occurrence of a
// possibly recurring series)
type Booking struct {
	ID             int64
	RoomID         int64
	HostUserID     *int64 // nil, когда организатор не сопоставлен с пользователем
	OrganizerEmail string
	Title          string
	Description    *string
	StartTime      time.Time
	EndTime        time.Time
	Status         BookingStatus
	Source         BookingSource

	IsRecurring       bool
	RecurringParentID *int64
	RecurrenceRule    *string    // RRULE, только у корня серии
	RecurrenceEndDate *time.Time // только у корня серии

	CheckInTime   *time.Time
	GoogleEventID *string

	// Одноразовый токен для ссылок в напоминании о просроченном бронировании
	ActionToken         *string
	ActionTokenIssuedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusEnded || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// OccupiesRoom returns true if the booking counts for the room overlap
// invariant. Cancelled and no-show bookings release the room.
func (b *Booking) OccupiesRoom() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// IsSeriesRoot returns true if the booking is the root of a recurring series
func (b *Booking) IsSeriesRoot() bool {
	return b.IsRecurring && b.RecurringParentID == nil
}

// IsOccurrence returns true if the booking belongs to a recurring series
// as a non-root occurrence
func (b *Booking) IsOccurrence() bool {
	return b.RecurringParentID != nil
}

// Overlaps reports whether [start, end) intersects the booking's interval.
// Intervals are half-open: a booking ending exactly when another starts
// does not conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// ConflictOf builds the user-facing descriptor of the blocking booking
func (b *Booking) ConflictOf() ConflictInfo {
	return ConflictInfo{
		BookingID:      b.ID,
		OrganizerEmail: b.OrganizerEmail,
		Title:          b.Title,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
	}
}

// ConflictInfo describes the booking that blocks a create/extend request
type ConflictInfo struct {
	BookingID      int64
	OrganizerEmail string
	Title          string
	StartTime      time.Time
	EndTime        time.Time
}

// RoomBookingsFilter фильтр для выборки бронирований комнаты
type RoomBookingsFilter struct {
	RoomID           int64
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода (опционально)
	Status           *BookingStatus
	IncludeCancelled bool
}

// UserBookingsFilter фильтр для выборки бронирований пользователя
type UserBookingsFilter struct {
	HostUserID       int64
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода (опционально)
	Status           *BookingStatus
	IncludeCancelled bool
}

// OverdueBooking is an in_progress booking past its end time, enriched
// for notification composition
type OverdueBooking struct {
	Booking      Booking
	HostName     *string
	HostEmail    *string
	RoomName     string
	LocationName string
}
