package models

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Request модели

// GetRoomBookingsRequest запрос на получение бронирований комнаты
type GetRoomBookingsRequest struct {
	RoomID           int64
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool
	ForceSync        bool // Принудительная синхронизация с календарем
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetRoomBookingsRequest) ToDomainFilter() (domain.RoomBookingsFilter, error) {
	filter := domain.RoomBookingsFilter{
		RoomID:           r.RoomID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		if !domain.ValidStatus(status) {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	HostUserID       int64
	From             *time.Time
	To               *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter() (domain.UserBookingsFilter, error) {
	filter := domain.UserBookingsFilter{
		HostUserID:       r.HostUserID,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		if !domain.ValidStatus(status) {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64   `json:"id"`
	RoomID         int64   `json:"roomId"`
	HostUserID     *int64  `json:"hostUserId,omitempty"`
	OrganizerEmail string  `json:"organizerEmail"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	StartTime      string  `json:"startTime"` // RFC 3339
	EndTime        string  `json:"endTime"`   // RFC 3339
	Status         string  `json:"status"`
	Source         string  `json:"source"`

	IsRecurring       bool    `json:"isRecurring"`
	RecurringParentID *int64  `json:"recurringParentId,omitempty"`
	RecurrenceRule    *string `json:"recurrenceRule,omitempty"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"`

	CheckInTime   *string `json:"checkInTime,omitempty"`
	GoogleEventID *string `json:"googleEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Synced   int               `json:"synced"` // Сколько бронирований затронула синхронизация
}

// UserBookingListResponse ответ со списком бронирований пользователя
type UserBookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelResult результат отмены бронирования
type CancelResult struct {
	ID               int64 `json:"id"`
	AlreadyCancelled bool  `json:"alreadyCancelled"`
}

// SeriesCancelResult результат отмены серии
type SeriesCancelResult struct {
	RootID         int64 `json:"rootId"`
	CancelledCount int   `json:"cancelledCount"`
}

// NoShowScanResult результат сканирования no-show
type NoShowScanResult struct {
	Marked       int     `json:"marked"`
	GraceMinutes int     `json:"graceMinutes"`
	BookingIDs   []int64 `json:"bookingIds"`
}

// OverdueBookingResponse просроченное бронирование с данными для письма
type OverdueBookingResponse struct {
	Booking      BookingResponse `json:"booking"`
	HostName     *string         `json:"hostName,omitempty"`
	HostEmail    *string         `json:"hostEmail,omitempty"`
	RoomName     string          `json:"roomName"`
	LocationName string          `json:"locationName"`
}

// ReminderDispatchResult результат выдачи токенов напоминаний
type ReminderDispatchResult struct {
	Reminders []Reminder `json:"reminders"`
}

// Reminder одно подготовленное напоминание: токен вклеивается в ссылки
// действий письма внешним почтовым слоем
type Reminder struct {
	Overdue OverdueBookingResponse `json:"overdue"`
	Token   string                 `json:"token"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                b.ID,
		RoomID:            b.RoomID,
		HostUserID:        b.HostUserID,
		OrganizerEmail:    b.OrganizerEmail,
		Title:             b.Title,
		Description:       b.Description,
		StartTime:         b.StartTime.Format(time.RFC3339),
		EndTime:           b.EndTime.Format(time.RFC3339),
		Status:            string(b.Status),
		Source:            string(b.Source),
		IsRecurring:       b.IsRecurring,
		RecurringParentID: b.RecurringParentID,
		RecurrenceRule:    b.RecurrenceRule,
		GoogleEventID:     b.GoogleEventID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}

	if b.RecurrenceEndDate != nil {
		s := b.RecurrenceEndDate.Format(domain.DateFormat)
		resp.RecurrenceEndDate = &s
	}
	if b.CheckInTime != nil {
		s := b.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &s
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, synced int) *BookingListResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			out = append(out, *resp)
		}
	}
	return &BookingListResponse{Bookings: out, Synced: synced}
}

// FromDomainUserBookingList конвертирует список domain моделей в DTO
func FromDomainUserBookingList(bookings []*domain.Booking) *UserBookingListResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			out = append(out, *resp)
		}
	}
	return &UserBookingListResponse{Bookings: out}
}

// FromDomainOverdue конвертирует просроченное бронирование в DTO
func FromDomainOverdue(o *domain.OverdueBooking) OverdueBookingResponse {
	return OverdueBookingResponse{
		Booking:      *FromDomainBooking(&o.Booking),
		HostName:     o.HostName,
		HostEmail:    o.HostEmail,
		RoomName:     o.RoomName,
		LocationName: o.LocationName,
	}
}
