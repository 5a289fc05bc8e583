package create_recurring_booking

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	createRecurring "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_recurring_booking"
)

// CreateRecurringBookingRequest HTTP request model
type CreateRecurringBookingRequest struct {
	RoomID            int64   `json:"roomId"`
	OrganizerEmail    string  `json:"organizerEmail,omitempty"`
	Title             string  `json:"title"`
	Description       *string `json:"description,omitempty"`
	StartTime         string  `json:"startTime"`         // RFC 3339
	EndTime           string  `json:"endTime"`           // RFC 3339
	RecurrenceRule    string  `json:"recurrenceRule"`    // RFC 5545 RRULE
	RecurrenceEndDate string  `json:"recurrenceEndDate"` // "2025-06-30"
}

// CreatedBooking созданное вхождение серии
type CreatedBooking struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsRoot    bool   `json:"isRoot"`
}

// SkippedSlot пропущенное из-за конфликта вхождение
type SkippedSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Conflict  struct {
		BookingID      int64  `json:"bookingId"`
		OrganizerEmail string `json:"organizerEmail,omitempty"`
		Title          string `json:"title"`
		StartTime      string `json:"startTime"`
		EndTime        string `json:"endTime"`
	} `json:"conflict"`
}

// SeriesResponse HTTP response model
type SeriesResponse struct {
	RootID  int64            `json:"rootId"`
	Created []CreatedBooking `json:"created"`
	Skipped []SkippedSlot    `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringBookingRequest) ToUseCaseRequest(hostUserID *int64) (*createRecurring.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(domain.DateFormat, r.RecurrenceEndDate)
	if err != nil {
		return nil, err
	}

	return &createRecurring.Request{
		RoomID:            r.RoomID,
		HostUserID:        hostUserID,
		OrganizerEmail:    r.OrganizerEmail,
		Title:             r.Title,
		Description:       r.Description,
		StartTime:         startTime,
		EndTime:           endTime,
		RecurrenceRule:    r.RecurrenceRule,
		RecurrenceEndDate: endDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurring.Response) *SeriesResponse {
	out := &SeriesResponse{
		RootID:  resp.RootID,
		Created: make([]CreatedBooking, 0, len(resp.Created)),
		Skipped: make([]SkippedSlot, 0, len(resp.Skipped)),
	}
	for _, c := range resp.Created {
		out.Created = append(out.Created, CreatedBooking{
			ID:        c.ID,
			StartTime: c.StartTime.Format(time.RFC3339),
			EndTime:   c.EndTime.Format(time.RFC3339),
			IsRoot:    c.IsRoot,
		})
	}
	for _, s := range resp.Skipped {
		slot := SkippedSlot{
			StartTime: s.StartTime.Format(time.RFC3339),
			EndTime:   s.EndTime.Format(time.RFC3339),
		}
		slot.Conflict.BookingID = s.Conflict.BookingID
		slot.Conflict.OrganizerEmail = s.Conflict.OrganizerEmail
		slot.Conflict.Title = s.Conflict.Title
		slot.Conflict.StartTime = s.Conflict.StartTime.Format(time.RFC3339)
		slot.Conflict.EndTime = s.Conflict.EndTime.Format(time.RFC3339)
		out.Skipped = append(out.Skipped, slot)
	}
	return out
}
