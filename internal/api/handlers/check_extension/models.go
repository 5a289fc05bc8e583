package check_extension

import (
	"time"

	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	BookingID  int64         `json:"bookingId"`
	CanExtend  bool          `json:"canExtend"`
	NewEndTime string        `json:"newEndTime"`
	Conflict   *ConflictInfo `json:"conflict,omitempty"`
}

// ConflictInfo данные мешающего бронирования
type ConflictInfo struct {
	BookingID      int64  `json:"bookingId"`
	OrganizerEmail string `json:"organizerEmail,omitempty"`
	Title          string `json:"title"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendBooking.AvailabilityResponse) *AvailabilityResponse {
	out := &AvailabilityResponse{
		BookingID:  resp.BookingID,
		CanExtend:  resp.CanExtend,
		NewEndTime: resp.NewEndTime.Format(time.RFC3339),
	}
	if resp.Conflict != nil {
		out.Conflict = &ConflictInfo{
			BookingID:      resp.Conflict.BookingID,
			OrganizerEmail: resp.Conflict.OrganizerEmail,
			Title:          resp.Conflict.Title,
			StartTime:      resp.Conflict.StartTime.Format(time.RFC3339),
			EndTime:        resp.Conflict.EndTime.Format(time.RFC3339),
		}
	}
	return out
}
