package extend_booking

import (
	"time"

	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

// ExtendBookingRequest HTTP request model
type ExtendBookingRequest struct {
	AdditionalMinutes int `json:"additionalMinutes"`
}

// ExtendBookingResponse HTTP response model
type ExtendBookingResponse struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"roomId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// ConflictInfo данные мешающего бронирования в ответе 409
type ConflictInfo struct {
	BookingID      int64  `json:"bookingId"`
	OrganizerEmail string `json:"organizerEmail,omitempty"`
	Title          string `json:"title"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

// ConflictResponse тело ответа 409 Conflict
type ConflictResponse struct {
	Error    string       `json:"error"`
	Conflict ConflictInfo `json:"conflict"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendBooking.Response) *ExtendBookingResponse {
	return &ExtendBookingResponse{
		ID:        resp.ID,
		RoomID:    resp.RoomID,
		StartTime: resp.StartTime.Format(time.RFC3339),
		EndTime:   resp.EndTime.Format(time.RFC3339),
		Status:    resp.Status,
	}
}
