package quick_booking

import (
	"time"

	quickBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/quick_booking"
)

// QuickBookingRequest HTTP request model
type QuickBookingRequest struct {
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Title           string `json:"title,omitempty"`
}

// QuickBookingResponse HTTP response model
type QuickBookingResponse struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"roomId"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	Source    string `json:"source"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quickBooking.Response) *QuickBookingResponse {
	return &QuickBookingResponse{
		ID:        resp.ID,
		RoomID:    resp.RoomID,
		Title:     resp.Title,
		StartTime: resp.StartTime.Format(time.RFC3339),
		EndTime:   resp.EndTime.Format(time.RFC3339),
		Status:    resp.Status,
		Source:    resp.Source,
	}
}
