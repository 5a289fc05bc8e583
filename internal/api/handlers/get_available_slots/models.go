package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	uc "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
)

// SlotResponse временной слот в ответе API
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// Response ответ со списком слотов переговорной на дату
type Response struct {
	RoomID int64          `json:"roomId"`
	Date   string         `json:"date"`
	Slots  []SlotResponse `json:"slots"`
}

func toResponse(result *uc.Response) *Response {
	slots := make([]SlotResponse, 0, len(result.Slots))
	for _, s := range result.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.Format(time.RFC3339),
			EndTime:   s.EndTime.Format(time.RFC3339),
			Available: s.Available,
		})
	}

	return &Response{
		RoomID: result.RoomID,
		Date:   result.Date.Format(domain.DateFormat),
		Slots:  slots,
	}
}
