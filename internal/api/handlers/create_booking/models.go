package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	RoomID         int64   `json:"roomId"`
	OrganizerEmail string  `json:"organizerEmail,omitempty"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	StartTime      string  `json:"startTime"` // RFC 3339
	EndTime        string  `json:"endTime"`   // RFC 3339
	Source         string  `json:"source,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	RoomID         int64   `json:"roomId"`
	HostUserID     *int64  `json:"hostUserId,omitempty"`
	OrganizerEmail string  `json:"organizerEmail,omitempty"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ConflictInfo данные конфликтующего бронирования в ответе 409
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(hostUserID *int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RoomID:         r.RoomID,
		HostUserID:     hostUserID,
		OrganizerEmail: r.OrganizerEmail,
		Title:          r.Title,
		Description:    r.Description,
		StartTime:      startTime,
		EndTime:        endTime,
		Source:         r.Source,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		RoomID:         resp.RoomID,
		HostUserID:     resp.HostUserID,
		OrganizerEmail: resp.OrganizerEmail,
		Title:          resp.Title,
		Description:    resp.Description,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         resp.Status,
		Source:         resp.Source,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
