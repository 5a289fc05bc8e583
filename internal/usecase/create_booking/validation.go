package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}

	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	if req.EndTime.Before(now) {
		return fmt.Errorf("%w: booking is entirely in the past", ErrInvalidInput)
	}

	// Организатор задаётся либо через учётную запись, либо через email
	if req.HostUserID == nil {
		if _, err := mail.ParseAddress(req.OrganizerEmail); err != nil {
			return fmt.Errorf("%w: invalid organizerEmail: %v", ErrInvalidInput, err)
		}
	} else if req.OrganizerEmail != "" {
		if _, err := mail.ParseAddress(req.OrganizerEmail); err != nil {
			return fmt.Errorf("%w: invalid organizerEmail: %v", ErrInvalidInput, err)
		}
	}

	if req.Source != "" {
		source := domain.BookingSource(req.Source)
		if source != domain.SourceWeb && source != domain.SourceAdmin {
			return fmt.Errorf("%w: source must be web or admin", ErrInvalidInput)
		}
	}

	return nil
}
