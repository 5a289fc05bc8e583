package extend_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidState       = "встреча не может быть продлена в текущем статусе"
	msgTimeConflict       = "продление пересекается со следующим бронированием"
	msgInvalidInput       = "некорректное количество минут"
)

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &extendBooking.Request{
		BookingID:         bookingID,
		AdditionalMinutes: req.AdditionalMinutes,
	})
	if err != nil {
		var conflictErr *extendBooking.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings/{id}/extend - Conflict: booking_id=%d, conflicting_booking_id=%d",
				bookingID, conflictErr.Conflict.BookingID)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error: msgTimeConflict,
				Conflict: ConflictInfo{
					BookingID:      conflictErr.Conflict.BookingID,
					OrganizerEmail: conflictErr.Conflict.OrganizerEmail,
					Title:          conflictErr.Conflict.Title,
					StartTime:      conflictErr.Conflict.StartTime.Format(time.RFC3339),
					EndTime:        conflictErr.Conflict.EndTime.Format(time.RFC3339),
				},
			})

		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/extend - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/extend - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, extendBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/extend - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/extend - Failed to extend booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/extend - Booking extended: booking_id=%d, new_end=%s",
		bookingID, result.EndTime.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
