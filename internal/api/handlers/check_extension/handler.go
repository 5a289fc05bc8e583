package check_extension

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidMinutes   = "некорректное количество минут"
	msgNotFound         = "бронирование не найдено"
	msgInvalidState     = "встреча не может быть продлена в текущем статусе"
)

const defaultAdditionalMinutes = 30

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

// Handle GET /api/v1/bookings/{bookingId}/extension-availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/extension-availability - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	minutes := defaultAdditionalMinutes
	if v := r.URL.Query().Get("additionalMinutes"); v != "" {
		minutes, err = strconv.Atoi(v)
		if err != nil {
			h.logger.Warn("GET /bookings/{id}/extension-availability - Invalid minutes: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMinutes)
			return
		}
	}

	result, err := h.useCase.CheckAvailability(r.Context(), &extendBooking.Request{
		BookingID:         bookingID,
		AdditionalMinutes: minutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/extension-availability - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrInvalidState):
			h.logger.Warn("GET /bookings/{id}/extension-availability - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, extendBooking.ErrInvalidInput):
			h.logger.Warn("GET /bookings/{id}/extension-availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMinutes)

		default:
			h.logger.Error("GET /bookings/{id}/extension-availability - Failed: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
