package quick_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	quickBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/quick_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDeviceKey   = "отсутствует заголовок X-Device-Key"
	msgDeviceNotFound     = "планшет не зарегистрирован"
	msgDeviceInactive     = "планшет деактивирован"
	msgRoomOccupied       = "переговорная занята"
	msgInvalidInput       = "некорректные параметры бронирования"
)

type Handler struct {
	useCase QuickBookingUseCase
	logger  Logger
}

func NewHandler(useCase QuickBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tablet/quick-booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	deviceKey := r.Header.Get("X-Device-Key")
	if deviceKey == "" {
		h.logger.Warn("POST /tablet/quick-booking - Missing device key")
		handlers.RespondUnauthorized(w, msgMissingDeviceKey)
		return
	}

	// Тело запроса опционально: планшет может прислать пустой POST
	var req QuickBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /tablet/quick-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &quickBooking.Request{
		DeviceKey:       deviceKey,
		DurationMinutes: req.DurationMinutes,
		Title:           req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, quickBooking.ErrDeviceNotFound):
			h.logger.Warn("POST /tablet/quick-booking - Device not found")
			handlers.RespondUnauthorized(w, msgDeviceNotFound)

		case errors.Is(err, quickBooking.ErrDeviceInactive):
			h.logger.Warn("POST /tablet/quick-booking - Device inactive")
			handlers.RespondForbidden(w, msgDeviceInactive)

		case errors.Is(err, quickBooking.ErrRoomOccupied):
			h.logger.Warn("POST /tablet/quick-booking - Room occupied")
			handlers.RespondError(w, http.StatusConflict, msgRoomOccupied)

		case errors.Is(err, quickBooking.ErrInvalidInput):
			h.logger.Warn("POST /tablet/quick-booking - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /tablet/quick-booking - Failed to create booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tablet/quick-booking - Booking created: booking_id=%d, room_id=%d", result.ID, result.RoomID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
