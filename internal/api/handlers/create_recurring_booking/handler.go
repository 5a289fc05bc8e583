package create_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	createRecurring "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_recurring_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeFormat  = "некорректный формат даты или времени"
	msgRoomNotFound       = "переговорная не найдена"
	msgInvalidRule        = "некорректное правило повторения"
	msgAllSlotsConflict   = "все вхождения серии пересекаются с существующими бронированиями"
	msgInvalidInput       = "некорректные данные серии"
)

type Handler struct {
	useCase CreateRecurringBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateRecurringBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var hostUserID *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		hostUserID = &userID
	}

	useCaseReq, err := req.ToUseCaseRequest(hostUserID)
	if err != nil {
		h.logger.Warn("POST /bookings/recurring - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createRecurring.ErrAllSlotsConflict):
			h.logger.Warn("POST /bookings/recurring - All slots conflict: room_id=%d", req.RoomID)
			handlers.RespondError(w, http.StatusConflict, msgAllSlotsConflict)

		case errors.Is(err, createRecurring.ErrRoomNotFound):
			h.logger.Warn("POST /bookings/recurring - Room not found: room_id=%d", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createRecurring.ErrInvalidRule):
			h.logger.Warn("POST /bookings/recurring - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /bookings/recurring - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/recurring - Failed to create series: room_id=%d, error=%v", req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/recurring - Series created: root_id=%d, created=%d, skipped=%d",
		result.RootID, len(result.Created), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
