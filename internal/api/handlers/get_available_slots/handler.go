package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	uc "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidRoomID = "некорректный ID переговорной"
	msgInvalidQuery  = "некорректные параметры запроса"
	msgInvalidDate   = "дата в прошлом"
	msgRoomNotFound  = "переговорная не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/available-slots?date=YYYY-MM-DD&slotMinutes=30
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := strconv.ParseInt(vars["roomId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/available-slots - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	slotMinutes := 0
	if v := r.URL.Query().Get("slotMinutes"); v != "" {
		slotMinutes, err = strconv.Atoi(v)
		if err != nil {
			h.logger.Warn("GET /rooms/{id}/available-slots - Invalid slotMinutes: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &uc.Request{
		RoomID:      roomID,
		Date:        date,
		SlotMinutes: slotMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, uc.ErrInvalidDate):
			h.logger.Warn("GET /rooms/{id}/available-slots - Date in the past: room_id=%d", roomID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, uc.ErrRoomNotFound):
			h.logger.Warn("GET /rooms/{id}/available-slots - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET /rooms/{id}/available-slots - Failed: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toResponse(result))
}
