package sync_room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/gsync"
)

const (
	msgInvalidRoomID = "некорректный ID переговорной"
	msgRoomNotFound  = "переговорная не найдена"
	msgNoCalendar    = "переговорная не привязана к календарю"
	msgSyncFailed    = "не удалось синхронизироваться с календарем"
)

// SyncResponse HTTP response model
type SyncResponse struct {
	RoomID int64 `json:"roomId"`
	Synced int   `json:"synced"`
}

type Handler struct {
	service SyncService
	logger  Logger
}

func NewHandler(service SyncService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/rooms/{roomId}/sync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := strconv.ParseInt(vars["roomId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /rooms/{id}/sync - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	force := r.URL.Query().Get("force") == "true"

	synced, err := h.service.SyncRoom(r.Context(), roomID, force)
	if err != nil {
		switch {
		case errors.Is(err, gsync.ErrRoomNotFound):
			h.logger.Warn("POST /rooms/{id}/sync - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, gsync.ErrNoCalendar):
			h.logger.Warn("POST /rooms/{id}/sync - No calendar: room_id=%d", roomID)
			handlers.RespondBadRequest(w, msgNoCalendar)

		case errors.Is(err, gsync.ErrSyncFailed):
			h.logger.Error("POST /rooms/{id}/sync - Sync failed: room_id=%d, error=%v", roomID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgSyncFailed)

		default:
			h.logger.Error("POST /rooms/{id}/sync - Failed: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rooms/{id}/sync - Synced: room_id=%d, bookings=%d", roomID, synced)
	handlers.RespondJSON(w, http.StatusOK, SyncResponse{RoomID: roomID, Synced: synced})
}
