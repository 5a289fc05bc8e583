package mark_no_shows

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/cron/mark-no-shows
// Вызывается внешним планировщиком раз в несколько минут.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MarkNoShows(r.Context())
	if err != nil {
		h.logger.Error("POST /cron/mark-no-shows - Scan failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if result.Marked > 0 {
		h.logger.Info("POST /cron/mark-no-shows - Marked %d bookings", result.Marked)
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
