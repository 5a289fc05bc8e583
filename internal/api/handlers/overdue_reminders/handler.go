package overdue_reminders

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

// Handle POST /api/v1/cron/overdue-reminders
// Находит просроченные встречи и выпускает токены действий. Рассылкой
// писем занимается внешний почтовый сервис, получающий этот ответ.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DispatchOverdueReminders(r.Context())
	if err != nil {
		h.logger.Error("POST /cron/overdue-reminders - Dispatch failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if len(result.Reminders) > 0 {
		h.logger.Info("POST /cron/overdue-reminders - Issued %d reminders", len(result.Reminders))
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
