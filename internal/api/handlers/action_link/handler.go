package action_link

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTokenExpired       = "ссылка недействительна или уже использована"
	msgUnknownAction      = "неизвестное действие"
	msgTimeConflict       = "продление пересекается со следующим бронированием"
	msgInvalidState       = "встреча уже завершена"
)

const defaultExtensionMinutes = 30

// Handler обрабатывает одноразовые ссылки действий из писем-напоминаний.
// GET показывает встречу, POST выполняет действие и гасит токен.
type Handler struct {
	service  BookingService
	extendUC ExtendBookingUseCase
	logger   Logger
}

func NewHandler(service BookingService, extendUC ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		service:  service,
		extendUC: extendUC,
		logger:   logger,
	}
}

// HandleGet GET /api/v1/actions/{token}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	booking, err := h.service.ResolveActionToken(r.Context(), token)
	if err != nil {
		h.respondResolveError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}

// HandlePost POST /api/v1/actions/{token}
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req ActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /actions/{token} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Токен гасится до выполнения действия: из конкурентных запросов
	// с одной ссылкой действие выполнит ровно один
	booking, err := h.service.ConsumeActionToken(r.Context(), token)
	if err != nil {
		h.respondResolveError(w, err)
		return
	}

	var (
		status  string
		endTime string
	)

	switch req.Action {
	case ActionExtend:
		minutes := req.AdditionalMinutes
		if minutes == 0 {
			minutes = defaultExtensionMinutes
		}
		result, err := h.extendUC.Execute(r.Context(), &extendBooking.Request{
			BookingID:         booking.ID,
			AdditionalMinutes: minutes,
		})
		if err != nil {
			h.respondExtendError(w, booking.ID, err)
			return
		}
		status = result.Status
		endTime = result.EndTime.Format(time.RFC3339)

	case ActionRelease:
		result, err := h.service.EndEarly(r.Context(), booking.ID)
		if err != nil {
			h.logger.Error("POST /actions/{token} - Failed to end booking: booking_id=%d, error=%v", booking.ID, err)
			handlers.RespondInternalError(w)
			return
		}
		status = result.Status
		endTime = result.EndTime

	default:
		h.logger.Warn("POST /actions/{token} - Unknown action: %q", req.Action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	h.logger.Info("POST /actions/{token} - Action executed: booking_id=%d, action=%s", booking.ID, req.Action)
	handlers.RespondJSON(w, http.StatusOK, ActionResponse{
		BookingID: booking.ID,
		Action:    req.Action,
		Status:    status,
		EndTime:   endTime,
	})
}

func (h *Handler) respondResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookings.ErrTokenExpired):
		h.logger.Warn("actions - Token expired or unknown")
		handlers.RespondGone(w, msgTokenExpired)

	default:
		h.logger.Error("actions - Failed to resolve token: %v", err)
		handlers.RespondInternalError(w)
	}
}

func (h *Handler) respondExtendError(w http.ResponseWriter, bookingID int64, err error) {
	switch {
	case errors.Is(err, extendBooking.ErrTimeConflict):
		h.logger.Warn("POST /actions/{token} - Extension conflict: booking_id=%d", bookingID)
		handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

	case errors.Is(err, extendBooking.ErrInvalidState):
		h.logger.Warn("POST /actions/{token} - Invalid state: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgInvalidState)

	default:
		h.logger.Error("POST /actions/{token} - Failed to extend: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
