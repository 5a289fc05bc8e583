package get_user_bookings

import (
	"net/url"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// parseQuery разбирает query-параметры в модель сервиса.
// Поддерживаются from, to (RFC 3339), status, includeCancelled.
func parseQuery(hostUserID int64, query url.Values) (*models.GetUserBookingsRequest, error) {
	req := &models.GetUserBookingsRequest{HostUserID: hostUserID}

	if v := query.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}
	if v := query.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	req.IncludeCancelled = query.Get("includeCancelled") == "true"

	return req, nil
}
