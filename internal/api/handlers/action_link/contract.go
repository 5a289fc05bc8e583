package action_link

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

type BookingService interface {
	ResolveActionToken(ctx context.Context, token string) (*models.BookingResponse, error)
	ConsumeActionToken(ctx context.Context, token string) (*models.BookingResponse, error)
	EndEarly(ctx context.Context, id int64) (*models.BookingResponse, error)
}

type ExtendBookingUseCase interface {
	Execute(ctx context.Context, req *extendBooking.Request) (*extendBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
