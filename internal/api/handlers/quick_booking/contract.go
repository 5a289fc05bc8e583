package quick_booking

import (
	"context"

	quickBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/quick_booking"
)

type QuickBookingUseCase interface {
	Execute(ctx context.Context, req *quickBooking.Request) (*quickBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
