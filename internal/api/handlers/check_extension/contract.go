package check_extension

import (
	"context"

	extendBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
)

type ExtendBookingUseCase interface {
	CheckAvailability(ctx context.Context, req *extendBooking.Request) (*extendBooking.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
