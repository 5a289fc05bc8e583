package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	storage "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRoomWithFilter(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error)
	GetByHostWithFilter(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error)
	SetCheckIn(ctx context.Context, id int64, checkInTime time.Time) error
	SetEnded(ctx context.Context, id int64, endTime time.Time) error
	Cancel(ctx context.Context, id int64) error
	CancelSeriesScheduled(ctx context.Context, rootID int64) ([]storage.SeriesCancellation, error)
	MarkNoShows(ctx context.Context, cutoff time.Time) ([]int64, error)
	FindOverdue(ctx context.Context, now time.Time) ([]*domain.OverdueBooking, error)
	SetActionToken(ctx context.Context, id int64, token string, issuedAt time.Time) error
	GetByActionToken(ctx context.Context, token string) (*domain.Booking, error)
	ConsumeActionToken(ctx context.Context, token string) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// DeletedEventRepository интерфейс репозитория локально удаленных событий
type DeletedEventRepository interface {
	Create(ctx context.Context, eventID string, roomID int64) error
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// SyncService интерфейс адаптера синхронизации с внешним календарем
type SyncService interface {
	SyncRoom(ctx context.Context, roomID int64, force bool) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
