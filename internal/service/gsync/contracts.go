package gsync

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/googlecalendar"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetGoogleLinkedByRoom(ctx context.Context, roomID int64, from time.Time) ([]*domain.Booking, error)
	UpdateEventFields(ctx context.Context, id int64, title string, start, end time.Time) error
	Cancel(ctx context.Context, id int64) error
}

// DeletedEventRepository интерфейс репозитория локально удаленных событий
type DeletedEventRepository interface {
	ListEventIDsByRoom(ctx context.Context, roomID int64) (map[string]struct{}, error)
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]googlecalendar.Event, error)
}

// Metrics интерфейс метрик синхронизации
type Metrics interface {
	AddSyncedBookings(n int)
	IncSyncFailures()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
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

// NopMetrics заглушка метрик, когда метрики выключены
type NopMetrics struct{}

func (NopMetrics) AddSyncedBookings(int) {}
func (NopMetrics) IncSyncFailures()      {}
