package create_recurring_booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/recurrence"
)

// UseCase use case для создания повторяющейся серии бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	roomRepo     RoomRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	roomRepo RoomRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute разворачивает правило повторения в слоты и создает серию в одной
// сериализуемой транзакции. Конфликтующие слоты пропускаются; корнем серии
// становится первый слот, который удалось создать. Если не создался ни один
// слот, возвращается ErrAllSlotsConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRecurringBooking: room=%d, rule=%q, start=%s, until=%s",
		req.RoomID, req.RecurrenceRule, req.StartTime.Format(time.RFC3339), req.RecurrenceEndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRecurringBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование переговорной
	if _, err := uc.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateRecurringBooking: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateRecurringBooking: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Разворачиваем правило в слоты
	duration := req.EndTime.Sub(req.StartTime)
	until := endOfDay(req.RecurrenceEndDate)

	slots, err := recurrence.Expand(req.RecurrenceRule, req.StartTime, duration, until)
	if err != nil {
		uc.logger.Warn("CreateRecurringBooking: rule expansion failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	result := &Response{}

	// 4. Создаем всю серию атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result.Created = result.Created[:0]
		result.Skipped = result.Skipped[:0]

		var root *domain.Booking

		for _, slot := range slots {
			overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, req.RoomID, slot.Start, slot.End, nil)
			if err != nil {
				uc.logger.Error("CreateRecurringBooking: failed to find overlapping bookings: %v", err)
				return fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				result.Skipped = append(result.Skipped, SkippedSlot{
					StartTime: slot.Start,
					EndTime:   slot.End,
					Conflict:  overlapping[0].ConflictOf(),
				})
				continue
			}

			booking := &domain.Booking{
				RoomID:         req.RoomID,
				HostUserID:     req.HostUserID,
				OrganizerEmail: req.OrganizerEmail,
				Title:          strings.TrimSpace(req.Title),
				Description:    req.Description,
				StartTime:      slot.Start,
				EndTime:        slot.End,
				Status:         domain.StatusScheduled,
				Source:         domain.SourceWeb,
			}

			if root == nil {
				// Первый создаваемый слот становится корнем и несет правило серии
				booking.IsRecurring = true
				rule := req.RecurrenceRule
				booking.RecurrenceRule = &rule
				endDate := req.RecurrenceEndDate
				booking.RecurrenceEndDate = &endDate
			} else {
				booking.RecurringParentID = &root.ID
			}

			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateRecurringBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			if root == nil {
				root = created
				result.RootID = created.ID
			}
			result.Created = append(result.Created, CreatedBooking{
				ID:        created.ID,
				StartTime: created.StartTime,
				EndTime:   created.EndTime,
				IsRoot:    created.IsSeriesRoot(),
			})
		}

		if root == nil {
			return ErrAllSlotsConflict
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateRecurringBooking: created %d of %d occurrences, root id=%d",
		len(result.Created), len(slots), result.RootID)

	return result, nil
}

func validateRequest(req *Request) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if strings.TrimSpace(req.RecurrenceRule) == "" {
		return fmt.Errorf("%w: recurrenceRule is required", ErrInvalidInput)
	}
	if req.RecurrenceEndDate.IsZero() {
		return fmt.Errorf("%w: recurrenceEndDate is required", ErrInvalidInput)
	}

	if req.HostUserID == nil {
		if _, err := mail.ParseAddress(req.OrganizerEmail); err != nil {
			return fmt.Errorf("%w: invalid organizerEmail: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// endOfDay возвращает конец суток даты окончания серии: дата включительна
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
