package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

// exclusionViolation код ошибки PostgreSQL при нарушении exclusion constraint
const exclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"room_id",
	"host_user_id",
	"organizer_email",
	"title",
	"description",
	"start_time",
	"end_time",
	"status",
	"source",
	"is_recurring",
	"recurring_parent_id",
	"recurrence_rule",
	"recurrence_end_date",
	"check_in_time",
	"google_event_id",
	"action_token",
	"action_token_issued_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её: при создании
// с проверкой пересечений репозиторий должен вызываться внутри сериализуемой
// транзакции, чтобы проверка и вставка были атомарны.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"room_id",
			"host_user_id",
			"organizer_email",
			"title",
			"description",
			"start_time",
			"end_time",
			"status",
			"source",
			"is_recurring",
			"recurring_parent_id",
			"recurrence_rule",
			"recurrence_end_date",
			"check_in_time",
			"google_event_id",
		).
		Values(
			b.RoomID,
			b.HostUserID,
			b.OrganizerEmail,
			b.Title,
			b.Description,
			b.StartTime,
			b.EndTime,
			b.Status,
			b.Source,
			b.IsRecurring,
			b.RecurringParentID,
			b.RecurrenceRule,
			b.RecurrenceEndDate,
			b.CheckInTime,
			b.GoogleEventID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlapConstraint
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBookingRow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByRoomWithFilter получает бронирования комнаты с фильтрацией по периоду
// и статусу. Бронирования, чье внешнее событие помечено локально удаленным
// (deleted_google_events), не возвращаются никогда.
func (r *Repository) GetByRoomWithFilter(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(prefixed("b", bookingColumns)...).
		From("bookings b").
		Where(squirrel.Eq{"b.room_id": filter.RoomID}).
		Where("NOT EXISTS (SELECT 1 FROM deleted_google_events d WHERE d.event_id = b.google_event_id)")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"b.end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": domain.StatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("b.start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRoomWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRoomWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByHostWithFilter получает бронирования, где пользователь является
// организатором, с фильтрацией по периоду и статусу.
func (r *Repository) GetByHostWithFilter(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"host_user_id": filter.HostUserID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHostWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// FindOverlapping находит неотмененные бронирования комнаты, пересекающиеся
// с интервалом [start, end). Интервалы полуоткрытые: смежные бронирования
// не считаются пересечением. Внутри транзакции блокирует строки (FOR UPDATE).
func (r *Repository) FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"status": []domain.BookingStatus{domain.StatusCancelled, domain.StatusNoShow}}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetCheckIn переводит бронирование в in_progress и фиксирует время check-in
func (r *Repository) SetCheckIn(ctx context.Context, id int64, checkInTime time.Time) error {
	return r.update(ctx, "SetCheckIn", psqlbuilder.Update("bookings").
		Set("status", domain.StatusInProgress).
		Set("check_in_time", checkInTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SetEnded переводит бронирование в ended и выставляет фактическое время конца
func (r *Repository) SetEnded(ctx context.Context, id int64, endTime time.Time) error {
	return r.update(ctx, "SetEnded", psqlbuilder.Update("bookings").
		Set("status", domain.StatusEnded).
		Set("end_time", endTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// ExtendEndTime продлевает бронирование до newEnd
func (r *Repository) ExtendEndTime(ctx context.Context, id int64, newEnd time.Time) error {
	err := r.update(ctx, "ExtendEndTime", psqlbuilder.Update("bookings").
		Set("end_time", newEnd).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil && isExclusionViolation(err) {
		return ErrOverlapConstraint
	}
	return err
}

// UpdateEventFields обновляет поля, пришедшие из внешнего календаря
func (r *Repository) UpdateEventFields(ctx context.Context, id int64, title string, start, end time.Time) error {
	return r.update(ctx, "UpdateEventFields", psqlbuilder.Update("bookings").
		Set("title", title).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Cancel отменяет бронирование
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	return r.update(ctx, "Cancel", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// SeriesCancellation результат отмены одного бронирования серии
type SeriesCancellation struct {
	ID            int64
	GoogleEventID *string
}

// CancelSeriesScheduled отменяет корень серии и все ее вхождения, еще
// находящиеся в статусе scheduled. Финальные статусы не трогаются.
func (r *Repository) CancelSeriesScheduled(ctx context.Context, rootID int64) ([]SeriesCancellation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Or{
			squirrel.Eq{"id": rootID},
			squirrel.Eq{"recurring_parent_id": rootID},
		}).
		Where(squirrel.Eq{"status": domain.StatusScheduled}).
		Suffix("RETURNING id, google_event_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CancelSeriesScheduled - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelSeriesScheduled - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	cancelled := make([]SeriesCancellation, 0)
	for rows.Next() {
		var c SeriesCancellation
		if err := rows.Scan(&c.ID, &c.GoogleEventID); err != nil {
			return nil, fmt.Errorf("%w: CancelSeriesScheduled - scan row: %v", ErrScanRow, err)
		}
		cancelled = append(cancelled, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CancelSeriesScheduled - rows error: %v", ErrScanRow, err)
	}

	return cancelled, nil
}

// MarkNoShows переводит в no_show все scheduled бронирования, начавшиеся
// раньше cutoff и не имеющие check-in. Повторный запуск безопасен:
// переведенные строки под условие больше не попадают.
func (r *Repository) MarkNoShows(ctx context.Context, cutoff time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusNoShow).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusScheduled}).
		Where("check_in_time IS NULL").
		Where(squirrel.Lt{"start_time": cutoff}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: MarkNoShows - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: MarkNoShows - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: MarkNoShows - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: MarkNoShows - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// FindOverdue находит in_progress бронирования, чье время уже вышло и по
// которым напоминание еще не отправлялось. Обогащает данными комнаты,
// локации и хоста для составления письма.
func (r *Repository) FindOverdue(ctx context.Context, now time.Time) ([]*domain.OverdueBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(prefixed("b", bookingColumns),
		"u.name",
		"u.email",
		"r.name",
		"l.name",
	)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("rooms r ON r.id = b.room_id").
		Join("locations l ON l.id = r.location_id").
		LeftJoin("users u ON u.id = b.host_user_id").
		Where(squirrel.Eq{"b.status": domain.StatusInProgress}).
		Where(squirrel.Lt{"b.end_time": now}).
		Where("b.action_token_issued_at IS NULL").
		OrderBy("b.end_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOverdue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverdue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overdue := make([]*domain.OverdueBooking, 0)
	for rows.Next() {
		var o domain.OverdueBooking
		dest := bookingDest(&o.Booking)
		dest = append(dest, &o.HostName, &o.HostEmail, &o.RoomName, &o.LocationName)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: FindOverdue - scan row: %v", ErrScanRow, err)
		}
		overdue = append(overdue, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindOverdue - rows error: %v", ErrScanRow, err)
	}

	return overdue, nil
}

// SetActionToken сохраняет одноразовый токен и помечает напоминание отправленным
func (r *Repository) SetActionToken(ctx context.Context, id int64, token string, issuedAt time.Time) error {
	return r.update(ctx, "SetActionToken", psqlbuilder.Update("bookings").
		Set("action_token", token).
		Set("action_token_issued_at", issuedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// GetByActionToken находит бронирование по одноразовому токену
func (r *Repository) GetByActionToken(ctx context.Context, token string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"action_token": token}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByActionToken - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBookingRow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByActionToken - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// ConsumeActionToken атомарно гасит токен и возвращает бронирование.
// При конкурентных запросах с одним токеном строку получит ровно один из них,
// остальным вернётся ErrBookingNotFound. Время выдачи сохраняется, чтобы
// напоминание не отправилось повторно.
func (r *Repository) ConsumeActionToken(ctx context.Context, token string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("action_token", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"action_token": token}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeActionToken - build update query: %v", ErrBuildQuery, err)
	}

	b, err := scanBookingRow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeActionToken - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetGoogleLinkedByRoom получает бронирования комнаты, связанные с внешним
// календарем: созданные из него (source=google) либо имеющие привязанное
// событие. Используется sync-адаптером для сверки.
func (r *Repository) GetGoogleLinkedByRoom(ctx context.Context, roomID int64, from time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Or{
			squirrel.Eq{"source": domain.SourceGoogle},
			squirrel.NotEq{"google_event_id": nil},
		}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetGoogleLinkedByRoom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetGoogleLinkedByRoom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Delete удаляет бронирование (физическое удаление, только для админских
// операций; для обычной отмены использовать Cancel)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// update выполняет UPDATE builder и проверяет, что строка существовала
func (r *Repository) update(ctx context.Context, method string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrOverlapConstraint
		}
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// bookingDest возвращает назначения сканирования в порядке bookingColumns
func bookingDest(b *domain.Booking) []interface{} {
	return []interface{}{
		&b.ID,
		&b.RoomID,
		&b.HostUserID,
		&b.OrganizerEmail,
		&b.Title,
		&b.Description,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.Source,
		&b.IsRecurring,
		&b.RecurringParentID,
		&b.RecurrenceRule,
		&b.RecurrenceEndDate,
		&b.CheckInTime,
		&b.GoogleEventID,
		&b.ActionToken,
		&b.ActionTokenIssuedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingRow(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(bookingDest(&b)...); err != nil {
		return nil, err
	}
	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolation
	}
	return false
}
