// Package deletedevent хранит внешние события календаря, удаленные локально.
// Таблица append-only: записи только вставляются и читаются.
package deletedevent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникальности
const uniqueViolation = "23505"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("deletedevent.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("deletedevent.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("deletedevent.repository: failed to scan row")
)

// Repository репозиторий локально удаленных внешних событий
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create помечает событие удаленным локально.
// Повторная вставка того же события не является ошибкой.
func (r *Repository) Create(ctx context.Context, eventID string, roomID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("deleted_google_events").
		Columns("event_id", "room_id").
		Values(eventID, roomID).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListEventIDsByRoom возвращает множество удаленных событий комнаты
func (r *Repository) ListEventIDsByRoom(ctx context.Context, roomID int64) (map[string]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("event_id").
		From("deleted_google_events").
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListEventIDsByRoom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEventIDsByRoom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	eventIDs := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListEventIDsByRoom - scan event_id: %v", ErrScanRow, err)
		}
		eventIDs[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListEventIDsByRoom - rows error: %v", ErrScanRow, err)
	}

	return eventIDs, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
