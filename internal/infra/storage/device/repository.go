// Package device read model планшетов у комнат.
// Используется для аутентификации quick-booking по device key.
package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

var (
	// ErrDeviceNotFound возвращается, когда планшет не найден
	ErrDeviceNotFound = errors.New("device.repository: device not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("device.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("device.repository: failed to execute query")
)

// Repository репозиторий планшетов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория планшетов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByKey получает планшет по device key
func (r *Repository) GetByKey(ctx context.Context, deviceKey string) (*domain.Device, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"device_key",
		"room_id",
		"active",
		"created_at",
	).
		From("devices").
		Where(squirrel.Eq{"device_key": deviceKey}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.Device
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.DeviceKey,
		&d.RoomID,
		&d.Active,
		&d.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan device: %v", ErrExecQuery, err)
	}

	return &d, nil
}
