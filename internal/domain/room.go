package domain

import "time"

// Room read model комнаты; таблица принадлежит админской части,
// сервис бронирований ее только читает
type Room struct {
	ID               int64
	Name             string
	LocationID       int64
	LocationName     string
	GoogleCalendarID *string // nil, если комната не привязана к календарю
	CreatedAt        time.Time
}

// HasCalendar returns true if the room is linked to an external calendar
func (r *Room) HasCalendar() bool {
	return r.GoogleCalendarID != nil && *r.GoogleCalendarID != ""
}

// Device планшет у комнаты; аутентифицируется по device key
type Device struct {
	ID        int64
	DeviceKey string
	RoomID    int64
	Active    bool
	CreatedAt time.Time
}

// DeletedGoogleEvent внешнее событие, удаленное локально.
// Запрещает sync-адаптеру «воскрешать» событие после локальной отмены.
// Только вставка и чтение, записи никогда не обновляются.
type DeletedGoogleEvent struct {
	EventID   string
	RoomID    int64
	CreatedAt time.Time
}
