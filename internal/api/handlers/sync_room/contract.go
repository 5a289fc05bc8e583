package sync_room

import "context"

type SyncService interface {
	SyncRoom(ctx context.Context, roomID int64, force bool) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
