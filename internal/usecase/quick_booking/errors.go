package quick_booking

import "errors"

var (
	// ErrDeviceNotFound возвращается, когда планшет с таким ключом не зарегистрирован
	ErrDeviceNotFound = errors.New("quick_booking: device not found")

	// ErrDeviceInactive возвращается, когда планшет деактивирован
	ErrDeviceInactive = errors.New("quick_booking: device is inactive")

	// ErrRoomOccupied возвращается, когда комната занята или скоро понадобится
	ErrRoomOccupied = errors.New("quick_booking: room is occupied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("quick_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quick_booking: internal error")
)
