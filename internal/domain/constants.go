package domain

// Business validation constants
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxExtensionMinutes  = 240
	MaxSeriesOccurrences = 100
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список финальных статусов бронирований
var TerminalStatuses = []BookingStatus{
	StatusEnded,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов, при которых бронирование еще «живое»
var ActiveStatuses = []BookingStatus{
	StatusScheduled,
	StatusInProgress,
}
