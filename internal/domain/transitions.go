package domain

// statusTransitions is the single authority on legal status changes.
// scheduled → in_progress → ended is the happy path; no_show and cancelled
// abort a scheduled booking. Once checked in, a booking cannot be cancelled
// (end it early instead). Terminal states allow no transitions.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusEnded},
	StatusEnded:      {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// CanTransition reports whether a booking may move from to to.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known booking status
func ValidStatus(s BookingStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}
