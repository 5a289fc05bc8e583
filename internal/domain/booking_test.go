package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"scheduled to in_progress", StatusScheduled, StatusInProgress, true},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, true},
		{"scheduled to no_show", StatusScheduled, StatusNoShow, true},
		{"scheduled to ended", StatusScheduled, StatusEnded, false},
		{"in_progress to ended", StatusInProgress, StatusEnded, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, false},
		{"ended is terminal", StatusEnded, StatusScheduled, false},
		{"cancelled is terminal", StatusCancelled, StatusInProgress, false},
		{"no_show is terminal", StatusNoShow, StatusEnded, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	b := Booking{StartTime: at(10, 0), EndTime: at(11, 0)}

	testCases := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"fully inside", at(10, 15), at(10, 45), true},
		{"partial overlap at start", at(9, 30), at(10, 30), true},
		{"partial overlap at end", at(10, 30), at(11, 30), true},
		{"covers entirely", at(9, 0), at(12, 0), true},
		{"adjacent before does not conflict", at(9, 0), at(10, 0), false},
		{"adjacent after does not conflict", at(11, 0), at(12, 0), false},
		{"disjoint", at(12, 0), at(13, 0), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, b.Overlaps(tc.start, tc.end))
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusScheduled}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusInProgress}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusEnded}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusNoShow}).IsTerminal())
}

func TestBooking_SeriesHelpers(t *testing.T) {
	parentID := int64(7)

	root := Booking{IsRecurring: true}
	assert.True(t, root.IsSeriesRoot())
	assert.False(t, root.IsOccurrence())

	occ := Booking{RecurringParentID: &parentID}
	assert.False(t, occ.IsSeriesRoot())
	assert.True(t, occ.IsOccurrence())
}
