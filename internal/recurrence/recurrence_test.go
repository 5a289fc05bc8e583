package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_Weekly(t *testing.T) {
	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC) // понедельник
	until := start.AddDate(0, 0, 28)

	slots, err := Expand("FREQ=WEEKLY;COUNT=5", start, time.Hour, until)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	assert.Equal(t, start, slots[0].Start)
	assert.Equal(t, start.Add(time.Hour), slots[0].End)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].Start.AddDate(0, 0, 7), slots[i].Start)
		assert.Equal(t, time.Hour, slots[i].End.Sub(slots[i].Start))
	}
}

func TestExpand_DailyBoundedByUntil(t *testing.T) {
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 0, 3) // 3 дня вперед => 4 слота вместе с корнем

	slots, err := Expand("RRULE:FREQ=DAILY", start, 30*time.Minute, until)
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestExpand_InvalidRule(t *testing.T) {
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	_, err := Expand("FREQ=SOMETIMES", start, time.Hour, start.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestExpand_NonPositiveDuration(t *testing.T) {
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	_, err := Expand("FREQ=DAILY", start, 0, start.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestExpand_UntilBeforeStart(t *testing.T) {
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	_, err := Expand("FREQ=DAILY", start, time.Hour, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidRule)
}
