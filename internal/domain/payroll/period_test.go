package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ref   time.Time
		start time.Time
		end   time.Time
	}{
		{"mid month", date(2025, time.July, 15), date(2025, time.July, 1), date(2025, time.July, 31)},
		{"first day", date(2025, time.January, 1), date(2025, time.January, 1), date(2025, time.January, 31)},
		{"last day", date(2025, time.December, 31), date(2025, time.December, 1), date(2025, time.December, 31)},
		{"leap february", date(2024, time.February, 10), date(2024, time.February, 1), date(2024, time.February, 29)},
		{"non-leap february", date(2025, time.February, 28), date(2025, time.February, 1), date(2025, time.February, 28)},
		{"thirty day month", date(2025, time.April, 30), date(2025, time.April, 1), date(2025, time.April, 30)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			period := PeriodOf(tt.ref)
			assert.Equal(t, tt.start, period.Start)
			assert.Equal(t, tt.end, period.End)
		})
	}
}

func TestPeriodOf_TimeOfDayIsIgnoredByContains(t *testing.T) {
	t.Parallel()

	period := PeriodOf(date(2025, time.March, 12))

	assert.True(t, period.Contains(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2025, time.March, 1, 0, 0, 1, 0, time.UTC)))
	assert.False(t, period.Contains(date(2025, time.April, 1)))
	assert.False(t, period.Contains(date(2025, time.February, 28)))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.False(t, Status("Draft").Valid())

	assert.False(t, StatusPending.Final())
	assert.True(t, StatusPaid.Final())
	assert.True(t, StatusFailed.Final())
}
