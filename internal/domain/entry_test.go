package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Accessors(t *testing.T) {
	date := NewDate(2018, time.January, 1)
	entry := NewEntry(100_00, 250_00, date)

	assert.Equal(t, int64(100_00), entry.Amount())
	assert.Equal(t, int64(250_00), entry.Balance())
	assert.Equal(t, date, entry.Date())
	assert.False(t, entry.IsOpeningBalance())
}

func TestEntry_TodayUsesClock(t *testing.T) {
	today := NewDate(2024, time.March, 9)

	entry := NewEntryToday(0, 0, FixedClock(today))

	assert.Equal(t, today, entry.Date())
	assert.True(t, entry.IsOpeningBalance())
}

func TestEntry_DefaultsToCurrentDay(t *testing.T) {
	entry := NewEntryToday(0, 0, NewSystemClock(nil))

	assert.Equal(t, DateOf(time.Now().UTC()), entry.Date())
}

func TestEntry_Equality(t *testing.T) {
	date := NewDate(2018, time.January, 1)

	tests := []struct {
		name  string
		a, b  Entry
		equal bool
	}{
		{"same values", NewEntry(1, 2, date), NewEntry(1, 2, date), true},
		{"different amount", NewEntry(1, 2, date), NewEntry(3, 2, date), false},
		{"different balance", NewEntry(1, 2, date), NewEntry(1, 3, date), false},
		{"different date", NewEntry(1, 2, date), NewEntry(1, 2, date.AddDays(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.a == tt.b)
		})
	}
}

func TestEntry_String(t *testing.T) {
	entry := NewEntry(-20_00, 970_00, NewDate(2018, time.January, 4))

	assert.Equal(t, "Entry[date=2018-01-04,amount=-2000,balance=97000]", entry.String())
}
