package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledgerCreationDate = NewDate(2018, time.January, 1)

func TestLedger_StartsWithZeroBalance(t *testing.T) {
	for _, created := range []Date{ledgerCreationDate, NewDate(1999, time.December, 31), NewDate(2030, time.June, 15)} {
		ledger := NewLedger(created)

		assert.Equal(t, int64(0), ledger.Balance())
		assert.Equal(t, created, ledger.CreationDate())
		assert.Equal(t, 1, ledger.Len())
	}
}

func TestLedger_AddEntryUpdatesBalance(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)

	entry, err := ledger.AddEntry(100_00, ledgerCreationDate.AddDays(3))
	require.NoError(t, err)

	assert.Equal(t, NewEntry(100_00, 100_00, ledgerCreationDate.AddDays(3)), entry)
	assert.Equal(t, int64(100_00), ledger.Balance())
}

func TestLedger_AddEntryOrdering(t *testing.T) {
	aDate := NewDate(2018, time.July, 21)

	tests := []struct {
		name    string
		date    Date
		wantErr bool
	}{
		{"before latest entry", aDate.AddDays(-1), true},
		{"same day as latest entry", aDate, false},
		{"after latest entry", aDate.AddDays(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger(ledgerCreationDate)
			_, err := ledger.AddEntry(10_00, aDate)
			require.NoError(t, err)

			_, err = ledger.AddEntry(10_00, tt.date)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEntryOutOfOrder)
				require.ErrorIs(t, err, ErrInvalidArgument)
				assert.Equal(t, int64(10_00), ledger.Balance())
				assert.Equal(t, 2, ledger.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(20_00), ledger.Balance())
		})
	}
}

func TestLedger_OnlyLatestEntryBoundsOrdering(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)

	_, err := ledger.AddEntry(10_00, ledgerCreationDate.AddDays(5))
	require.NoError(t, err)

	_, err = ledger.AddEntry(10_00, ledgerCreationDate.AddDays(4))
	require.ErrorIs(t, err, ErrEntryOutOfOrder)

	_, err = ledger.AddEntry(10_00, ledgerCreationDate.AddDays(-10))
	require.ErrorIs(t, err, ErrEntryOutOfOrder)
}

func TestLedger_BalanceIsSumOfAmounts(t *testing.T) {
	amounts := []int64{500_00, -120_00, 35_50, -1, 1_000_00, -415_49}

	ledger := NewLedger(ledgerCreationDate)
	var sum int64
	date := ledgerCreationDate
	for i, amount := range amounts {
		if i%2 == 0 {
			date = date.AddDays(1)
		}
		_, err := ledger.AddEntry(amount, date)
		require.NoError(t, err)
		sum += amount
	}

	assert.Equal(t, sum, ledger.Balance())
}

func TestLedger_StatementForTimePeriod(t *testing.T) {
	firstOperation := ledgerCreationDate.AddDays(1)
	secondOperation := ledgerCreationDate.AddDays(3)
	thirdOperation := ledgerCreationDate.AddDays(5)

	ledger := NewLedger(ledgerCreationDate)
	mustAdd(t, ledger, 1000_00, ledgerCreationDate)
	mustAdd(t, ledger, -10_00, firstOperation)
	mustAdd(t, ledger, -20_00, secondOperation)
	mustAdd(t, ledger, -5_00, thirdOperation)

	statementStart := secondOperation.AddDays(-1)

	assert.Equal(t, []Entry{
		NewEntry(-20_00, 970_00, secondOperation),
		NewEntry(0, 990_00, statementStart),
	}, ledger.StatementFor(statementStart, Days(1)))
}

func TestLedger_StatementAfterLatestEntryReturnsCurrentBalance(t *testing.T) {
	statementStart := ledgerCreationDate.AddDays(2)

	ledger := NewLedger(ledgerCreationDate)
	mustAdd(t, ledger, 1000_00, ledgerCreationDate.AddDays(1))

	assert.Equal(t, []Entry{
		NewEntry(0, 1000_00, statementStart),
	}, ledger.StatementFor(statementStart, Months(1)))
}

func TestLedger_StatementBeforeCreationIsEmpty(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)

	statement := ledger.StatementFor(ledgerCreationDate.AddDays(-2), Days(1))

	assert.NotNil(t, statement)
	assert.Empty(t, statement)
}

func TestLedger_StatementBoundsAreInclusive(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)
	mustAdd(t, ledger, 100_00, ledgerCreationDate.AddDays(1))
	mustAdd(t, ledger, 50_00, ledgerCreationDate.AddDays(2))
	mustAdd(t, ledger, 25_00, ledgerCreationDate.AddDays(2))
	mustAdd(t, ledger, -10_00, ledgerCreationDate.AddDays(3))
	mustAdd(t, ledger, -1_00, ledgerCreationDate.AddDays(4))

	start := ledgerCreationDate.AddDays(2)

	assert.Equal(t, []Entry{
		NewEntry(-10_00, 165_00, ledgerCreationDate.AddDays(3)),
		NewEntry(25_00, 175_00, start),
		NewEntry(50_00, 150_00, start),
		NewEntry(0, 100_00, start),
	}, ledger.StatementFor(start, Days(1)))
}

func TestLedger_StatementCoveringWholeHistory(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)
	mustAdd(t, ledger, 100_00, ledgerCreationDate)
	mustAdd(t, ledger, -40_00, ledgerCreationDate.AddDays(10))

	start := ledgerCreationDate.AddDays(-5)

	assert.Equal(t, []Entry{
		NewEntry(-40_00, 60_00, ledgerCreationDate.AddDays(10)),
		NewEntry(100_00, 100_00, ledgerCreationDate),
		NewEntry(0, 0, start),
	}, ledger.StatementFor(start, Months(1)))
}

func TestLedger_StatementWindowWithoutActivity(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)
	mustAdd(t, ledger, 100_00, ledgerCreationDate.AddDays(1))
	mustAdd(t, ledger, 30_00, ledgerCreationDate.AddDays(20))

	start := ledgerCreationDate.AddDays(5)

	assert.Equal(t, []Entry{
		NewEntry(0, 100_00, start),
	}, ledger.StatementFor(start, Days(3)))
}

func TestLedger_StatementOnUntouchedLedger(t *testing.T) {
	ledger := NewLedger(ledgerCreationDate)

	assert.Equal(t, []Entry{
		NewEntry(0, 0, ledgerCreationDate),
	}, ledger.StatementFor(ledgerCreationDate, Days(1)))
}

func mustAdd(t *testing.T, ledger *Ledger, amount int64, date Date) {
	t.Helper()

	_, err := ledger.AddEntry(amount, date)
	require.NoError(t, err)
}
