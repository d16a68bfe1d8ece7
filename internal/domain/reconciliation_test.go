package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_ReconcileConsistentHistory(t *testing.T) {
	ledger := NewLedger(NewDate(2018, time.January, 1))
	_, err := ledger.AddEntry(100000, NewDate(2018, time.January, 1))
	require.NoError(t, err)
	_, err = ledger.AddEntry(-1000, NewDate(2018, time.January, 2))
	require.NoError(t, err)

	r := ledger.Reconcile()

	assert.True(t, r.Consistent())
	assert.Equal(t, int64(99000), r.RecordedBalance)
	assert.Equal(t, int64(99000), r.CalculatedBalance)
	assert.Zero(t, r.Difference())
	assert.Equal(t, 3, r.EntryCount)
}

func TestLedger_ReconcileFreshLedger(t *testing.T) {
	r := NewLedger(NewDate(2018, time.January, 1)).Reconcile()

	assert.True(t, r.Consistent())
	assert.Equal(t, 1, r.EntryCount)
}

func TestLedger_ReconcileDetectsCorruption(t *testing.T) {
	jan1 := NewDate(2018, time.January, 1)
	ledger := &Ledger{entries: []Entry{
		NewEntry(0, 0, jan1),
		NewEntry(500, 500, jan1.AddDays(2)),
		NewEntry(-100, 450, jan1.AddDays(1)),
	}}

	r := ledger.Reconcile()

	require.False(t, r.Consistent())
	assert.Equal(t, int64(450), r.RecordedBalance)
	assert.Equal(t, int64(400), r.CalculatedBalance)
	assert.Equal(t, int64(50), r.Difference())
	assert.Len(t, r.Problems, 3)
}

func TestAccount_Reconcile(t *testing.T) {
	day := NewDate(2018, time.January, 1)
	account := NewAccount(day, FixedClock(day))

	_, err := account.Deposit(700)
	require.NoError(t, err)

	r := account.Reconcile()
	assert.True(t, r.Consistent())
	assert.Equal(t, int64(700), r.CalculatedBalance)
}
