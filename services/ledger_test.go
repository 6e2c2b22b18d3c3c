package services

import (
	"testing"

	"stars-referral-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreditDebit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(100))

	require.NoError(t, ledger.Credit(1, models.FromStars(5)))
	assert.Equal(t, models.FromStars(105), balanceOf(t, db, 1))

	require.NoError(t, ledger.Debit(1, models.FromStars(30)))
	assert.Equal(t, models.FromStars(75), balanceOf(t, db, 1))
}

func TestLedgerDebitInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(10))

	err := ledger.Debit(1, models.FromStars(11))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, models.FromStars(10), balanceOf(t, db, 1))

	// Exact balance drains to zero, never below.
	require.NoError(t, ledger.Debit(1, models.FromStars(10)))
	assert.Equal(t, models.Stars(0), balanceOf(t, db, 1))
}

func TestLedgerUnknownUser(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)

	assert.ErrorIs(t, ledger.Credit(404, models.FromStars(1)), ErrUserNotFound)
	assert.ErrorIs(t, ledger.Debit(404, models.FromStars(1)), ErrUserNotFound)
	_, err := ledger.Balance(404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLedgerInvalidAmounts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(10))

	assert.ErrorIs(t, ledger.Credit(1, 0), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.Debit(1, -models.FromStars(1)), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.AdjustBalance(1, 0), ErrInvalidAmount)
}

func TestLedgerTransferConservation(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(100))
	seedUser(t, db, 2, models.FromStars(40))

	require.NoError(t, ledger.Transfer(1, 2, models.FromStars(25)))
	assert.Equal(t, models.FromStars(75), balanceOf(t, db, 1))
	assert.Equal(t, models.FromStars(65), balanceOf(t, db, 2))

	// A failing transfer leaves both rows untouched.
	err := ledger.Transfer(2, 1, models.FromStars(1000))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, models.FromStars(75), balanceOf(t, db, 1))
	assert.Equal(t, models.FromStars(65), balanceOf(t, db, 2))
}

func TestLedgerAdjustBalance(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(10))

	require.NoError(t, ledger.AdjustBalance(1, models.FromStars(15)))
	assert.Equal(t, models.FromStars(25), balanceOf(t, db, 1))

	require.NoError(t, ledger.AdjustBalance(1, -models.FromStars(5)))
	assert.Equal(t, models.FromStars(20), balanceOf(t, db, 1))

	// Even an admin edit cannot push a balance negative.
	assert.ErrorIs(t, ledger.AdjustBalance(1, -models.FromStars(21)), ErrInsufficientFunds)
	assert.Equal(t, models.FromStars(20), balanceOf(t, db, 1))
}

func TestLedgerResetAllBalances(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	seedUser(t, db, 1, models.FromStars(10))
	seedUser(t, db, 2, models.FromStars(20))
	seedUser(t, db, 3, 0)

	count, err := ledger.ResetAllBalances()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, models.Stars(0), balanceOf(t, db, 1))
	assert.Equal(t, models.Stars(0), balanceOf(t, db, 2))
}
