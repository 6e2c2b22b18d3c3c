package services

import (
	"errors"
	"log"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

// LedgerService owns every balance mutation. All writes are single conditional
// UPDATE statements checked via RowsAffected, never a read-modify-write across
// a request boundary, so concurrent handlers cannot lose or double an
// increment.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// creditTx adds amount to the user's balance inside an existing transaction.
func (s *LedgerService) creditTx(tx *gorm.DB, userID int64, amount models.Stars) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	res := tx.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("stars", gorm.Expr("stars + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// debitTx subtracts amount, guarded by the balance check in the same
// statement. RowsAffected == 0 on an existing user means the balance would
// have gone negative.
func (s *LedgerService) debitTx(tx *gorm.DB, userID int64, amount models.Stars) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	res := tx.Model(&models.User{}).
		Where("user_id = ? AND stars >= ?", userID, amount).
		Update("stars", gorm.Expr("stars - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (s *LedgerService) Credit(userID int64, amount models.Stars) error {
	return s.creditTx(s.DB, userID, amount)
}

func (s *LedgerService) Debit(userID int64, amount models.Stars) error {
	return s.debitTx(s.DB, userID, amount)
}

// Balance returns the user's current star balance.
func (s *LedgerService) Balance(userID int64) (models.Stars, error) {
	var user models.User
	if err := s.DB.Select("stars").First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Stars, nil
}

// Transfer moves amount between two users as one transaction: both rows
// commit or neither.
func (s *LedgerService) Transfer(fromID, toID int64, amount models.Stars) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.debitTx(tx, fromID, amount); err != nil {
			return err
		}
		return s.creditTx(tx, toID, amount)
	})
}

// AdjustBalance applies an admin-issued signed delta. Negative deltas go
// through the same guarded debit, so even an admin edit cannot push a balance
// below zero.
func (s *LedgerService) AdjustBalance(userID int64, delta models.Stars) error {
	if delta == 0 {
		return ErrInvalidAmount
	}
	if delta > 0 {
		return s.creditTx(s.DB, userID, delta)
	}
	return s.debitTx(s.DB, userID, -delta)
}

// ResetAllBalances zeroes every balance and reports how many rows changed.
func (s *LedgerService) ResetAllBalances() (int64, error) {
	res := s.DB.Model(&models.User{}).
		Where("stars <> 0").
		Update("stars", 0)
	if res.Error != nil {
		return 0, res.Error
	}
	log.Printf("🧹 Balance reset: %d account(s) zeroed", res.RowsAffected)
	return res.RowsAffected, nil
}
