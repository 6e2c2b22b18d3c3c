package services

import (
	"errors"
	"log"
	"time"

	"stars-referral-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithdrawalService runs the escrow-on-request payout workflow:
// Pending -> Approved (terminal, funds already removed) or
// Pending -> Rejected (terminal, compensating credit).
type WithdrawalService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Settings *SettingsService
}

func NewWithdrawalService(db *gorm.DB, ledger *LedgerService, settings *SettingsService) *WithdrawalService {
	return &WithdrawalService{DB: db, Ledger: ledger, Settings: settings}
}

// Request escrows the amount immediately: eligibility and balance are
// re-validated inside the transaction, the debit lands with the pending
// insert, and the user's visible balance already reflects the payout.
func (s *WithdrawalService) Request(userID int64, amount models.Stars, paymentInfo string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	var withdrawal *models.Withdrawal
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := activeUserTx(tx, userID)
		if err != nil {
			return err
		}
		if !CanWithdraw(user, settings) {
			return ErrNotEligible
		}
		if err := s.Ledger.debitTx(tx, userID, amount); err != nil {
			return err
		}
		withdrawal = &models.Withdrawal{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      amount,
			Status:      models.WithdrawalPending,
			PaymentInfo: paymentInfo,
			RequestDate: time.Now(),
		}
		return tx.Create(withdrawal).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("💸 Withdrawal %s: user %d escrowed %s star(s)", withdrawal.ID, userID, amount)
	return withdrawal, nil
}

// Process settles a pending request. The status flip is a conditional update
// keyed on the pending state, so a second decision on the same request fails
// with ErrInvalidState instead of double-crediting. Rejection restores the
// escrowed amount in the same transaction.
func (s *WithdrawalService) Process(requestID string, approve bool) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&withdrawal, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWithdrawalNotFound
			}
			return err
		}

		status := models.WithdrawalRejected
		if approve {
			status = models.WithdrawalApproved
		}
		now := time.Now()

		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", requestID, models.WithdrawalPending).
			Updates(map[string]interface{}{
				"status":       status,
				"process_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		if !approve {
			if err := s.Ledger.creditTx(tx, withdrawal.UserID, withdrawal.Amount); err != nil {
				return err
			}
		}

		withdrawal.Status = status
		withdrawal.ProcessDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🏦 Withdrawal %s %s (user %d, %s star(s))",
		withdrawal.ID, withdrawal.Status, withdrawal.UserID, withdrawal.Amount)
	return &withdrawal, nil
}

// PendingItem is a queue row for the admin surface.
type PendingItem struct {
	ID          string       `json:"id"`
	UserID      int64        `json:"user_id"`
	Username    string       `json:"username"`
	Amount      models.Stars `json:"amount"`
	RequestDate time.Time    `json:"request_date"`
}

func (s *WithdrawalService) PendingWithdrawals() ([]PendingItem, error) {
	var items []PendingItem
	err := s.DB.Model(&models.Withdrawal{}).
		Select("withdrawals.id, withdrawals.user_id, users.username, withdrawals.amount, withdrawals.request_date").
		Joins("JOIN users ON users.user_id = withdrawals.user_id").
		Where("withdrawals.status = ?", models.WithdrawalPending).
		Order("withdrawals.request_date ASC").
		Scan(&items).Error
	return items, err
}

// UserWithdrawals lists a user's own request history.
func (s *WithdrawalService) UserWithdrawals(userID int64) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := s.DB.Where("user_id = ?", userID).Order("request_date DESC").Find(&rows).Error
	return rows, err
}
