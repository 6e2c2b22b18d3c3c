package models

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is an escrow-on-request payout: the amount is debited from the
// user's balance at request time. Approval moves no further funds; rejection
// credits the escrowed amount back.
type Withdrawal struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      int64            `gorm:"index;not null" json:"user_id"`
	Amount      Stars            `gorm:"not null" json:"amount"`
	Status      WithdrawalStatus `gorm:"not null;default:'pending';index" json:"status"`
	PaymentInfo string           `json:"payment_info"`
	RequestDate time.Time        `json:"request_date"`
	ProcessDate *time.Time       `json:"process_date,omitempty"`
}
