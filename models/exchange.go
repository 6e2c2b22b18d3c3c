package models

import "time"

type ExchangeStatus string

const (
	ExchangeCompleted ExchangeStatus = "completed"
	ExchangeFailed    ExchangeStatus = "failed"
)

// Exchange is the audit row for a stars -> external currency conversion.
// The external platform is authoritative for the money side; we only debit
// stars and keep the trail.
type Exchange struct {
	ID             string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         int64          `gorm:"index;not null" json:"user_id"`
	StarsAmount    Stars          `gorm:"not null" json:"stars_amount"`
	ExternalAmount float64        `gorm:"not null" json:"external_amount"`
	Status         ExchangeStatus `gorm:"not null;default:'completed'" json:"status"`
	ExchangeDate   time.Time      `json:"exchange_date"`
}
