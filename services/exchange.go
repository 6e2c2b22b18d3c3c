package services

import (
	"errors"
	"log"
	"time"

	"stars-referral-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExchangeService converts stars into the external platform's currency.
// The external platform is authoritative for the money movement; here the
// stars are debited under the balance guard and the conversion is logged.
type ExchangeService struct {
	DB     *gorm.DB
	Ledger *LedgerService

	// Rate is external currency per star.
	Rate float64
}

func NewExchangeService(db *gorm.DB, ledger *LedgerService, rate float64) *ExchangeService {
	return &ExchangeService{DB: db, Ledger: ledger, Rate: rate}
}

func (s *ExchangeService) Exchange(userID int64, amount models.Stars) (*models.Exchange, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var exchange *models.Exchange
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeUserTx(tx, userID); err != nil {
			return err
		}
		if err := s.Ledger.debitTx(tx, userID, amount); err != nil {
			return err
		}
		exchange = &models.Exchange{
			ID:             uuid.NewString(),
			UserID:         userID,
			StarsAmount:    amount,
			ExternalAmount: amount.Float64() * s.Rate,
			Status:         models.ExchangeCompleted,
			ExchangeDate:   time.Now(),
		}
		return tx.Create(exchange).Error
	})
	if err != nil {
		// An attempt refused by the balance guard still lands in the trail,
		// marked failed, with no money movement.
		if errors.Is(err, ErrInsufficientFunds) {
			failed := &models.Exchange{
				ID:           uuid.NewString(),
				UserID:       userID,
				StarsAmount:  amount,
				Status:       models.ExchangeFailed,
				ExchangeDate: time.Now(),
			}
			if auditErr := s.DB.Create(failed).Error; auditErr != nil {
				log.Printf("[Exchange] failed to record refused attempt for user %d: %v", userID, auditErr)
			}
		}
		return nil, err
	}
	log.Printf("🔄 Exchange %s: user %d converted %s star(s)", exchange.ID, userID, amount)
	return exchange, nil
}

// ExchangeStats aggregates the conversion trail for the admin dashboard.
// The sums cover completed conversions only; refused attempts are reported
// as a separate count.
type ExchangeStats struct {
	TotalExchanges  int64        `json:"total_exchanges"`
	FailedExchanges int64        `json:"failed_exchanges"`
	UniqueUsers     int64        `json:"unique_users"`
	TotalStars      models.Stars `json:"total_stars"`
	TotalExternal   float64      `json:"total_external"`
}

func (s *ExchangeService) Stats() (*ExchangeStats, error) {
	stats := &ExchangeStats{}
	completed := func() *gorm.DB {
		return s.DB.Model(&models.Exchange{}).Where("status = ?", models.ExchangeCompleted)
	}
	if err := completed().Count(&stats.TotalExchanges).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Exchange{}).
		Where("status = ?", models.ExchangeFailed).
		Count(&stats.FailedExchanges).Error; err != nil {
		return nil, err
	}
	if err := completed().Distinct("user_id").Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}
	row := completed().
		Select("COALESCE(SUM(stars_amount), 0), COALESCE(SUM(external_amount), 0)").
		Row()
	if err := row.Scan(&stats.TotalStars, &stats.TotalExternal); err != nil {
		return nil, err
	}
	return stats, nil
}
