package services

import (
	"errors"
	"log"
	"time"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

type ReferralService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewReferralService(db *gorm.DB, settings *SettingsService) *ReferralService {
	return &ReferralService{DB: db, Settings: settings}
}

// Registration is the outcome of a first-contact /start.
type Registration struct {
	User         *models.User `json:"user"`
	Created      bool         `json:"created"`
	BonusGranted bool         `json:"bonus_granted"`
}

// RegisterUser creates the account on first contact. When the newcomer
// carries a referrer id, the referrer is credited the configured bonus and
// counter increment in the same transaction as the insert. A self-referral
// is rejected outright, and a referrer who already brought
// MaxReferralsPerDay users today registers the newcomer without any bonus.
func (s *ReferralService) RegisterUser(userID int64, username, fullName string, referrerID *int64) (*Registration, error) {
	if referrerID != nil && *referrerID == userID {
		log.Printf("⚠️  Self-referral rejected for user %d", userID)
		return nil, ErrSelfReferral
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	reg := &Registration{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.First(&existing, "user_id = ?", userID).Error
		if err == nil {
			reg.User = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		user := models.User{
			UserID:       userID,
			Username:     username,
			FullName:     fullName,
			ReferrerID:   referrerID,
			RegDate:      now,
			LastActivity: now,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent /start; the account exists.
				if err := tx.First(&existing, "user_id = ?", userID).Error; err != nil {
					return err
				}
				reg.User = &existing
				return nil
			}
			return err
		}
		reg.User = &user
		reg.Created = true

		if user.ReferrerID == nil {
			return nil
		}

		granted, err := s.creditReferrerTx(tx, *user.ReferrerID, userID, settings, now)
		if err != nil {
			return err
		}
		reg.BonusGranted = granted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// creditReferrerTx applies the daily-volume fraud guard and, when it passes,
// increments the referrer's counter and mints the bonus. The count excludes
// the row just inserted for the newcomer.
func (s *ReferralService) creditReferrerTx(tx *gorm.DB, referrerID, newUserID int64, settings *models.Settings, now time.Time) (bool, error) {
	var referrer models.User
	if err := tx.First(&referrer, "user_id = ?", referrerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  Referrer %d not found, registration of %d proceeds unreferred", referrerID, newUserID)
			return false, nil
		}
		return false, err
	}
	if referrer.IsBanned {
		log.Printf("⚠️  Referrer %d is banned, no referral bonus for registering %d", referrerID, newUserID)
		return false, nil
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayCount int64
	err := tx.Model(&models.User{}).
		Where("referrer_id = ? AND reg_date >= ? AND user_id <> ?", referrerID, startOfDay, newUserID).
		Count(&todayCount).Error
	if err != nil {
		return false, err
	}
	if todayCount >= int64(settings.MaxReferralsPerDay) {
		log.Printf("🚨 Referral fraud guard: user %d already brought %d referral(s) today, skipping bonus for %d",
			referrerID, todayCount, newUserID)
		return false, nil
	}

	res := tx.Model(&models.User{}).
		Where("user_id = ?", referrerID).
		Updates(map[string]interface{}{
			"referrals_count": gorm.Expr("referrals_count + 1"),
			"stars":           gorm.Expr("stars + ?", settings.ReferralBonus),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReferralsToday counts every same-day registration carrying the referrer id,
// whether or not the fraud guard let it credit (the admin dashboard's fraud
// view wants the raw volume).
func (s *ReferralService) ReferralsToday(referrerID int64, now time.Time) (int64, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("referrer_id = ? AND reg_date >= ?", referrerID, startOfDay).
		Count(&count).Error
	return count, err
}
