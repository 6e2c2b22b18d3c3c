package services

import (
	"errors"
	"log"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the economy settings singleton, creating the defaults row on
// first read.
func (s *SettingsService) Get() (*models.Settings, error) {
	var settings models.Settings
	err := s.DB.First(&settings, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultSettings()
		if err := s.DB.Create(&settings).Error; err != nil {
			// A concurrent first read may have created it already.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := s.DB.First(&settings, "id = ?", 1).Error; err != nil {
					return nil, err
				}
				return &settings, nil
			}
			return nil, err
		}
		log.Println("⚙️  Economy settings initialized with defaults")
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SettingsPatch carries the admin's partial update; nil fields are untouched.
type SettingsPatch struct {
	MinReferrals       *int          `json:"min_referrals"`
	MinTasks           *int          `json:"min_tasks"`
	ReferralBonus      *models.Stars `json:"referral_bonus"`
	StealPercent       *int          `json:"steal_percent"`
	StealUnlockTasks   *int          `json:"steal_unlock_tasks"`
	DailyGameLimit     *int          `json:"daily_game_limit"`
	MaxReferralsPerDay *int          `json:"max_referrals_per_day"`
}

func (s *SettingsService) Update(patch SettingsPatch) (*models.Settings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if patch.MinReferrals != nil && *patch.MinReferrals >= 0 {
		settings.MinReferrals = *patch.MinReferrals
	}
	if patch.MinTasks != nil && *patch.MinTasks >= 0 {
		settings.MinTasks = *patch.MinTasks
	}
	if patch.ReferralBonus != nil && *patch.ReferralBonus >= 0 {
		settings.ReferralBonus = *patch.ReferralBonus
	}
	if patch.StealPercent != nil && *patch.StealPercent >= 0 && *patch.StealPercent <= 100 {
		settings.StealPercent = *patch.StealPercent
	}
	if patch.StealUnlockTasks != nil && *patch.StealUnlockTasks >= 0 {
		settings.StealUnlockTasks = *patch.StealUnlockTasks
	}
	if patch.DailyGameLimit != nil && *patch.DailyGameLimit >= 0 {
		settings.DailyGameLimit = *patch.DailyGameLimit
	}
	if patch.MaxReferralsPerDay != nil && *patch.MaxReferralsPerDay >= 0 {
		settings.MaxReferralsPerDay = *patch.MaxReferralsPerDay
	}

	if err := s.DB.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
