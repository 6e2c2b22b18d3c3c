package models

// Settings is the singleton of global economy parameters. Mutated only by
// admins; read by every eligibility check.
type Settings struct {
	ID                 uint  `gorm:"primaryKey" json:"-"`
	MinReferrals       int   `gorm:"not null;default:35" json:"min_referrals"`
	MinTasks           int   `gorm:"not null;default:40" json:"min_tasks"`
	ReferralBonus      Stars `gorm:"not null;default:500" json:"referral_bonus"`
	StealPercent       int   `gorm:"not null;default:1" json:"steal_percent"`
	StealUnlockTasks   int   `gorm:"not null;default:25" json:"steal_unlock_tasks"`
	DailyGameLimit     int   `gorm:"not null;default:3" json:"daily_game_limit"`
	MaxReferralsPerDay int   `gorm:"not null;default:10" json:"max_referrals_per_day"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                 1,
		MinReferrals:       35,
		MinTasks:           40,
		ReferralBonus:      500, // 0.5 stars
		StealPercent:       1,
		StealUnlockTasks:   25,
		DailyGameLimit:     3,
		MaxReferralsPerDay: 10,
	}
}
