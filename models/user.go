package models

import "time"

// User is one bot account. The primary key is the opaque numeric id supplied
// by the bot transport, not a UUID we mint.
type User struct {
	UserID         int64     `gorm:"primaryKey" json:"user_id"`
	Username       string    `gorm:"index" json:"username"`
	FullName       string    `json:"full_name"`
	ReferrerID     *int64    `gorm:"index" json:"referrer_id,omitempty"`
	Stars          Stars     `gorm:"not null;default:0" json:"stars"`
	CompletedTasks int       `gorm:"not null;default:0" json:"completed_tasks"`
	ReferralsCount int       `gorm:"not null;default:0" json:"referrals_count"`
	IsBanned       bool      `gorm:"not null;default:false" json:"is_banned"`
	RegDate        time.Time `gorm:"index" json:"reg_date"`
	LastActivity   time.Time `json:"last_activity"`

	// Shared daily play quota across all mini-games. LastGameDate holds a
	// "2006-01-02" calendar day; the counter is lazily reset on the first
	// play of a new day.
	DailyGames   int    `gorm:"not null;default:0" json:"daily_games"`
	LastGameDate string `gorm:"size:10" json:"last_game_date,omitempty"`
}
