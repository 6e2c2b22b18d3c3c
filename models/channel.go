package models

import "time"

// RequiredChannel is a sponsor channel the bot asks users to subscribe to.
// Subscribing pays a one-time star reward.
type RequiredChannel struct {
	ChannelID   string    `gorm:"primaryKey" json:"channel_id"`
	ChannelName string    `gorm:"not null" json:"channel_name"`
	Reward      Stars     `gorm:"not null;default:10000" json:"reward"`
	AddedDate   time.Time `json:"added_date"`
}

// SubscriptionReward records a credited channel subscription. Composite
// primary key enforces at-most-once crediting per (user, channel), same
// discipline as task completions.
type SubscriptionReward struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ChannelID   string    `gorm:"primaryKey" json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Amount      Stars     `gorm:"not null" json:"amount"`
	RewardDate  time.Time `json:"reward_date"`
}
