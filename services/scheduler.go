package services

import (
	"log"
	"time"

	"stars-referral-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartMaintenanceScheduler runs the daily economy housekeeping: a pending
// withdrawals digest for the admins and a sweep that zeroes stale daily game
// counters. The sweep is hygiene only; correctness comes from the lazy reset
// inside the quota step.
func StartMaintenanceScheduler(db *gorm.DB) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			var pending int64
			if err := db.Model(&models.Withdrawal{}).
				Where("status = ?", models.WithdrawalPending).
				Count(&pending).Error; err != nil {
				log.Printf("[Maintenance] DB error counting pending withdrawals: %v", err)
			} else if pending > 0 {
				log.Printf("📋 [Maintenance] %d withdrawal request(s) awaiting decision", pending)
			}

			today := Today(time.Now())
			res := db.Model(&models.User{}).
				Where("last_game_date <> ? AND daily_games > 0", today).
				Update("daily_games", 0)
			if res.Error != nil {
				log.Printf("[Maintenance] DB error sweeping game counters: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("🧹 [Maintenance] Reset daily game counters for %d user(s)", res.RowsAffected)
			}
		}),
	)
}
