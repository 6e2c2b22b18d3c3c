package services

import (
	"time"

	"stars-referral-system/models"
)

// Eligibility checks are pure functions over a user snapshot and the settings
// singleton. Callers gate the UI with them and re-validate inside the mutating
// transaction; a cached "eligible" from the presentation layer is never
// trusted at mutation time.

// CanWithdraw reports whether the user cleared both withdrawal thresholds.
// Boundary at equality passes.
func CanWithdraw(u *models.User, s *models.Settings) bool {
	return u.CompletedTasks >= s.MinTasks && u.ReferralsCount >= s.MinReferrals
}

// CanSteal reports whether the steal mechanic is unlocked and the user still
// has plays left today.
func CanSteal(u *models.User, s *models.Settings, today string) bool {
	if u.CompletedTasks < s.StealUnlockTasks {
		return false
	}
	return GamesRemaining(u, s, today) > 0
}

// GamesRemaining returns how many quota-governed plays the user has left for
// the given calendar day. A stale LastGameDate counts as a fresh day.
func GamesRemaining(u *models.User, s *models.Settings, today string) int {
	played := u.DailyGames
	if u.LastGameDate != today {
		played = 0
	}
	rem := s.DailyGameLimit - played
	if rem < 0 {
		rem = 0
	}
	return rem
}

// Today formats t as the calendar-day key used on user rows.
func Today(t time.Time) string {
	return t.Format("2006-01-02")
}
