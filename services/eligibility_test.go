package services

import (
	"testing"

	"stars-referral-system/models"

	"github.com/stretchr/testify/assert"
)

func TestCanWithdrawBoundaries(t *testing.T) {
	settings := models.DefaultSettings()
	settings.MinTasks = 40
	settings.MinReferrals = 35

	cases := []struct {
		name     string
		tasks    int
		refs     int
		eligible bool
	}{
		{"both below", 39, 34, false},
		{"tasks below", 39, 35, false},
		{"referrals below", 40, 34, false},
		{"exactly at thresholds", 40, 35, true},
		{"above thresholds", 41, 36, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &models.User{CompletedTasks: tc.tasks, ReferralsCount: tc.refs}
			assert.Equal(t, tc.eligible, CanWithdraw(user, &settings))
		})
	}
}

func TestCanSteal(t *testing.T) {
	settings := models.DefaultSettings()
	settings.StealUnlockTasks = 25
	settings.DailyGameLimit = 3
	today := "2026-08-28"

	locked := &models.User{CompletedTasks: 24}
	assert.False(t, CanSteal(locked, &settings, today))

	unlocked := &models.User{CompletedTasks: 25}
	assert.True(t, CanSteal(unlocked, &settings, today))

	exhausted := &models.User{CompletedTasks: 25, DailyGames: 3, LastGameDate: today}
	assert.False(t, CanSteal(exhausted, &settings, today))

	// Yesterday's exhaustion does not carry over.
	staleDay := &models.User{CompletedTasks: 25, DailyGames: 3, LastGameDate: "2026-08-27"}
	assert.True(t, CanSteal(staleDay, &settings, today))
}

func TestGamesRemaining(t *testing.T) {
	settings := models.DefaultSettings()
	settings.DailyGameLimit = 3
	today := "2026-08-28"

	assert.Equal(t, 3, GamesRemaining(&models.User{}, &settings, today))
	assert.Equal(t, 1, GamesRemaining(&models.User{DailyGames: 2, LastGameDate: today}, &settings, today))
	assert.Equal(t, 0, GamesRemaining(&models.User{DailyGames: 5, LastGameDate: today}, &settings, today))
	assert.Equal(t, 3, GamesRemaining(&models.User{DailyGames: 3, LastGameDate: "2026-08-27"}, &settings, today))
}
