package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"stars-referral-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. TranslateError is
// on, matching production, so duplicate-key conflicts surface the same way.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Withdrawal{},
		&models.Settings{},
		&models.RequiredChannel{},
		&models.SubscriptionReward{},
		&models.Exchange{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id int64, stars models.Stars) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		UserID:       id,
		Username:     fmt.Sprintf("user%d", id),
		FullName:     fmt.Sprintf("User %d", id),
		Stars:        stars,
		RegDate:      now,
		LastActivity: now,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func balanceOf(t *testing.T, db *gorm.DB, id int64) models.Stars {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "user_id = ?", id).Error)
	return user.Stars
}
