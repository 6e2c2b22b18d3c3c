package services

import (
	"errors"
	"log"
	"time"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetUser(userID int64) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// activeUserTx loads a user inside a transaction and refuses banned accounts.
// Every mutating economy operation goes through this check.
func activeUserTx(tx *gorm.DB, userID int64) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}
	return &user, nil
}

// TouchActivity stamps the user's last-activity time.
func (s *UserService) TouchActivity(userID int64) error {
	res := s.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("last_activity", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TopUsers returns the highest balances first (the leaderboard and the steal
// victim pool both read from here).
func (s *UserService) TopUsers(limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var users []models.User
	err := s.DB.
		Where("is_banned = ?", false).
		Order("stars DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// SetBanned soft-disables (or re-enables) an account. Banned users keep their
// rows but are refused by every economy operation.
func (s *UserService) SetBanned(userID int64, banned bool) error {
	res := s.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("is_banned", banned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser hard-purges an account and everything hanging off it. One
// transaction: either the whole cascade lands or none of it.
func (s *UserService) DeleteUser(userID int64) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Withdrawal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SubscriptionReward{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Exchange{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "user_id = ?", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err == nil {
		log.Printf("🗑  User %d purged with dependent records", userID)
	}
	return err
}
