package services

import (
	"errors"
	"time"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

// ChannelService manages sponsor channels and their one-time subscription
// rewards. Crediting follows the task-completion contract: a composite
// primary key makes duplicate grants a storage conflict, not a double reward.
type ChannelService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewChannelService(db *gorm.DB, ledger *LedgerService) *ChannelService {
	return &ChannelService{DB: db, Ledger: ledger}
}

func (s *ChannelService) AddChannel(channelID, name string, reward models.Stars) (*models.RequiredChannel, error) {
	if reward <= 0 {
		return nil, ErrInvalidAmount
	}
	channel := &models.RequiredChannel{
		ChannelID:   channelID,
		ChannelName: name,
		Reward:      reward,
		AddedDate:   time.Now(),
	}
	if err := s.DB.Create(channel).Error; err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) RemoveChannel(channelID string) error {
	res := s.DB.Delete(&models.RequiredChannel{}, "channel_id = ?", channelID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (s *ChannelService) UpdateChannelReward(channelID string, reward models.Stars) error {
	if reward <= 0 {
		return ErrInvalidAmount
	}
	res := s.DB.Model(&models.RequiredChannel{}).
		Where("channel_id = ?", channelID).
		Update("reward", reward)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (s *ChannelService) ListChannels() ([]models.RequiredChannel, error) {
	var channels []models.RequiredChannel
	err := s.DB.Order("added_date ASC").Find(&channels).Error
	return channels, err
}

// GrantSubscriptionReward credits the channel's reward at most once per
// (user, channel). The caller verifies the actual subscription with the bot
// transport before calling; the ledger only guarantees the bookkeeping.
func (s *ChannelService) GrantSubscriptionReward(userID int64, channelID string) (models.Stars, error) {
	var amount models.Stars
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var channel models.RequiredChannel
		if err := tx.First(&channel, "channel_id = ?", channelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChannelNotFound
			}
			return err
		}

		if _, err := activeUserTx(tx, userID); err != nil {
			return err
		}

		reward := models.SubscriptionReward{
			UserID:      userID,
			ChannelID:   channelID,
			ChannelName: channel.ChannelName,
			Amount:      channel.Reward,
			RewardDate:  time.Now(),
		}
		if err := tx.Create(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRewarded
			}
			return err
		}

		amount = channel.Reward
		return s.Ledger.creditTx(tx, userID, channel.Reward)
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// UserSubscriptionRewards lists the channels a user has been rewarded for.
func (s *ChannelService) UserSubscriptionRewards(userID int64) ([]models.SubscriptionReward, error) {
	var rows []models.SubscriptionReward
	err := s.DB.Where("user_id = ?", userID).Order("reward_date DESC").Find(&rows).Error
	return rows, err
}
