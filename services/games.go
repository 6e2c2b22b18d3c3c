package services

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"stars-referral-system/models"

	"gorm.io/gorm"
)

// Dice payout table, keyed by face. Face 6 is the jackpot tail.
var DiceRewards = map[int]models.Stars{
	1: models.FromStars(1),
	2: models.FromStars(2),
	3: models.FromStars(3),
	4: models.FromStars(4),
	5: models.FromStars(5),
	6: models.FromStars(10),
}

// Slot machine symbol set. Weights bias heavily toward the low-value
// symbols; a payout requires all three reels to match.
var (
	slotSymbols = []string{"🍒", "🍋", "7️⃣", "💎"}
	slotWeights = []int{50, 30, 15, 5}

	SlotRewards = map[string]models.Stars{
		"🍒": models.FromStars(3),
		"🍋": models.FromStars(5),
		"7️⃣": models.FromStars(10),
		"💎": models.FromStars(20),
	}
)

// stealVictimPool caps how deep into the leaderboard the random victim draw
// reaches.
const stealVictimPool = 50

// GameService runs the three quota-governed mini-games. The quota step is a
// pair of conditional updates so two concurrent plays can never both consume
// the last slot, and the randomness hooks are injectable for tests.
type GameService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Settings *SettingsService

	randInt func(n int) int
	now     func() time.Time
}

func NewGameService(db *gorm.DB, ledger *LedgerService, settings *SettingsService) *GameService {
	return &GameService{
		DB:       db,
		Ledger:   ledger,
		Settings: settings,
		randInt:  rand.Intn,
		now:      time.Now,
	}
}

type DiceResult struct {
	Face   int          `json:"face"`
	Reward models.Stars `json:"reward"`
}

type SlotsResult struct {
	Reels  [3]string    `json:"reels"`
	Reward models.Stars `json:"reward"`
}

type StealResult struct {
	VictimID int64        `json:"victim_id,omitempty"`
	Amount   models.Stars `json:"amount"`
}

// consumeQuotaTx burns one play from the shared daily quota. The counter is
// lazily reset when the stored day differs from today, then incremented with
// a guard on the limit in the same statement; losing the guard means the
// quota is spent.
func (s *GameService) consumeQuotaTx(tx *gorm.DB, userID int64, limit int, today string) error {
	err := tx.Model(&models.User{}).
		Where("user_id = ? AND last_game_date <> ?", userID, today).
		Updates(map[string]interface{}{"daily_games": 0, "last_game_date": today}).Error
	if err != nil {
		return err
	}

	res := tx.Model(&models.User{}).
		Where("user_id = ? AND daily_games < ?", userID, limit).
		Update("daily_games", gorm.Expr("daily_games + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// PlayDice draws a face uniformly from 1..6 and credits the table payout.
// This variant never loses: the quota is the cost of playing.
func (s *GameService) PlayDice(userID int64) (*DiceResult, error) {
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	result := &DiceResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeUserTx(tx, userID); err != nil {
			return err
		}
		if err := s.consumeQuotaTx(tx, userID, settings.DailyGameLimit, Today(s.now())); err != nil {
			return err
		}

		result.Face = s.randInt(6) + 1
		result.Reward = DiceRewards[result.Face]
		if result.Reward > 0 {
			return s.Ledger.creditTx(tx, userID, result.Reward)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GameService) spinReel() string {
	total := 0
	for _, w := range slotWeights {
		total += w
	}
	pick := s.randInt(total)
	for i, w := range slotWeights {
		if pick < w {
			return slotSymbols[i]
		}
		pick -= w
	}
	return slotSymbols[len(slotSymbols)-1]
}

// PlaySlots spins three independent weighted reels. Only three of a kind
// pays, looked up by symbol; a miss pays nothing and costs nothing beyond
// the quota.
func (s *GameService) PlaySlots(userID int64) (*SlotsResult, error) {
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	result := &SlotsResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeUserTx(tx, userID); err != nil {
			return err
		}
		if err := s.consumeQuotaTx(tx, userID, settings.DailyGameLimit, Today(s.now())); err != nil {
			return err
		}

		for i := range result.Reels {
			result.Reels[i] = s.spinReel()
		}
		if result.Reels[0] == result.Reels[1] && result.Reels[1] == result.Reels[2] {
			result.Reward = SlotRewards[result.Reels[0]]
		}
		if result.Reward > 0 {
			return s.Ledger.creditTx(tx, userID, result.Reward)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Steal transfers a clamped percentage of a random victim's balance to the
// thief. Unlock eligibility is re-validated inside the transaction, the quota
// step applies like any other game, and the two-row transfer commits
// atomically. A dry victim pool returns zero stolen with the quota spent.
func (s *GameService) Steal(thiefID int64) (*StealResult, error) {
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	result := &StealResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		thief, err := activeUserTx(tx, thiefID)
		if err != nil {
			return err
		}
		if thief.CompletedTasks < settings.StealUnlockTasks {
			return ErrNotEligible
		}
		if err := s.consumeQuotaTx(tx, thiefID, settings.DailyGameLimit, Today(s.now())); err != nil {
			return err
		}

		var victims []models.User
		err = tx.
			Where("user_id <> ? AND is_banned = ? AND stars > 0", thiefID, false).
			Order("stars DESC").
			Limit(stealVictimPool).
			Find(&victims).Error
		if err != nil {
			return err
		}
		if len(victims) == 0 {
			return nil
		}

		victim := victims[s.randInt(len(victims))]
		amount := victim.Stars.Percent(settings.StealPercent)
		if amount < models.StarUnit {
			amount = models.StarUnit
		}
		if amount > victim.Stars {
			amount = victim.Stars
		}

		// The victim may have spent stars since the pool query; the guarded
		// debit catches that, and one clamped retry settles it.
		if err := s.Ledger.debitTx(tx, victim.UserID, amount); err != nil {
			if !errors.Is(err, ErrInsufficientFunds) {
				return err
			}
			balance, berr := currentBalanceTx(tx, victim.UserID)
			if berr != nil {
				return berr
			}
			if balance <= 0 {
				return nil
			}
			amount = balance
			if err := s.Ledger.debitTx(tx, victim.UserID, amount); err != nil {
				return err
			}
		}
		if err := s.Ledger.creditTx(tx, thiefID, amount); err != nil {
			return err
		}

		result.VictimID = victim.UserID
		result.Amount = amount
		log.Printf("💰 Steal: user %d took %s star(s) from user %d", thiefID, amount, victim.UserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func currentBalanceTx(tx *gorm.DB, userID int64) (models.Stars, error) {
	var user models.User
	if err := tx.Select("stars").First(&user, "user_id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.Stars, nil
}
