package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"stars-referral-system/models"
	"stars-referral-system/utils"

	"gorm.io/gorm"
)

// BroadcastWorker pushes an admin announcement to every active user through
// the bot transport. It runs a bounded-concurrency pool with per-item
// success/failure accounting instead of a serial loop with sleeps.
type BroadcastWorker struct {
	DB          *gorm.DB
	BotURL      string
	Token       string
	HTTPClient  *http.Client
	Concurrency int
}

func NewBroadcastWorker(db *gorm.DB) *BroadcastWorker {
	botURL := os.Getenv("BOT_TRANSPORT_URL")
	if botURL == "" {
		log.Fatal("❌ BOT_TRANSPORT_URL environment variable is not set")
	}
	token := os.Getenv("BOT_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("❌ BOT_SERVICE_TOKEN environment variable is not set")
	}
	return &BroadcastWorker{
		DB:          db,
		BotURL:      botURL,
		Token:       token,
		HTTPClient:  utils.HTTPClient,
		Concurrency: 8,
	}
}

// BroadcastReport is the partial-failure accounting for one run.
type BroadcastReport struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func (w *BroadcastWorker) sendOne(ctx context.Context, userID int64, text string) error {
	body, err := json.Marshal(map[string]interface{}{
		"chat_id": userID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BotURL+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", w.Token)

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bot transport returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// Broadcast fans the message out to all non-banned users. A failed delivery
// is counted and logged, never aborts the batch; context cancellation drains
// the remaining queue.
func (w *BroadcastWorker) Broadcast(ctx context.Context, text string) (*BroadcastReport, error) {
	var ids []int64
	if err := w.DB.Model(&models.User{}).
		Where("is_banned = ?", false).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}

	report := &BroadcastReport{Total: len(ids)}
	if len(ids) == 0 {
		return report, nil
	}

	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	queue := make(chan int64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range queue {
				err := w.sendOne(ctx, userID, text)
				mu.Lock()
				if err != nil {
					report.Failed++
				} else {
					report.Sent++
				}
				mu.Unlock()
				if err != nil {
					log.Printf("📣 Broadcast delivery to %d failed: %v", userID, err)
				}
			}
		}()
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			goto done
		case queue <- id:
		}
	}
done:
	close(queue)
	wg.Wait()

	mu.Lock()
	report.Failed += report.Total - report.Sent - report.Failed
	mu.Unlock()

	log.Printf("📣 Broadcast finished: %d sent, %d failed of %d", report.Sent, report.Failed, report.Total)
	return report, nil
}
