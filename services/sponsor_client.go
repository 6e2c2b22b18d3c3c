package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"stars-referral-system/models"
)

// SponsorOffer is an externally supplied task (subscription, click). The
// reward figure is display data only; any crediting for internal tasks goes
// through TaskService, never straight from a provider payload.
type SponsorOffer struct {
	TaskID string       `json:"task_id"`
	Title  string       `json:"title"`
	Reward models.Stars `json:"reward"`
	URL    string       `json:"url"`
}

// SponsorClient talks to the sponsor/offer provider. Calls are bounded by the
// client timeout and the request context; a failed lookup never overlaps a
// ledger mutation because handlers fetch offers first and mutate after.
type SponsorClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewSponsorClient() *SponsorClient {
	baseURL := os.Getenv("SPONSOR_API_URL")
	if baseURL == "" {
		log.Fatal("❌ SPONSOR_API_URL environment variable is not set")
	}
	apiKey := os.Getenv("SPONSOR_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ SPONSOR_API_KEY environment variable is not set")
	}
	return &SponsorClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchOffers returns the provider's current offers for a user. Any transport
// or decode failure surfaces as ErrProviderUnavailable so the presentation
// layer can offer a retry instead of a silent no-op.
func (c *SponsorClient) FetchOffers(ctx context.Context, userID, chatID int64) ([]SponsorOffer, error) {
	u, err := url.Parse(c.BaseURL + "/offers")
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", ErrProviderUnavailable, err)
	}
	q := u.Query()
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("chat_id", strconv.FormatInt(chatID, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: provider returned %d: %s", ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var payload struct {
		Offers []SponsorOffer `json:"offers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProviderUnavailable, err)
	}
	return payload.Offers, nil
}
