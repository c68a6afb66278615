// Package identity fetches participant profiles from the hosted auth
// service. The core consumes only the profile fields eligibility needs;
// authentication itself happens upstream.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regatta-hub/internal/metrics"
	"github.com/yourusername/regatta-hub/internal/models"
)

// Config holds identity provider connection settings.
type Config struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	HTTP     HTTPClientConfig
}

// Client fetches participant profiles, caching them for the configured TTL.
type Client struct {
	http    *rateLimitedHTTPClient
	baseURL string
	apiKey  string
	cache   *cache.Cache
	ttl     time.Duration
	logger  *logrus.Logger
}

// profilePayload is the provider's wire format for a profile.
type profilePayload struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Gender      string    `json:"gender"`
	DateOfBirth string    `json:"date_of_birth"`
}

// NewClient creates a new identity provider client.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Client{
		http:    newRateLimitedHTTPClient(cfg.HTTP, logger),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		logger:  logger,
	}
}

// GetProfile returns the participant's profile, from cache when fresh.
func (c *Client) GetProfile(ctx context.Context, participantID uuid.UUID) (*models.Participant, error) {
	key := participantID.String()
	if cached, found := c.cache.Get(key); found {
		metrics.ProfileCacheHitsTotal.Inc()
		if participant, ok := cached.(*models.Participant); ok {
			return participant, nil
		}
	}
	metrics.ProfileCacheMissesTotal.Inc()

	participant, err := c.fetchProfile(ctx, participantID)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, participant, c.ttl)
	return participant, nil
}

// Invalidate drops a participant's cached profile, for use after the
// profile is edited upstream.
func (c *Client) Invalidate(participantID uuid.UUID) {
	c.cache.Delete(participantID.String())
}

// HealthCheck verifies the identity provider is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases transport resources.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) fetchProfile(ctx context.Context, participantID uuid.UUID) (*models.Participant, error) {
	url := fmt.Sprintf("%s/v1/profiles/%s", c.baseURL, participantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var payload profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	participant := &models.Participant{
		ID:          payload.ID,
		DisplayName: payload.DisplayName,
		Gender:      models.ParticipantGender(payload.Gender),
	}
	if payload.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", payload.DateOfBirth)
		if err != nil {
			// A garbled date of birth downgrades to "no date of birth",
			// which eligibility treats as ineligible for age-gated
			// divisions. Log it, the profile is still usable.
			c.logger.WithFields(logrus.Fields{
				"participant_id": participantID,
				"date_of_birth":  payload.DateOfBirth,
			}).Warn("Ignoring unparseable date of birth on profile")
		} else {
			participant.DateOfBirth = &dob
		}
	}

	return participant, nil
}
