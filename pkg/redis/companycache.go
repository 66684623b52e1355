package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// ErrCacheMiss is returned when no cached config exists for the company.
var ErrCacheMiss = errors.New("company config cache miss")

// CompanyConfigCache stores serialized company configuration with a TTL and
// broadcasts invalidations so every API instance drops its entry at once.
type CompanyConfigCache struct {
	client  *Client
	ttl     time.Duration
	channel string
}

// NewCompanyConfigCache wires the cache against a redis client.
func NewCompanyConfigCache(client *Client, cfg config.CompanyCacheConfig) *CompanyConfigCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	channel := cfg.InvalidateChannel
	if channel == "" {
		channel = "fd:company-config:invalidate"
	}
	return &CompanyConfigCache{client: client, ttl: ttl, channel: channel}
}

// Get loads the cached config into dst. Returns ErrCacheMiss when absent.
func (c *CompanyConfigCache) Get(ctx context.Context, companyID string, dst any) error {
	raw, err := c.client.Get(ctx, c.client.CompanyConfigKey(companyID))
	if err != nil {
		if errors.Is(err, Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

// Set serializes and stores the config under the company key.
func (c *CompanyConfigCache) Set(ctx context.Context, companyID string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.client.CompanyConfigKey(companyID), raw, c.ttl)
}

// Invalidate drops the local entry and broadcasts the company ID so other
// instances drop theirs. The broadcast failure is returned but the local
// delete has already happened.
func (c *CompanyConfigCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.client.Del(ctx, c.client.CompanyConfigKey(companyID)); err != nil {
		return err
	}
	return c.client.Publish(ctx, c.channel, companyID)
}

// Listen subscribes to the invalidation channel and deletes cache entries as
// company IDs arrive. Blocks until ctx is cancelled.
func (c *CompanyConfigCache) Listen(ctx context.Context, logg *logger.Logger) error {
	sub, err := c.client.Subscribe(ctx, c.channel)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("invalidation subscription closed")
			}
			companyID := msg.Payload
			if companyID == "" {
				continue
			}
			if err := c.client.Del(ctx, c.client.CompanyConfigKey(companyID)); err != nil && logg != nil {
				logg.Warn(logg.WithCompanyID(ctx, companyID), "dropping cached company config failed")
			}
		}
	}
}
