// Package cache stores computed plan snapshots in Redis so the API path
// can serve them without recomputing. Snapshots are written by the
// recompute worker and read through by the plan handlers; a cache miss
// simply falls back to a fresh build.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotTTL bounds how long a stale snapshot can outlive its
// last recompute.
const DefaultSnapshotTTL = 24 * time.Hour

// PlanCache is a Redis-backed snapshot store for daily and weekly plans
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a plan cache from a Redis URL
func New(redisURL string, ttl time.Duration) (*PlanCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &PlanCache{client: client, ttl: ttl}, nil
}

// NewWithClient creates a plan cache around an existing Redis client
func NewWithClient(client *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &PlanCache{client: client, ttl: ttl}
}

// Client exposes the underlying Redis client for shared wiring
func (c *PlanCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *PlanCache) Close() error {
	return c.client.Close()
}

// HealthCheck verifies the Redis connection is healthy
func (c *PlanCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func dailyKey(userID, date string) string {
	return fmt.Sprintf("plan:daily:%s:%s", userID, date)
}

func weeklyKey(userID, weekStart string) string {
	return fmt.Sprintf("plan:weekly:%s:%s", userID, weekStart)
}

// StoreDailyPlan writes a daily plan snapshot
func (c *PlanCache) StoreDailyPlan(ctx context.Context, plan *models.DailyPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal daily plan: %w", err)
	}
	if err := c.client.Set(ctx, dailyKey(plan.UserID, plan.Date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store daily plan: %w", err)
	}
	return nil
}

// StoreWeeklyPlan writes a weekly plan snapshot
func (c *PlanCache) StoreWeeklyPlan(ctx context.Context, plan *models.WeeklyPlanData) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal weekly plan: %w", err)
	}
	if err := c.client.Set(ctx, weeklyKey(plan.UserID, plan.WeekStart), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store weekly plan: %w", err)
	}
	return nil
}

// GetDailyPlan reads a daily plan snapshot. A cache miss returns (nil, nil).
func (c *PlanCache) GetDailyPlan(ctx context.Context, userID uuid.UUID, date string) (*models.DailyPlan, error) {
	payload, err := c.client.Get(ctx, dailyKey(userID.String(), date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read daily plan: %w", err)
	}

	plan := &models.DailyPlan{}
	if err := json.Unmarshal(payload, plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily plan: %w", err)
	}
	return plan, nil
}

// GetWeeklyPlan reads a weekly plan snapshot. A cache miss returns (nil, nil).
func (c *PlanCache) GetWeeklyPlan(ctx context.Context, userID uuid.UUID, weekStart string) (*models.WeeklyPlanData, error) {
	payload, err := c.client.Get(ctx, weeklyKey(userID.String(), weekStart)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly plan: %w", err)
	}

	plan := &models.WeeklyPlanData{}
	if err := json.Unmarshal(payload, plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weekly plan: %w", err)
	}
	return plan, nil
}

// Invalidate drops the snapshots for a user and date (daily and the
// enclosing week). Called when a source changes so stale plans are never
// served while the recompute job is in flight.
func (c *PlanCache) Invalidate(ctx context.Context, userID uuid.UUID, date, weekStart string) error {
	if err := c.client.Del(ctx, dailyKey(userID.String(), date), weeklyKey(userID.String(), weekStart)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan snapshots: %w", err)
	}
	return nil
}
