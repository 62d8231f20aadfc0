package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/biohackher/vitality-api/internal/logger"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSuperseded is returned when a newer recompute for the same user was
// triggered while this one was in flight. The stale result is discarded
// and never published.
var ErrSuperseded = errors.New("recompute superseded by a newer trigger")

// Sink receives published plan snapshots
type Sink interface {
	StoreDailyPlan(ctx context.Context, plan *models.DailyPlan) error
	StoreWeeklyPlan(ctx context.Context, plan *models.WeeklyPlanData) error
}

// Snapshot bundles the two plans produced by one recompute
type Snapshot struct {
	Daily  *models.DailyPlan
	Weekly *models.WeeklyPlanData
}

// Recomputer is the explicit recompute entry point. Callers invoke
// Recompute whenever any upstream source changes (protocols, items,
// goals, energy actions, completion log, meal selection). Rapid
// successive triggers for the same user resolve last-write-wins via a
// per-user generation counter: only the latest trigger's result is
// published.
type Recomputer struct {
	daily  *DailyBuilder
	weekly *WeeklyBuilder
	sink   Sink
	log    *zap.Logger

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

// NewRecomputer creates a recomputer. sink may be nil, in which case
// results are returned but not published anywhere.
func NewRecomputer(daily *DailyBuilder, weekly *WeeklyBuilder, sink Sink, log *zap.Logger) *Recomputer {
	return &Recomputer{
		daily:       daily,
		weekly:      weekly,
		sink:        sink,
		log:         log,
		generations: make(map[uuid.UUID]uint64),
	}
}

// Recompute rebuilds both plans for a user and date. Because the builders
// are deterministic over their inputs, recomputing with unchanged sources
// yields identical action ids, order, and scores.
func (r *Recomputer) Recompute(ctx context.Context, userID uuid.UUID, date time.Time) (*Snapshot, error) {
	gen := r.begin(userID)

	daily, err := r.daily.Build(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	weekly, err := r.weekly.Build(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if !r.isCurrent(userID, gen) {
		r.log.Debug("discarding_superseded_recompute",
			zap.String("user_id", logger.SanitizeUserID(userID.String())),
			zap.Uint64("generation", gen),
		)
		return nil, ErrSuperseded
	}

	snapshot := &Snapshot{Daily: daily, Weekly: weekly}
	if r.sink != nil {
		if err := r.sink.StoreDailyPlan(ctx, daily); err != nil {
			return nil, err
		}
		if err := r.sink.StoreWeeklyPlan(ctx, weekly); err != nil {
			return nil, err
		}
	}

	r.log.Info("recomputed_plans",
		zap.String("user_id", logger.SanitizeUserID(userID.String())),
		zap.String("date", daily.Date),
		zap.Int("daily_actions", daily.TotalCount),
		zap.Int("weekly_days", len(weekly.Days)),
	)
	return snapshot, nil
}

// begin registers a new recompute generation for the user
func (r *Recomputer) begin(userID uuid.UUID) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[userID]++
	return r.generations[userID]
}

// isCurrent reports whether gen is still the latest generation for the user
func (r *Recomputer) isCurrent(userID uuid.UUID, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[userID] == gen
}
