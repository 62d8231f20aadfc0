// Package workers contains the background job processors that run in the
// worker binary, consuming jobs from the queue.
package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	logpkg "github.com/biohackher/vitality-api/internal/logger"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobProcessor handles a single job of a registered type
type JobProcessor func(ctx context.Context, job *queue.Job) error

type processorEntry struct {
	proc JobProcessor
}

// PlanRecomputer processes plan recompute jobs: it rebuilds a user's
// daily and weekly plans and publishes the snapshots to the plan cache.
type PlanRecomputer struct {
	recomputer *planner.Recomputer
	logger     *zap.Logger
	registry   map[queue.JobType]processorEntry
}

// NewPlanRecomputer creates a new plan recomputer and registers the
// plan_recompute processor.
func NewPlanRecomputer(recomputer *planner.Recomputer, logger *zap.Logger) *PlanRecomputer {
	w := &PlanRecomputer{
		recomputer: recomputer,
		logger:     logger,
		registry:   make(map[queue.JobType]processorEntry),
	}
	w.RegisterProcessor(queue.JobTypePlanRecompute, w.ProcessPlanRecomputeJob)
	return w
}

// RegisterProcessor registers a processor for a job type.
func (w *PlanRecomputer) RegisterProcessor(typ queue.JobType, proc JobProcessor) {
	w.registry[typ] = processorEntry{proc: proc}
}

// ProcessPlanRecomputeJob rebuilds both plans for the job's user. A
// missing plan date anchors on today. A superseded rebuild is not an
// error: a newer trigger already owns the published result.
func (w *PlanRecomputer) ProcessPlanRecomputeJob(ctx context.Context, job *queue.Job) error {
	if job.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required for plan recompute job")
	}

	date := time.Now().UTC()
	if job.PlanDate != "" {
		parsed, err := time.Parse("2006-01-02", job.PlanDate)
		if err != nil {
			return fmt.Errorf("invalid plan date %q: %w", job.PlanDate, err)
		}
		date = parsed
	}

	w.logger.Info("processing_plan_recompute_job",
		zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		zap.String("plan_date", models.DateKey(date)),
		zap.String("reason", job.Reason),
	)

	snapshot, err := w.recomputer.Recompute(ctx, job.UserID, date)
	if errors.Is(err, planner.ErrSuperseded) {
		w.logger.Debug("plan_recompute_superseded",
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to recompute plans: %w", err)
	}

	w.logger.Info("published_plan_snapshots",
		zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
		zap.String("date", snapshot.Daily.Date),
		zap.String("week_start", snapshot.Weekly.WeekStart),
		zap.Int("daily_actions", snapshot.Daily.TotalCount),
	)
	return nil
}

// ProcessJob processes a job based on its type using the processor registry.
func (w *PlanRecomputer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()
	if job.IsExpired() {
		// A fresher job for the same user is already behind this one
		w.logger.Debug("plan_recompute_job_expired",
			zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		)
		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("failed_to_ack_expired_job",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return nil
	}
	if !job.ShouldProcess() {
		fields := []zap.Field{zap.String("job_id", logpkg.SanitizeUserID(job.ID.String()))}
		if job.NotBefore != nil {
			fields = append(fields, zap.Time("not_before", *job.NotBefore))
		}
		w.logger.Debug("plan_recompute_job_not_ready", fields...)
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Warn("failed_to_requeue_job_for_later_processing",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return nil
	}
	ent, ok := w.registry[job.Type]
	if !ok {
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Error("failed_to_nack_unknown_job_type",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("job_type", string(job.Type)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	if err := ent.proc(ctx, job); err != nil {
		w.logger.Error("plan_recompute_job_failed",
			zap.String("operation", "process_job"),
			zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
			zap.String("user_id", logpkg.SanitizeUserID(job.UserID.String())),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		if job.CanRetry() {
			job.IncrementRetry()
			if nackErr := msg.Nack(true); nackErr != nil {
				w.logger.Warn("failed_to_requeue_plan_recompute_job",
					zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
					zap.String("error", logpkg.SanitizeError(nackErr)),
				)
			}
			return fmt.Errorf("plan recompute failed (will retry): %w", err)
		}
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("failed_to_nack_plan_recompute_job",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("plan recompute failed (max retries): %w", err)
	}
	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack plan recompute job: %w", ackErr)
	}
	return nil
}
