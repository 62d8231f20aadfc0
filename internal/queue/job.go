package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypePlanRecompute is a job for recomputing a user's daily and weekly plans
	JobTypePlanRecompute JobType = "plan_recompute"
)

// Recompute reasons, recorded on the job so the worker can log what
// source change triggered the rebuild.
const (
	ReasonProtocolCompletion  = "protocol_completion"
	ReasonMealCompletion      = "meal_completion"
	ReasonEssentialCompletion = "essential_completion"
	ReasonTemplateChange      = "template_change"
	ReasonManual              = "manual"
)

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	UserID     uuid.UUID      `json:"user_id"`
	PlanDate   string         `json:"plan_date,omitempty"`  // YYYY-MM-DD anchor for the rebuild
	Reason     string         `json:"reason,omitempty"`     // What changed to trigger the job
	NotBefore  *time.Time     `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any `json:"metadata,omitempty"`   // Job-specific data
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, userID uuid.UUID) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewRecomputeJob creates a plan recompute job anchored on planDate
func NewRecomputeJob(userID uuid.UUID, planDate, reason string) *Job {
	job := NewJob(JobTypePlanRecompute, userID)
	job.PlanDate = planDate
	job.Reason = reason
	return job
}

// Debounce delays processing by d and expires the job shortly after,
// so a burst of completion toggles collapses into one rebuild.
func (j *Job) Debounce(d time.Duration) {
	notBefore := time.Now().Add(d)
	notAfter := notBefore.Add(10 * d)
	j.NotBefore = &notBefore
	j.NotAfter = &notAfter
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	// Check NotBefore
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	// Check NotAfter
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
