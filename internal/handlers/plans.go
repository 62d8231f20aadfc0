package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/biohackher/vitality-api/internal/middleware"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/biohackher/vitality-api/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PlanStore reads and writes plan snapshots. A miss is (nil, nil).
// Implemented by the Redis plan cache; nil disables snapshot serving.
type PlanStore interface {
	GetDailyPlan(ctx context.Context, userID uuid.UUID, date string) (*models.DailyPlan, error)
	GetWeeklyPlan(ctx context.Context, userID uuid.UUID, weekStart string) (*models.WeeklyPlanData, error)
	StoreDailyPlan(ctx context.Context, plan *models.DailyPlan) error
	StoreWeeklyPlan(ctx context.Context, plan *models.WeeklyPlanData) error
}

// PlanHandler serves the daily action list and the weekly calendar.
// Reads go through the snapshot store when one is configured, falling
// back to building the plan inline on a miss.
type PlanHandler struct {
	daily    *planner.DailyBuilder
	weekly   *planner.WeeklyBuilder
	store    PlanStore
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewPlanHandler creates a new plan handler. store and jobQueue may be
// nil; plans are then always built inline and recompute requests fail.
func NewPlanHandler(daily *planner.DailyBuilder, weekly *planner.WeeklyBuilder, store PlanStore, jobQueue queue.JobQueue, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		daily:    daily,
		weekly:   weekly,
		store:    store,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// RegisterRoutes registers plan routes on the given router
// The router should already have the /plans prefix (e.g., from apiRouter.PathPrefix("/plans"))
func (h *PlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/daily", h.GetDailyPlan).Methods("GET")
	r.HandleFunc("/weekly", h.GetWeeklyPlan).Methods("GET")
	r.HandleFunc("/recompute", h.RequestRecompute).Methods("POST")
}

// parseDateParam reads a YYYY-MM-DD query parameter, defaulting to today (UTC)
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// GetDailyPlan serves the ranked daily action list for a date
func (h *PlanHandler) GetDailyPlan(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	date, err := parseDateParam(r, "date")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date (must be YYYY-MM-DD)")
		return
	}

	ctx := r.Context()
	dateKey := models.DateKey(date)

	if h.store != nil {
		plan, err := h.store.GetDailyPlan(ctx, user.ID, dateKey)
		if err != nil {
			h.logger.Warn("daily_plan_cache_read_failed", zap.Error(err))
		}
		if plan != nil {
			respondJSON(w, http.StatusOK, plan)
			return
		}
	}

	plan, err := h.daily.Build(ctx, user.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to build daily plan")
		return
	}

	if h.store != nil {
		if err := h.store.StoreDailyPlan(ctx, plan); err != nil {
			h.logger.Warn("daily_plan_cache_write_failed", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, plan)
}

// GetWeeklyPlan serves the Monday-anchored weekly calendar for the week
// containing the anchor date
func (h *PlanHandler) GetWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	anchor, err := parseDateParam(r, "anchor")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid anchor (must be YYYY-MM-DD)")
		return
	}

	ctx := r.Context()
	weekStart := models.DateKey(planner.MondayOnOrBefore(anchor))

	if h.store != nil {
		plan, err := h.store.GetWeeklyPlan(ctx, user.ID, weekStart)
		if err != nil {
			h.logger.Warn("weekly_plan_cache_read_failed", zap.Error(err))
		}
		if plan != nil {
			respondJSON(w, http.StatusOK, plan)
			return
		}
	}

	plan, err := h.weekly.Build(ctx, user.ID, anchor)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to build weekly plan")
		return
	}

	if h.store != nil {
		if err := h.store.StoreWeeklyPlan(ctx, plan); err != nil {
			h.logger.Warn("weekly_plan_cache_write_failed", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, plan)
}

// RecomputeRequest represents a manual recompute request
type RecomputeRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,plan_date"`
}

// RecomputeResponse acknowledges an accepted recompute job
type RecomputeResponse struct {
	JobID string `json:"job_id"`
	Date  string `json:"date"`
}

// RequestRecompute enqueues a plan recompute job for the user
func (h *PlanHandler) RequestRecompute(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	if h.jobQueue == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Recompute queue is not configured")
		return
	}

	req := RecomputeRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
			return
		}
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date (must be YYYY-MM-DD)")
		return
	}

	date := req.Date
	if date == "" {
		date = models.DateKey(time.Now().UTC())
	}

	job := queue.NewRecomputeJob(user.ID, date, queue.ReasonManual)
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("failed_to_enqueue_recompute_job", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to enqueue recompute job")
		return
	}

	respondJSON(w, http.StatusAccepted, RecomputeResponse{
		JobID: job.ID.String(),
		Date:  date,
	})
}
