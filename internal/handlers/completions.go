package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/biohackher/vitality-api/internal/middleware"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/biohackher/vitality-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// completionDebounce collapses a burst of toggle requests into a single
// recompute job per user.
const completionDebounce = 2 * time.Second

// CompletionToggler flips completion state for a plan item on a date
type CompletionToggler interface {
	ToggleProtocolCompletion(ctx context.Context, userID, protocolItemID uuid.UUID, date string) (bool, error)
	ToggleMealCompletion(ctx context.Context, userID uuid.UUID, mealType models.MealType, date string) (bool, error)
	ToggleEssentialCompletion(ctx context.Context, userID uuid.UUID, essentialID, date string) (bool, error)
}

// PlanInvalidator drops cached snapshots for a user and date
type PlanInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID, date, weekStart string) error
}

// CompletionHandler handles completion toggle requests. Each toggle
// writes the completion log, invalidates cached plan snapshots, and
// enqueues a debounced recompute job.
type CompletionHandler struct {
	completions CompletionToggler
	invalidator PlanInvalidator
	jobQueue    queue.JobQueue
	logger      *zap.Logger
}

// NewCompletionHandler creates a new completion handler. invalidator and
// jobQueue may be nil; toggles then only write the log.
func NewCompletionHandler(completions CompletionToggler, invalidator PlanInvalidator, jobQueue queue.JobQueue, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		completions: completions,
		invalidator: invalidator,
		jobQueue:    jobQueue,
		logger:      logger,
	}
}

// RegisterRoutes registers completion routes on the given router
// The router should already have the /completions prefix
func (h *CompletionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/protocol", h.ToggleProtocol).Methods("POST")
	r.HandleFunc("/meal", h.ToggleMeal).Methods("POST")
	r.HandleFunc("/essential", h.ToggleEssential).Methods("POST")
}

// ToggleProtocolRequest represents a protocol item completion toggle
type ToggleProtocolRequest struct {
	ProtocolItemID string `json:"protocol_item_id" validate:"required,uuid"`
	Date           string `json:"date" validate:"required,plan_date"`
}

// ToggleMealRequest represents a meal completion toggle
type ToggleMealRequest struct {
	MealType string `json:"meal_type" validate:"required,meal_type"`
	Date     string `json:"date" validate:"required,plan_date"`
}

// ToggleEssentialRequest represents a daily-essential completion toggle
type ToggleEssentialRequest struct {
	EssentialID string `json:"essential_id" validate:"required"`
	Date        string `json:"date" validate:"required,plan_date"`
}

// ToggleResponse reports the resulting completion state
type ToggleResponse struct {
	ItemID    string `json:"item_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return false
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return false
	}
	return true
}

// ToggleProtocol toggles a protocol item completion for a date
func (h *CompletionHandler) ToggleProtocol(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ToggleProtocolRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	itemID, err := uuid.Parse(req.ProtocolItemID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid protocol_item_id")
		return
	}

	completed, err := h.completions.ToggleProtocolCompletion(r.Context(), user.ID, itemID, req.Date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to toggle protocol completion")
		return
	}

	h.afterToggle(r.Context(), user.ID, req.Date, queue.ReasonProtocolCompletion)
	respondJSON(w, http.StatusOK, ToggleResponse{ItemID: itemID.String(), Date: req.Date, Completed: completed})
}

// ToggleMeal toggles a meal completion for a date
func (h *CompletionHandler) ToggleMeal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ToggleMealRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	completed, err := h.completions.ToggleMealCompletion(r.Context(), user.ID, models.MealType(req.MealType), req.Date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to toggle meal completion")
		return
	}

	h.afterToggle(r.Context(), user.ID, req.Date, queue.ReasonMealCompletion)
	respondJSON(w, http.StatusOK, ToggleResponse{ItemID: req.MealType, Date: req.Date, Completed: completed})
}

// ToggleEssential toggles a daily-essential completion for a date
func (h *CompletionHandler) ToggleEssential(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ToggleEssentialRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !planner.IsEssentialID(req.EssentialID) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Unknown essential_id: %s", req.EssentialID))
		return
	}

	completed, err := h.completions.ToggleEssentialCompletion(r.Context(), user.ID, req.EssentialID, req.Date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to toggle essential completion")
		return
	}

	h.afterToggle(r.Context(), user.ID, req.Date, queue.ReasonEssentialCompletion)
	respondJSON(w, http.StatusOK, ToggleResponse{ItemID: req.EssentialID, Date: req.Date, Completed: completed})
}

// afterToggle invalidates cached snapshots and enqueues a debounced
// recompute. Both are best effort; the completion row is already
// committed and the next read rebuilds inline on a cache miss.
func (h *CompletionHandler) afterToggle(ctx context.Context, userID uuid.UUID, date, reason string) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return
	}

	if h.invalidator != nil {
		weekStart := models.DateKey(planner.MondayOnOrBefore(parsed))
		if err := h.invalidator.Invalidate(ctx, userID, date, weekStart); err != nil {
			h.logger.Warn("plan_snapshot_invalidation_failed", zap.Error(err))
		}
	}

	if h.jobQueue != nil {
		job := queue.NewRecomputeJob(userID, date, reason)
		job.Debounce(completionDebounce)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			h.logger.Warn("failed_to_enqueue_recompute_job", zap.Error(err))
		}
	}
}
