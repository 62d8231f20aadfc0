package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/biohackher/vitality-api/internal/mealplan"
	"github.com/biohackher/vitality-api/internal/middleware"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TemplatePrefs reads and writes a user's selected meal template
type TemplatePrefs interface {
	SelectedTemplateKey(ctx context.Context, userID uuid.UUID) (string, error)
	SetSelectedTemplateKey(ctx context.Context, userID uuid.UUID, templateKey string) error
}

// NutritionHandler handles meal template selection. Changing the
// selection reshapes the meal actions in both plans, so it enqueues a
// recompute like a completion toggle does.
type NutritionHandler struct {
	prefs       TemplatePrefs
	catalog     *mealplan.Catalog
	invalidator PlanInvalidator
	jobQueue    queue.JobQueue
	logger      *zap.Logger
}

// NewNutritionHandler creates a new nutrition handler
func NewNutritionHandler(prefs TemplatePrefs, catalog *mealplan.Catalog, invalidator PlanInvalidator, jobQueue queue.JobQueue, logger *zap.Logger) *NutritionHandler {
	return &NutritionHandler{
		prefs:       prefs,
		catalog:     catalog,
		invalidator: invalidator,
		jobQueue:    jobQueue,
		logger:      logger,
	}
}

// RegisterRoutes registers nutrition routes on the given router
// The router should already have the /nutrition prefix
func (h *NutritionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/templates", h.ListTemplates).Methods("GET")
	r.HandleFunc("/template", h.GetTemplate).Methods("GET")
	r.HandleFunc("/template", h.SetTemplate).Methods("PUT")
}

// TemplateListResponse lists the available meal template keys
type TemplateListResponse struct {
	Templates []string `json:"templates"`
}

// TemplateResponse reports the user's current template selection.
// An empty key means no template is selected.
type TemplateResponse struct {
	TemplateKey string `json:"template_key"`
}

// SetTemplateRequest selects a meal template. An empty key clears the
// selection and removes meal actions from future plans.
type SetTemplateRequest struct {
	TemplateKey string `json:"template_key"`
}

// ListTemplates lists the meal template catalog
func (h *NutritionHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TemplateListResponse{Templates: h.catalog.TemplateKeys()})
}

// GetTemplate returns the user's selected meal template
func (h *NutritionHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	key, err := h.prefs.SelectedTemplateKey(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to read template selection")
		return
	}

	respondJSON(w, http.StatusOK, TemplateResponse{TemplateKey: key})
}

// SetTemplate updates the user's selected meal template
func (h *NutritionHandler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SetTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.TemplateKey != "" && !h.catalog.HasTemplate(req.TemplateKey) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Unknown template_key: %s", req.TemplateKey))
		return
	}

	ctx := r.Context()
	if err := h.prefs.SetSelectedTemplateKey(ctx, user.ID, req.TemplateKey); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update template selection")
		return
	}

	today := time.Now().UTC()
	dateKey := models.DateKey(today)

	if h.invalidator != nil {
		weekStart := models.DateKey(planner.MondayOnOrBefore(today))
		if err := h.invalidator.Invalidate(ctx, user.ID, dateKey, weekStart); err != nil {
			h.logger.Warn("plan_snapshot_invalidation_failed", zap.Error(err))
		}
	}
	if h.jobQueue != nil {
		job := queue.NewRecomputeJob(user.ID, dateKey, queue.ReasonTemplateChange)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			h.logger.Warn("failed_to_enqueue_recompute_job", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, TemplateResponse{TemplateKey: req.TemplateKey})
}
