package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/biohackher/vitality-api/internal/middleware"
	"github.com/biohackher/vitality-api/internal/models"
	"github.com/biohackher/vitality-api/internal/planner"
	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emptySources satisfies the planner source interfaces with empty data:
// daily builds come out empty, weekly days carry only the essentials.
type emptySources struct{}

func (emptySources) ListActiveProtocols(context.Context, uuid.UUID) ([]*models.Protocol, error) {
	return nil, nil
}

func (emptySources) ListProtocolItems(context.Context, uuid.UUID) ([]*models.ProtocolItem, error) {
	return nil, nil
}

func (emptySources) ListActiveGoals(context.Context, uuid.UUID) ([]*models.Goal, error) {
	return nil, nil
}

func (emptySources) ListEnergyActions(context.Context, uuid.UUID) ([]*models.EnergyAction, error) {
	return nil, nil
}

func (emptySources) LatestEnergyMetric(context.Context, uuid.UUID) (*float64, error) {
	return nil, nil
}

func (emptySources) SelectedTemplateKey(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (emptySources) DayMeals(string, time.Weekday) *models.DayMeals {
	return nil
}

func (emptySources) ListProtocolCompletions(context.Context, uuid.UUID, string) ([]*models.ProtocolCompletion, error) {
	return nil, nil
}

func (emptySources) ListMealCompletions(context.Context, uuid.UUID, string) ([]*models.MealCompletion, error) {
	return nil, nil
}

func (emptySources) ListEssentialsCompletions(context.Context, uuid.UUID, string) ([]*models.EssentialCompletion, error) {
	return nil, nil
}

func testBuilders() (*planner.DailyBuilder, *planner.WeeklyBuilder) {
	var src emptySources
	sources := planner.Sources{
		Protocols:   src,
		Goals:       src,
		Energy:      src,
		Nutrition:   src,
		Meals:       src,
		Completions: src,
	}
	log := zap.NewNop()
	return planner.NewDailyBuilder(sources, log), planner.NewWeeklyBuilder(sources, log)
}

// fakePlanStore is an in-memory PlanStore
type fakePlanStore struct {
	mu     sync.Mutex
	daily  map[string]*models.DailyPlan
	weekly map[string]*models.WeeklyPlanData
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{
		daily:  make(map[string]*models.DailyPlan),
		weekly: make(map[string]*models.WeeklyPlanData),
	}
}

func (s *fakePlanStore) GetDailyPlan(ctx context.Context, userID uuid.UUID, date string) (*models.DailyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.daily[userID.String()+":"+date], nil
}

func (s *fakePlanStore) GetWeeklyPlan(ctx context.Context, userID uuid.UUID, weekStart string) (*models.WeeklyPlanData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekly[userID.String()+":"+weekStart], nil
}

func (s *fakePlanStore) StoreDailyPlan(ctx context.Context, plan *models.DailyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.daily[plan.UserID+":"+plan.Date] = plan
	return nil
}

func (s *fakePlanStore) StoreWeeklyPlan(ctx context.Context, plan *models.WeeklyPlanData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly[plan.UserID+":"+plan.WeekStart] = plan
	return nil
}

// fakeJobQueue records enqueued jobs
type fakeJobQueue struct {
	mu   sync.Mutex
	jobs []*queue.Job
}

func (q *fakeJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeJobQueue) Dequeue(ctx context.Context) (*queue.Message, error) {
	return nil, nil
}

func (q *fakeJobQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (q *fakeJobQueue) Close() error { return nil }

func (q *fakeJobQueue) HealthCheck(ctx context.Context) error { return nil }

func (q *fakeJobQueue) enqueued() []*queue.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*queue.Job(nil), q.jobs...)
}

// fakeInvalidator records snapshot invalidations
type fakeInvalidator struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, userID uuid.UUID, date, weekStart string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, date+"/"+weekStart)
	return nil
}

// fakeToggler flips a fixed result for every toggle
type fakeToggler struct {
	result bool
	err    error

	mu     sync.Mutex
	evs    []string
}

func (f *fakeToggler) ToggleProtocolCompletion(ctx context.Context, userID, protocolItemID uuid.UUID, date string) (bool, error) {
	f.record("protocol:" + protocolItemID.String() + ":" + date)
	return f.result, f.err
}

func (f *fakeToggler) ToggleMealCompletion(ctx context.Context, userID uuid.UUID, mealType models.MealType, date string) (bool, error) {
	f.record("meal:" + string(mealType) + ":" + date)
	return f.result, f.err
}

func (f *fakeToggler) ToggleEssentialCompletion(ctx context.Context, userID uuid.UUID, essentialID, date string) (bool, error) {
	f.record("essential:" + essentialID + ":" + date)
	return f.result, f.err
}

func (f *fakeToggler) record(ev string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evs = append(f.evs, ev)
}

// fakePrefs is an in-memory TemplatePrefs
type fakePrefs struct {
	mu  sync.Mutex
	key string
}

func (f *fakePrefs) SelectedTemplateKey(ctx context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key, nil
}

func (f *fakePrefs) SetSelectedTemplateKey(ctx context.Context, userID uuid.UUID, templateKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.key = templateKey
	return nil
}

func authedRequest(r *http.Request, userID uuid.UUID) *http.Request {
	user := &models.User{ID: userID}
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// envelope mirrors the respondJSON wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}
