package planner

import (
	"context"
	"time"

	"github.com/biohackher/vitality-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeSources implements every planner source interface in memory, with
// injectable per-method errors for exercising the degradation policy.
type fakeSources struct {
	protocols    []*models.Protocol
	itemsByProto map[uuid.UUID][]*models.ProtocolItem
	goals        []*models.Goal
	energy       []*models.EnergyAction
	metric       *float64
	templateKey  string
	templates    map[string]map[time.Weekday]*models.DayMeals

	protocolDone  map[string][]*models.ProtocolCompletion
	mealDone      map[string][]*models.MealCompletion
	essentialDone map[string][]*models.EssentialCompletion

	protocolsErr   error
	itemsErr       map[uuid.UUID]error
	goalsErr       error
	energyErr      error
	metricErr      error
	nutritionErr   error
	completionsErr error
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		itemsByProto:  make(map[uuid.UUID][]*models.ProtocolItem),
		templates:     make(map[string]map[time.Weekday]*models.DayMeals),
		protocolDone:  make(map[string][]*models.ProtocolCompletion),
		mealDone:      make(map[string][]*models.MealCompletion),
		essentialDone: make(map[string][]*models.EssentialCompletion),
		itemsErr:      make(map[uuid.UUID]error),
	}
}

func (f *fakeSources) ListActiveProtocols(_ context.Context, _ uuid.UUID) ([]*models.Protocol, error) {
	return f.protocols, f.protocolsErr
}

func (f *fakeSources) ListProtocolItems(_ context.Context, protocolID uuid.UUID) ([]*models.ProtocolItem, error) {
	if err := f.itemsErr[protocolID]; err != nil {
		return nil, err
	}
	return f.itemsByProto[protocolID], nil
}

func (f *fakeSources) ListActiveGoals(_ context.Context, _ uuid.UUID) ([]*models.Goal, error) {
	return f.goals, f.goalsErr
}

func (f *fakeSources) ListEnergyActions(_ context.Context, _ uuid.UUID) ([]*models.EnergyAction, error) {
	return f.energy, f.energyErr
}

func (f *fakeSources) LatestEnergyMetric(_ context.Context, _ uuid.UUID) (*float64, error) {
	return f.metric, f.metricErr
}

func (f *fakeSources) SelectedTemplateKey(_ context.Context, _ uuid.UUID) (string, error) {
	return f.templateKey, f.nutritionErr
}

func (f *fakeSources) DayMeals(templateKey string, day time.Weekday) *models.DayMeals {
	tpl, ok := f.templates[templateKey]
	if !ok {
		return nil
	}
	return tpl[day]
}

func (f *fakeSources) ListProtocolCompletions(_ context.Context, _ uuid.UUID, date string) ([]*models.ProtocolCompletion, error) {
	return f.protocolDone[date], f.completionsErr
}

func (f *fakeSources) ListMealCompletions(_ context.Context, _ uuid.UUID, date string) ([]*models.MealCompletion, error) {
	return f.mealDone[date], f.completionsErr
}

func (f *fakeSources) ListEssentialsCompletions(_ context.Context, _ uuid.UUID, date string) ([]*models.EssentialCompletion, error) {
	return f.essentialDone[date], f.completionsErr
}

func (f *fakeSources) bundle() Sources {
	return Sources{
		Protocols:   f,
		Goals:       f,
		Energy:      f,
		Nutrition:   f,
		Meals:       f,
		Completions: f,
	}
}

func (f *fakeSources) addProtocol(userID uuid.UUID, items ...*models.ProtocolItem) *models.Protocol {
	p := &models.Protocol{ID: uuid.New(), UserID: userID, Name: "Protocol", IsActive: true}
	f.protocols = append(f.protocols, p)
	for _, item := range items {
		item.ProtocolID = p.ID
		f.itemsByProto[p.ID] = append(f.itemsByProto[p.ID], item)
	}
	return p
}

func newItem(name string, itemType models.ProtocolItemType, times ...models.TimeOfDay) *models.ProtocolItem {
	return &models.ProtocolItem{
		ID:        uuid.New(),
		Name:      name,
		ItemType:  itemType,
		IsActive:  true,
		TimeOfDay: times,
	}
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func testLogger() *zap.Logger { return zap.NewNop() }
