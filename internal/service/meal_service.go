package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

// mealRepository is the subset of store.MealStore that MealService requires.
type mealRepository interface {
	Save(ctx context.Context, draft *domain.DraftMealEntry) error
	GetByID(ctx context.Context, id string) (*domain.MealEntry, error)
	ListByDay(ctx context.Context, day string) ([]*domain.MealEntry, error)
	ListByRange(ctx context.Context, start, end string) ([]*domain.MealEntry, error)
	SoftDelete(ctx context.Context, id string) error
}

type MealService struct {
	meals  mealRepository
	logger *slog.Logger
}

func NewMealService(meals mealRepository, logger *slog.Logger) *MealService {
	return &MealService{meals: meals, logger: logger}
}

// SaveDraft persists the draft (full replace) and returns the stored meal.
// Drafts composed outside the mapper may arrive without an id or date; those
// get filled in rather than rejected.
func (s *MealService) SaveDraft(ctx context.Context, draft *domain.DraftMealEntry) (*domain.MealEntry, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.Date == "" {
		draft.Date = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.meals.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}
	s.logger.Info("meal saved", "meal_id", draft.ID, "items", len(draft.Items), "ai_derived", draft.AIDerived)

	return s.meals.GetByID(ctx, draft.ID)
}

func (s *MealService) Meal(ctx context.Context, id string) (*domain.MealEntry, error) {
	return s.meals.GetByID(ctx, id)
}

func (s *MealService) MealsForDay(ctx context.Context, day string) ([]*domain.MealEntry, error) {
	return s.meals.ListByDay(ctx, day)
}

func (s *MealService) MealsForRange(ctx context.Context, start, end string) ([]*domain.MealEntry, error) {
	return s.meals.ListByRange(ctx, start, end)
}

func (s *MealService) DeleteMeal(ctx context.Context, id string) error {
	return s.meals.SoftDelete(ctx, id)
}

// DailySummary sums the macros of every item logged for one day.
func (s *MealService) DailySummary(ctx context.Context, day string) (*domain.MacroNutrients, error) {
	meals, err := s.meals.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals for summary: %w", err)
	}

	total := domain.EmptyMacros()
	for _, meal := range meals {
		for _, item := range meal.Items {
			total.Calories += item.Macros.Calories
			total.Protein += item.Macros.Protein
			total.Carbs += item.Macros.Carbs
			total.Fat += item.Macros.Fat
		}
	}

	return &total, nil
}
