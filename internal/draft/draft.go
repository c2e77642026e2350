package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

// FromAnalysis converts a wire-level analysis result into an editable draft,
// assigning a fresh identifier at every level and marking the whole tree as
// AI-derived. Identifiers are never reused from a prior analysis. Missing
// title degrades to "Meal", missing confidence to nil; this never fails.
func FromAnalysis(result *domain.AnalysisResult) *domain.DraftMealEntry {
	title := result.MealTitle
	if title == "" {
		title = "Meal"
	}

	items := make([]domain.DraftMealItem, 0, len(result.Items))
	for _, item := range result.Items {
		ingredients := make([]domain.DraftIngredient, 0, len(item.Ingredients))
		for _, ing := range item.Ingredients {
			ingredients = append(ingredients, domain.DraftIngredient{
				ID:        uuid.NewString(),
				Name:      ing.Name,
				Amount:    ing.Amount,
				Unit:      ing.Unit,
				AIDerived: true,
			})
		}
		items = append(items, domain.DraftMealItem{
			ID:          uuid.NewString(),
			Name:        item.Name,
			Portion:     item.Portion,
			Macros:      item.Macros,
			Ingredients: ingredients,
			AIDerived:   true,
			Confidence:  item.Confidence,
		})
	}

	return &domain.DraftMealEntry{
		ID:        uuid.NewString(),
		Date:      time.Now().UTC().Format(time.RFC3339),
		Title:     title,
		Notes:     result.Notes,
		Items:     items,
		AIDerived: true,
	}
}

// EmptyMeal returns a blank draft for manual entry.
func EmptyMeal() *domain.DraftMealEntry {
	return &domain.DraftMealEntry{
		ID:    uuid.NewString(),
		Date:  time.Now().UTC().Format(time.RFC3339),
		Title: "Meal",
		Items: []domain.DraftMealItem{},
	}
}

// EmptyItem returns a blank draft item for manual entry.
func EmptyItem() domain.DraftMealItem {
	return domain.DraftMealItem{
		ID:          uuid.NewString(),
		Macros:      domain.EmptyMacros(),
		Ingredients: []domain.DraftIngredient{},
	}
}

// EmptyIngredient returns a blank draft ingredient for manual entry.
func EmptyIngredient() domain.DraftIngredient {
	return domain.DraftIngredient{ID: uuid.NewString()}
}
