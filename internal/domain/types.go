package domain

import "time"

// MacroNutrients holds estimated macros for one meal item. Values come from
// model inference and are not validated; garbage stays visible for the user
// to correct.
type MacroNutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ConfidenceRange is the model-reported [low, high] uncertainty bound for an
// item's estimate. Expected in [0,1] with low <= high, but stored as reported.
type ConfidenceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// AnalyzedIngredient is one ingredient in a wire-level analysis result.
type AnalyzedIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// AnalyzedItem is one detected food item in a wire-level analysis result.
type AnalyzedItem struct {
	Name        string               `json:"name"`
	Portion     string               `json:"portion"`
	Macros      MacroNutrients       `json:"macros"`
	Ingredients []AnalyzedIngredient `json:"ingredients"`
	Confidence  *ConfidenceRange     `json:"confidence,omitempty"`
}

// AnalysisResult is the sole contract between the analyze endpoint and its
// callers. AIDerived is always true on responses; the pipeline forces it
// regardless of what the model emitted.
type AnalysisResult struct {
	MealTitle string         `json:"mealTitle"`
	Notes     string         `json:"notes"`
	AIDerived bool           `json:"aiDerived"`
	Items     []AnalyzedItem `json:"items"`
}

// DraftIngredient is an editable, not-yet-persisted ingredient.
type DraftIngredient struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	AIDerived bool    `json:"aiDerived"`
}

// DraftMealItem is an editable, not-yet-persisted meal item.
type DraftMealItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Portion     string            `json:"portion"`
	Macros      MacroNutrients    `json:"macros"`
	Ingredients []DraftIngredient `json:"ingredients"`
	AIDerived   bool              `json:"aiDerived"`
	Confidence  *ConfidenceRange  `json:"confidence"`
}

// DraftMealEntry is an editable meal being composed. It exclusively owns its
// items, which exclusively own their ingredients. Saving supersedes any prior
// save with the same ID; drafts are never merged.
type DraftMealEntry struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Title     string          `json:"title"`
	Notes     string          `json:"notes"`
	Items     []DraftMealItem `json:"items"`
	AIDerived bool            `json:"aiDerived"`
}

// Ingredient is a persisted ingredient row.
type Ingredient struct {
	ID         string  `json:"id"`
	MealItemID string  `json:"mealItemId"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	AIDerived  bool    `json:"aiDerived"`
}

// MealItem is a persisted meal item with its live ingredients attached.
type MealItem struct {
	ID          string           `json:"id"`
	MealID      string           `json:"mealId"`
	Name        string           `json:"name"`
	Portion     string           `json:"portion"`
	Macros      MacroNutrients   `json:"macros"`
	Ingredients []Ingredient     `json:"ingredients"`
	AIDerived   bool             `json:"aiDerived"`
	Confidence  *ConfidenceRange `json:"confidence"`
}

// MealEntry is a persisted meal. Date is the day the meal belongs to, in
// YYYY-MM-DD form.
type MealEntry struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Items     []MealItem `json:"items"`
	AIDerived bool       `json:"aiDerived"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// EmptyMacros returns a zeroed macro set for manual entry forms.
func EmptyMacros() MacroNutrients {
	return MacroNutrients{}
}
