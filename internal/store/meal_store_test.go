package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicjoeyoung/MealSnap/internal/db"
	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "meals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func draftFixture(id string) *domain.DraftMealEntry {
	return &domain.DraftMealEntry{
		ID:        id,
		Date:      "2026-08-30T12:30:00Z",
		Title:     "Lunch",
		Notes:     "Estimated values",
		AIDerived: true,
		Items: []domain.DraftMealItem{
			{
				ID:        id + "-item-1",
				Name:      "Grilled chicken breast",
				Portion:   "1 breast",
				Macros:    domain.MacroNutrients{Calories: 350, Protein: 40, Carbs: 2, Fat: 18},
				AIDerived: true,
				Confidence: &domain.ConfidenceRange{
					Low:  0.5,
					High: 0.9,
				},
				Ingredients: []domain.DraftIngredient{
					{ID: id + "-ing-1", Name: "chicken breast", Amount: 170, Unit: "g", AIDerived: true},
					{ID: id + "-ing-2", Name: "olive oil", Amount: 1, Unit: "tbsp", AIDerived: true},
				},
			},
			{
				ID:      id + "-item-2",
				Name:    "Steamed broccoli",
				Portion: "1 cup",
				Macros:  domain.MacroNutrients{Calories: 55, Protein: 4, Carbs: 11, Fat: 0.5},
			},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, draftFixture("m1")))

	meal, err := store.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, meal)

	assert.Equal(t, "m1", meal.ID)
	assert.Equal(t, "2026-08-30", meal.Date)
	assert.Equal(t, "Lunch", meal.Title)
	assert.Equal(t, "Estimated values", meal.Notes)
	assert.True(t, meal.AIDerived)
	require.Len(t, meal.Items, 2)

	first := meal.Items[0]
	assert.Equal(t, "m1-item-1", first.ID)
	assert.Equal(t, "m1", first.MealID)
	assert.Equal(t, 350.0, first.Macros.Calories)
	assert.True(t, first.AIDerived)
	require.NotNil(t, first.Confidence)
	assert.Equal(t, 0.5, first.Confidence.Low)
	assert.Equal(t, 0.9, first.Confidence.High)
	require.Len(t, first.Ingredients, 2)
	assert.Equal(t, "chicken breast", first.Ingredients[0].Name)
	assert.Equal(t, "m1-item-1", first.Ingredients[0].MealItemID)

	second := meal.Items[1]
	assert.Nil(t, second.Confidence)
	assert.False(t, second.AIDerived)
	assert.Empty(t, second.Ingredients)
}

func TestGetByIDMissing(t *testing.T) {
	store := NewMealStore(openTestDB(t))

	meal, err := store.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, meal)
}

func TestSaveSupersedesPriorItems(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, draftFixture("m1")))

	// Re-save the same meal with a different item set; the old items and
	// their ingredients must be superseded, not merged.
	updated := &domain.DraftMealEntry{
		ID:    "m1",
		Date:  "2026-08-30T13:00:00Z",
		Title: "Lunch (edited)",
		Notes: "",
		Items: []domain.DraftMealItem{
			{
				ID:      "m1-item-3",
				Name:    "Rice",
				Portion: "1 cup",
				Macros:  domain.MacroNutrients{Calories: 200, Protein: 4, Carbs: 44, Fat: 0.5},
			},
		},
	}
	require.NoError(t, store.Save(ctx, updated))

	meal, err := store.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, "Lunch (edited)", meal.Title)
	require.Len(t, meal.Items, 1)
	assert.Equal(t, "Rice", meal.Items[0].Name)
	assert.Empty(t, meal.Items[0].Ingredients)
}

func TestSaveIsIdempotentForSameDraft(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	d := draftFixture("m1")
	require.NoError(t, store.Save(ctx, d))
	require.NoError(t, store.Save(ctx, d))

	meal, err := store.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Len(t, meal.Items, 2)
	assert.Len(t, meal.Items[0].Ingredients, 2)
}

func TestListByDay(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	a := draftFixture("m1")
	b := draftFixture("m2")
	b.Title = "Dinner"
	other := draftFixture("m3")
	other.Date = "2026-08-29T19:00:00Z"

	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))
	require.NoError(t, store.Save(ctx, other))

	meals, err := store.ListByDay(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	for _, m := range meals {
		assert.Equal(t, "2026-08-30", m.Date)
		assert.Len(t, m.Items, 2)
	}
}

func TestListByRange(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	days := []string{"2026-08-25", "2026-08-28", "2026-08-31"}
	for _, day := range days {
		d := draftFixture("m" + day)
		d.Date = day + "T12:00:00Z"
		d.Items = nil
		require.NoError(t, store.Save(ctx, d))
	}

	meals, err := store.ListByRange(ctx, "2026-08-26", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	// Newest day first.
	assert.Equal(t, "2026-08-31", meals[0].Date)
	assert.Equal(t, "2026-08-28", meals[1].Date)
}

func TestSoftDelete(t *testing.T) {
	store := NewMealStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, draftFixture("m1")))
	require.NoError(t, store.SoftDelete(ctx, "m1"))

	meal, err := store.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, meal)

	meals, err := store.ListByDay(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestSoftDeleteMissing(t *testing.T) {
	store := NewMealStore(openTestDB(t))

	err := store.SoftDelete(context.Background(), "nope")
	assert.Error(t, err)
}

func TestDayOf(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"2026-08-30T12:30:00Z", "2026-08-30"},
		{"2026-08-30T12:30:00+02:00", "2026-08-30"},
		{"2026-08-30", "2026-08-30"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, dayOf(tt.in))
	}
}
