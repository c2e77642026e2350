package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

// MealStore persists meals across three related tables (meals, meal_items,
// ingredients) with timestamp soft-deletion. Save is a full-replace at the
// meal level: prior items and ingredients are superseded, never merged.
type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

// Save durably upserts the draft. The meal row keeps its original created_at
// on re-save; any live items and their ingredients are soft-deleted before
// the draft's set is written.
func (s *MealStore) Save(ctx context.Context, draft *domain.DraftMealEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	now := time.Now().UTC()
	day := dayOf(draft.Date)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meals (id, date, title, notes, ai_derived, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date, title = excluded.title, notes = excluded.notes,
			ai_derived = excluded.ai_derived, updated_at = excluded.updated_at, deleted_at = NULL
	`, draft.ID, day, draft.Title, draft.Notes, btoi(draft.AIDerived), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert meal: %w", err)
	}

	// Supersede before writing the new set; ingredients first so the item
	// subquery still sees the old rows.
	_, err = tx.ExecContext(ctx, `
		UPDATE ingredients SET deleted_at = ?
		WHERE meal_item_id IN (SELECT id FROM meal_items WHERE meal_id = ?) AND deleted_at IS NULL
	`, now, draft.ID)
	if err != nil {
		return fmt.Errorf("failed to supersede ingredients: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE meal_items SET deleted_at = ? WHERE meal_id = ? AND deleted_at IS NULL
	`, now, draft.ID)
	if err != nil {
		return fmt.Errorf("failed to supersede items: %w", err)
	}

	for _, item := range draft.Items {
		var confLow, confHigh any
		if item.Confidence != nil {
			confLow, confHigh = item.Confidence.Low, item.Confidence.High
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO meal_items
			(id, meal_id, name, portion, calories, protein, carbs, fat, ai_derived,
			 confidence_low, confidence_high, created_at, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
		`, item.ID, draft.ID, item.Name, item.Portion,
			item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat,
			btoi(item.AIDerived), confLow, confHigh, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, ing := range item.Ingredients {
			_, err = tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO ingredients
				(id, meal_item_id, name, amount, unit, ai_derived, created_at, updated_at, deleted_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
			`, ing.ID, item.ID, ing.Name, ing.Amount, ing.Unit, btoi(ing.AIDerived), now, now)
			if err != nil {
				return fmt.Errorf("failed to insert ingredient: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID returns the live meal with its live items and ingredients, or nil
// when no such meal exists.
func (s *MealStore) GetByID(ctx context.Context, id string) (*domain.MealEntry, error) {
	meal := &domain.MealEntry{}
	var aiDerived int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, date, title, notes, ai_derived, created_at, updated_at
		FROM meals WHERE id = ? AND deleted_at IS NULL
	`, id).Scan(&meal.ID, &meal.Date, &meal.Title, &meal.Notes, &aiDerived, &meal.CreatedAt, &meal.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	meal.AIDerived = aiDerived == 1

	items, err := s.itemsForMeal(ctx, meal.ID)
	if err != nil {
		return nil, err
	}
	meal.Items = items

	return meal, nil
}

// ListByDay returns live meals for one YYYY-MM-DD day, newest first.
func (s *MealStore) ListByDay(ctx context.Context, day string) ([]*domain.MealEntry, error) {
	return s.listMeals(ctx, `
		SELECT id, date, title, notes, ai_derived, created_at, updated_at
		FROM meals WHERE date = ? AND deleted_at IS NULL ORDER BY created_at DESC
	`, day)
}

// ListByRange returns live meals with start <= date <= end, newest day first.
func (s *MealStore) ListByRange(ctx context.Context, start, end string) ([]*domain.MealEntry, error) {
	return s.listMeals(ctx, `
		SELECT id, date, title, notes, ai_derived, created_at, updated_at
		FROM meals WHERE date >= ? AND date <= ? AND deleted_at IS NULL
		ORDER BY date DESC, created_at DESC
	`, start, end)
}

// SoftDelete marks the meal deleted. Items and ingredients keep their rows;
// they become unreachable through the live-meal queries.
func (s *MealStore) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE meals SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("meal not found")
	}

	return nil
}

func (s *MealStore) listMeals(ctx context.Context, query string, args ...any) ([]*domain.MealEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var meals []*domain.MealEntry
	for rows.Next() {
		meal := &domain.MealEntry{}
		var aiDerived int
		if err := rows.Scan(&meal.ID, &meal.Date, &meal.Title, &meal.Notes, &aiDerived, &meal.CreatedAt, &meal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meal.AIDerived = aiDerived == 1
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	for _, meal := range meals {
		items, err := s.itemsForMeal(ctx, meal.ID)
		if err != nil {
			return nil, err
		}
		meal.Items = items
	}

	return meals, nil
}

func (s *MealStore) itemsForMeal(ctx context.Context, mealID string) ([]domain.MealItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, portion, calories, protein, carbs, fat, ai_derived, confidence_low, confidence_high
		FROM meal_items WHERE meal_id = ? AND deleted_at IS NULL ORDER BY created_at ASC
	`, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	items := make([]domain.MealItem, 0)
	for rows.Next() {
		item := domain.MealItem{MealID: mealID}
		var aiDerived int
		var confLow, confHigh sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.Name, &item.Portion,
			&item.Macros.Calories, &item.Macros.Protein, &item.Macros.Carbs, &item.Macros.Fat,
			&aiDerived, &confLow, &confHigh); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.AIDerived = aiDerived == 1
		if confLow.Valid && confHigh.Valid {
			item.Confidence = &domain.ConfidenceRange{Low: confLow.Float64, High: confHigh.Float64}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	for i := range items {
		ingredients, err := s.ingredientsForItem(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Ingredients = ingredients
	}

	return items, nil
}

func (s *MealStore) ingredientsForItem(ctx context.Context, itemID string) ([]domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, unit, ai_derived
		FROM ingredients WHERE meal_item_id = ? AND deleted_at IS NULL ORDER BY created_at ASC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	ingredients := make([]domain.Ingredient, 0)
	for rows.Next() {
		ing := domain.Ingredient{MealItemID: itemID}
		var aiDerived int
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Amount, &ing.Unit, &aiDerived); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ing.AIDerived = aiDerived == 1
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// dayOf reduces an RFC3339 timestamp (or anything starting with a date) to
// its YYYY-MM-DD day. Unparseable short strings pass through unchanged.
func dayOf(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("2006-01-02")
	}
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
