package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

func (s *Server) handleSaveMeal(w http.ResponseWriter, r *http.Request) {
	var draft domain.DraftMealEntry
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid meal payload", http.StatusBadRequest)
		return
	}

	meal, err := s.meals.SaveDraft(r.Context(), &draft)
	if err != nil {
		http.Error(w, "failed to save meal", http.StatusInternalServerError)
		s.logger.Error("save meal failed", "meal_id", draft.ID, "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleGetMeal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	meal, err := s.meals.Meal(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to get meal", http.StatusInternalServerError)
		s.logger.Error("get meal failed", "meal_id", id, "error", err)
		return
	}
	if meal == nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, meal)
}

// handleListMeals serves both the single-day view (?date=YYYY-MM-DD) and the
// history view (?start=&end=).
func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var meals []*domain.MealEntry
	var err error
	switch {
	case q.Get("date") != "":
		meals, err = s.meals.MealsForDay(r.Context(), q.Get("date"))
	case q.Get("start") != "" && q.Get("end") != "":
		meals, err = s.meals.MealsForRange(r.Context(), q.Get("start"), q.Get("end"))
	default:
		http.Error(w, "date or start/end query parameters required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "failed to list meals", http.StatusInternalServerError)
		s.logger.Error("list meals failed", "error", err)
		return
	}

	if meals == nil {
		meals = []*domain.MealEntry{}
	}
	s.writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.meals.DeleteMeal(r.Context(), id); err != nil {
		http.Error(w, "failed to delete meal", http.StatusNotFound)
		s.logger.Warn("delete meal failed", "meal_id", id, "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDailySummary returns summed macros for one day, defaulting to today.
func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}

	summary, err := s.meals.DailySummary(r.Context(), day)
	if err != nil {
		http.Error(w, "failed to compute summary", http.StatusInternalServerError)
		s.logger.Error("daily summary failed", "day", day, "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}
