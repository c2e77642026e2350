package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMealPhoto(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"mealTitle": "Grilled Chicken",
			"notes": "Estimated values",
			"aiDerived": true,
			"items": [{
				"name": "Grilled chicken breast",
				"portion": "1 breast",
				"macros": {"calories": 350, "protein": 40, "carbs": 2, "fat": 18},
				"ingredients": [{"name": "chicken breast", "amount": 170, "unit": "g"}],
				"confidence": {"low": 0.5, "high": 0.9}
			}]
		}`))
	}))
	defer server.Close()

	c := New(server.URL)
	d, err := c.AnalyzeMealPhoto(context.Background(), "aGk=", "", &ModelOverrides{Vision: "v1"})
	require.NoError(t, err)

	assert.Equal(t, "aGk=", captured["imageBase64"])
	// Empty MIME type defaults to jpeg before hitting the wire.
	assert.Equal(t, "image/jpeg", captured["imageMimeType"])
	models := captured["models"].(map[string]any)
	assert.Equal(t, "v1", models["vision"])

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Grilled Chicken", d.Title)
	assert.True(t, d.AIDerived)
	require.Len(t, d.Items, 1)
	assert.NotEmpty(t, d.Items[0].ID)
	assert.True(t, d.Items[0].AIDerived)
	require.Len(t, d.Items[0].Ingredients, 1)
	assert.NotEmpty(t, d.Items[0].Ingredients[0].ID)
	require.NotNil(t, d.Items[0].Confidence)
	assert.Equal(t, 0.5, d.Items[0].Confidence.Low)
}

func TestAnalyzeMealPhotoSafeEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mealTitle":"Meal","notes":"Estimated values","aiDerived":true,"items":[]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	d, err := c.AnalyzeMealPhoto(context.Background(), "aGk=", "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "Meal", d.Title)
	assert.Empty(t, d.Items)
}

func TestAnalyzeMealPhotoServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "analysis failed", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	d, err := c.AnalyzeMealPhoto(context.Background(), "aGk=", "", nil)
	assert.Error(t, err)
	assert.Nil(t, d)
}

func TestAnalyzeMealPhotoTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL)
	_, err := c.AnalyzeMealPhoto(context.Background(), "aGk=", "", nil)
	assert.Error(t, err)
}
