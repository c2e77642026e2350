package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
	"github.com/musicjoeyoung/MealSnap/internal/draft"
)

// Client is the consuming side of the analyze endpoint: it posts a photo and
// turns the wire-level result into an editable draft with fresh identifiers.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// ModelOverrides optionally names the models to use instead of the server's
// defaults.
type ModelOverrides struct {
	Vision    string `json:"vision,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

type analyzeRequest struct {
	ImageBase64   string          `json:"imageBase64"`
	ImageMimeType string          `json:"imageMimeType,omitempty"`
	Models        *ModelOverrides `json:"models,omitempty"`
}

// AnalyzeMealPhoto sends the base64 image for analysis and maps the response
// into a draft. Any non-200 response is an error; no partial draft is
// created. The server's safe-empty fallback arrives as a 200 and maps to a
// zero-item draft, not an error.
func (c *Client) AnalyzeMealPhoto(ctx context.Context, imageBase64, mimeType string, models *ModelOverrides) (*domain.DraftMealEntry, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload, err := json.Marshal(analyzeRequest{
		ImageBase64:   imageBase64,
		ImageMimeType: mimeType,
		Models:        models,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call analyze: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close analyze response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyze returned status %d", resp.StatusCode)
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return draft.FromAnalysis(&result), nil
}
