package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
	"github.com/musicjoeyoung/MealSnap/internal/llm"
)

// visionPrompt asks the vision model for a free-text description of the meal.
const visionPrompt = `Describe the foods and portions visible in the photo. Include likely ingredients and preparation style. Be concise.`

// extractionPrompt embeds the vision description in a delimited block and asks
// the reasoning model for the exact AnalysisResult JSON shape, nothing else.
func extractionPrompt(description string) string {
	return fmt.Sprintf(`You are estimating meal nutrition from a description.

Description:
"""%s"""

Return ONLY valid JSON with this shape:
{
  "mealTitle": string,
  "notes": string,
  "aiDerived": true,
  "items": [
    {
      "name": string,
      "portion": string,
      "macros": { "calories": number, "protein": number, "carbs": number, "fat": number },
      "ingredients": [ { "name": string, "amount": number, "unit": string } ],
      "confidence": { "low": number, "high": number }
    }
  ]
}

Notes should mention values are estimated. Confidence range is between 0 and 1. Use approximate values when uncertain.`, description)
}

// Request is one analysis cycle's input. Model fields override the configured
// defaults when non-empty.
type Request struct {
	ImageBase64    string
	ImageMimeType  string
	VisionModel    string
	ReasoningModel string
}

// Analyzer runs the two-stage pipeline: a vision model describes the photo in
// free text, then a reasoning model turns that description into structured
// nutrition data. The stages are strictly sequential and share no state
// between requests.
type Analyzer struct {
	invoker        llm.Invoker
	visionModel    string
	reasoningModel string
	logger         *slog.Logger
}

func New(invoker llm.Invoker, visionModel, reasoningModel string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		invoker:        invoker,
		visionModel:    visionModel,
		reasoningModel: reasoningModel,
		logger:         logger,
	}
}

// Analyze runs one analysis cycle. A failed invocation in either stage aborts
// the cycle with that error. Malformed model output never does: recovery is
// tried on the extraction text, then on the raw vision text (the reasoning
// stage can degenerate to prose while the vision text already looks
// structured), and if both fail the canonical safe-empty result is returned.
// Every returned result has AIDerived forced to true; provenance is a
// pipeline-level fact, not a model-reported one.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*domain.AnalysisResult, error) {
	visionModel := req.VisionModel
	if visionModel == "" {
		visionModel = a.visionModel
	}

	visionOut, err := a.invoker.Invoke(ctx, visionModel, llm.Input{
		Prompt:        visionPrompt,
		ImageBase64:   req.ImageBase64,
		ImageMimeType: req.ImageMimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("vision stage: %w", err)
	}
	visionText := visionOut.AsText()
	a.logger.Debug("vision stage complete", "model", visionModel, "chars", len(visionText))

	reasoningModel := req.ReasoningModel
	if reasoningModel == "" {
		reasoningModel = a.reasoningModel
	}

	reasoningOut, err := a.invoker.Invoke(ctx, reasoningModel, llm.Input{
		Prompt: extractionPrompt(visionText),
	})
	if err != nil {
		return nil, fmt.Errorf("extraction stage: %w", err)
	}
	rawText := reasoningOut.AsText()

	result, ok := Recover(rawText)
	if !ok {
		result, ok = Recover(visionText)
	}
	if !ok {
		a.logger.Info("no structure recovered, returning empty result",
			"vision_model", visionModel, "reasoning_model", reasoningModel)
		return safeEmptyResult(), nil
	}

	result.AIDerived = true
	if result.Items == nil {
		result.Items = []domain.AnalyzedItem{}
	}
	return result, nil
}

// safeEmptyResult is what callers get when no structure could be recovered
// from either stage. It is a zero-confidence result, not an error.
func safeEmptyResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		MealTitle: "Meal",
		Notes:     "Estimated values",
		AIDerived: true,
		Items:     []domain.AnalyzedItem{},
	}
}
