package analyze

import (
	"encoding/json"
	"strings"

	"github.com/musicjoeyoung/MealSnap/internal/domain"
)

// Recover extracts an AnalysisResult from an arbitrary text blob. It first
// tries the whole string as JSON, then the substring between the first '{'
// and the last '}'. That second pass recovers JSON wrapped in prose or
// markdown code fences, a known failure mode of generative output. Returns
// (nil, false) when neither attempt parses; it never panics or propagates
// parse errors.
func Recover(raw string) (*domain.AnalysisResult, bool) {
	if result, ok := parseResult(raw); ok {
		return result, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	return parseResult(raw[start : end+1])
}

func parseResult(s string) (*domain.AnalysisResult, bool) {
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil, false
	}
	return &result, true
}
