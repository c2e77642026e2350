package web

import (
	"encoding/json"
	"net/http"

	"github.com/musicjoeyoung/MealSnap/internal/analyze"
)

type analyzeRequest struct {
	ImageBase64   string `json:"imageBase64"`
	ImageMimeType string `json:"imageMimeType"`
	Models        *struct {
		Vision    string `json:"vision"`
		Reasoning string `json:"reasoning"`
	} `json:"models"`
}

// setCORS adds the permissive headers mobile clients need for the analyze
// endpoint: any origin, POST/OPTIONS, Content-Type.
func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// handleAnalyze runs one stateless analysis cycle. Method and payload
// preconditions are rejected before any inference call is made. Malformed
// model output never produces an error status; only a failed invocation does.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		setCORS(w)
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeAnalyzeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ImageBase64 == "" {
		s.writeAnalyzeJSON(w, http.StatusBadRequest, map[string]string{"error": "imageBase64 is required"})
		return
	}

	analyzeReq := analyze.Request{
		ImageBase64:   req.ImageBase64,
		ImageMimeType: req.ImageMimeType,
	}
	if req.Models != nil {
		analyzeReq.VisionModel = req.Models.Vision
		analyzeReq.ReasoningModel = req.Models.Reasoning
	}

	result, err := s.analyzer.Analyze(r.Context(), analyzeReq)
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	s.writeAnalyzeJSON(w, http.StatusOK, result)
}

// writeAnalyzeJSON is writeJSON plus the analyze endpoint's CORS headers.
func (s *Server) writeAnalyzeJSON(w http.ResponseWriter, status int, v any) {
	setCORS(w)
	s.writeJSON(w, status, v)
}
