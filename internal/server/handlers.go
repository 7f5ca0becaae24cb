package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/article-agent/internal/pipeline"
)

// GenerateRequest represents the request body for /generate
type GenerateRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
	Language string   `json:"language,omitempty" validate:"omitempty,oneof=en id"`
}

// GenerateResponse represents the response for /generate
type GenerateResponse struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// parseGenerateRequest decodes and validates a generation request, returning
// the cleaned keyword list. A nil slice means the response was already written.
func (s *Server) parseGenerateRequest(w http.ResponseWriter, r *http.Request, req *GenerateRequest) []string {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationError(err).Error())
		return nil
	}

	keywords := pipeline.CleanKeywords(req.Keywords)
	if len(keywords) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one non-empty keyword is required")
		return nil
	}

	if req.Language == "" {
		req.Language = pipeline.LanguageEN
	}
	return keywords
}

// handleGenerate starts a new generation run in the background
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	keywords := s.parseGenerateRequest(w, r, &req)
	if keywords == nil {
		return
	}

	if s.orchestrator.Snapshot().State == pipeline.StateRunning {
		s.errorResponse(w, http.StatusConflict, "A generation run is already in progress")
		return
	}

	log.Printf("Starting generation run (%d keywords, language %s)", len(keywords), req.Language)

	// Run in background; a concurrent start that slipped past the state check
	// is rejected by the orchestrator itself.
	opts := pipeline.RunOptions{
		Keywords: keywords,
		Language: req.Language,
	}
	go func() {
		if _, err := s.orchestrator.Run(context.Background(), opts); err != nil {
			log.Printf("Generation run failed: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, GenerateResponse{
		Status: "started",
		Total:  len(keywords),
	})
}

// handleGenerateStream starts a generation run and streams progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	keywords := s.parseGenerateRequest(w, r, &req)
	if keywords == nil {
		return
	}

	if s.orchestrator.Snapshot().State == pipeline.StateRunning {
		s.errorResponse(w, http.StatusConflict, "A generation run is already in progress")
		return
	}

	// Setup SSE writer
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming generation run (%d keywords, language %s)", len(keywords), req.Language)

	opts := pipeline.RunOptions{
		Keywords: keywords,
		Language: req.Language,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent("step", event); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		},
	}

	// Run synchronously (blocking until complete)
	result, err := s.orchestrator.Run(r.Context(), opts)
	if err != nil {
		log.Printf("Generation run failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete("completed", result.Completed, result.Failed, result.Total)
	log.Printf("Streaming generation run completed (%d ok, %d failed)", result.Completed, result.Failed)
}

// handleGenerateStatus returns a snapshot of the current run
func (s *Server) handleGenerateStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.orchestrator.Snapshot())
}
