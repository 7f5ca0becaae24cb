package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/export"
)

// ArticleResponse represents one history entry in API responses. Timestamps
// are epoch milliseconds.
type ArticleResponse struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	Content   string `json:"content"`
	Language  string `json:"language"`
	CreatedAt int64  `json:"created_at"`
}

func toArticleResponses(articles []db.Article) []ArticleResponse {
	responses := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		responses = append(responses, ArticleResponse{
			ID:        a.ID.String(),
			Keyword:   a.Keyword,
			Content:   a.Content,
			Language:  a.Language,
			CreatedAt: a.CreatedAt.UnixMilli(),
		})
	}
	return responses
}

// handleListArticles returns the full history, newest first
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.db.ListArticles(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, toArticleResponses(articles))
}

// handleDeleteArticle removes a history entry and returns the remaining list
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	remaining, err := s.db.DeleteArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Article not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, toArticleResponses(remaining))
}

// handleExportArticle renders a history entry in the requested format and
// serves it as a download
func (s *Server) handleExportArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid article ID format")
		return
	}

	article, err := s.db.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Article not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result, err := export.Export(*article, r.PathValue("format"), s.exportOpts)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Export failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		// Response already streaming; nothing left to do.
		return
	}
}
