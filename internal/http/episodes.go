package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
)

type episodeRequest struct {
	SeriesID int64  `json:"seriesId"`
	Title    string `json:"title"`
	Number   int    `json:"number"`
}

type episodeResponse struct {
	ID       int64  `json:"id"`
	SeriesID int64  `json:"seriesId"`
	Title    string `json:"title"`
	Number   int    `json:"number"`
}

func toEpisodeResponse(e domain.Episode) episodeResponse {
	return episodeResponse{ID: e.ID, SeriesID: e.SeriesID, Title: e.Title, Number: e.Number}
}

func toEpisodeResponses(items []domain.Episode) []episodeResponse {
	out := make([]episodeResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEpisodeResponse(e))
	}
	return out
}

func (s *Server) handleCreateEpisode(w http.ResponseWriter, r *http.Request) {
	var req episodeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	switch {
	case req.SeriesID <= 0:
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "seriesId is required")
		return
	case strings.TrimSpace(req.Title) == "":
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return
	case req.Number <= 0:
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "number must be positive")
		return
	}

	if _, err := s.repo.Series.GetByID(r.Context(), req.SeriesID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("get series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create episode")
		return
	}

	episode, err := s.repo.Episodes.Create(r.Context(), repository.EpisodeCreateParams{
		SeriesID: req.SeriesID,
		Title:    strings.TrimSpace(req.Title),
		Number:   req.Number,
	})
	if err != nil {
		s.logger.WithError(err).Error("create episode failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create episode")
		return
	}
	s.respondJSON(w, http.StatusCreated, toEpisodeResponse(episode))
}

func (s *Server) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	episode, err := s.repo.Episodes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
			return
		}
		s.logger.WithError(err).Error("get episode failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch episode")
		return
	}
	s.respondJSON(w, http.StatusOK, toEpisodeResponse(episode))
}
