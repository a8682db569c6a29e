package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
)

type seriesRequest struct {
	Title        string  `json:"title"`
	Genre        string  `json:"genre"`
	EpisodeCount int     `json:"episodeCount"`
	Note         float64 `json:"note"`
}

type seriesResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Genre        string  `json:"genre"`
	EpisodeCount int     `json:"episodeCount"`
	Note         float64 `json:"note"`
}

type trendingResponse struct {
	SeriesID    int64   `json:"seriesId"`
	Title       string  `json:"title"`
	RecentViews int64   `json:"recentViews"`
	AvgRating   float64 `json:"avgRating"`
	Score       float64 `json:"score"`
}

func toSeriesResponse(s domain.Series) seriesResponse {
	return seriesResponse{
		ID:           s.ID,
		Title:        s.Title,
		Genre:        s.Genre,
		EpisodeCount: s.EpisodeCount,
		Note:         s.Note,
	}
}

func toSeriesResponses(items []domain.Series) []seriesResponse {
	out := make([]seriesResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSeriesResponse(s))
	}
	return out
}

func (req seriesRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(req.Genre) == "" {
		return "genre is required"
	}
	if req.EpisodeCount < 0 {
		return "episodeCount cannot be negative"
	}
	return ""
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Series.ListAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list series")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponses(items))
}

// buildSeriesFilters parses the search query parameters.
func buildSeriesFilters(values url.Values) (repository.SeriesSearchFilters, error) {
	var filters repository.SeriesSearchFilters
	if genre := values.Get("genre"); genre != "" {
		filters.Genre = &genre
	}
	if raw := values.Get("episodeCount"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return filters, errors.New("episodeCount must be a non-negative integer")
		}
		filters.EpisodeCount = &count
	}
	return filters, nil
}

func (s *Server) handleSearchSeries(w http.ResponseWriter, r *http.Request) {
	filters, err := buildSeriesFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := s.repo.Series.Search(r.Context(), filters)
	if err != nil {
		s.logger.WithError(err).Error("search series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search series")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponses(items))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	entries, err := s.trending.Trending(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("trending computation failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute trending series")
		return
	}

	out := make([]trendingResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, trendingResponse{
			SeriesID:    e.SeriesID,
			Title:       e.Title,
			RecentViews: e.RecentViews,
			AvgRating:   e.AvgRating,
			Score:       e.Score,
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	series, err := s.repo.Series.Create(r.Context(), repository.SeriesCreateParams{
		Title:        strings.TrimSpace(req.Title),
		Genre:        strings.TrimSpace(req.Genre),
		EpisodeCount: req.EpisodeCount,
		Note:         req.Note,
	})
	if err != nil {
		s.logger.WithError(err).Error("create series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create series")
		return
	}
	s.respondJSON(w, http.StatusCreated, toSeriesResponse(series))
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	series, err := s.repo.Series.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("get series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch series")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponse(series))
}

func (s *Server) handleListSeriesEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if _, err := s.repo.Series.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("get series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch series")
		return
	}

	episodes, err := s.repo.Episodes.ListBySeries(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("list episodes failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list episodes")
		return
	}
	s.respondJSON(w, http.StatusOK, toEpisodeResponses(episodes))
}

func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	var req seriesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	series, err := s.repo.Series.Update(r.Context(), id, repository.SeriesCreateParams{
		Title:        strings.TrimSpace(req.Title),
		Genre:        strings.TrimSpace(req.Genre),
		EpisodeCount: req.EpisodeCount,
		Note:         req.Note,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("update series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update series")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponse(series))
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.repo.Series.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("delete series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete series")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
