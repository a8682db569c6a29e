package httpserver

import (
	"errors"
	"net/http"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/service"
)

type rateRequest struct {
	Score    int   `json:"score"`
	PersonID int64 `json:"personId,omitempty"`
}

type ratingResponse struct {
	ID        int64  `json:"id"`
	PersonID  int64  `json:"personId"`
	SeriesID  int64  `json:"seriesId"`
	EpisodeID *int64 `json:"episodeId,omitempty"`
	Score     int    `json:"score"`
}

type averageResponse struct {
	Average float64 `json:"average"`
}

func toRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		PersonID:  r.PersonID,
		SeriesID:  r.SeriesID,
		EpisodeID: r.EpisodeID,
		Score:     r.Score,
	}
}

func toRatingResponses(items []domain.Rating) []ratingResponse {
	out := make([]ratingResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRatingResponse(r))
	}
	return out
}

// rateRequestPerson resolves the acting person id for a rate call. The token
// is authoritative; a body personId is accepted only when it matches.
func (s *Server) rateRequestPerson(w http.ResponseWriter, r *http.Request, req rateRequest) (int64, bool) {
	personID, ok := personFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return 0, false
	}
	if req.PersonID != 0 && req.PersonID != personID {
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Cannot submit ratings for another person")
		return 0, false
	}
	return personID, true
}

func (s *Server) respondRating(w http.ResponseWriter, rating domain.Rating, inserted bool) {
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toRatingResponse(rating))
}

func (s *Server) respondRatingErr(w http.ResponseWriter, err error, target string) {
	switch {
	case errors.Is(err, service.ErrInvalidScore):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "score must be between 1 and 5")
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", target+" not found")
	default:
		s.logger.WithError(err).Error("rating failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record rating")
	}
}

func (s *Server) handleRateSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	var req rateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	personID, ok := s.rateRequestPerson(w, r, req)
	if !ok {
		return
	}

	rating, inserted, err := s.ratings.RateSeries(r.Context(), seriesID, personID, req.Score)
	if err != nil {
		s.respondRatingErr(w, err, "Series or person")
		return
	}
	s.respondRating(w, rating, inserted)
}

func (s *Server) handleRateEpisode(w http.ResponseWriter, r *http.Request) {
	episodeID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	var req rateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	personID, ok := s.rateRequestPerson(w, r, req)
	if !ok {
		return
	}

	rating, inserted, err := s.ratings.RateEpisode(r.Context(), episodeID, personID, req.Score)
	if err != nil {
		s.respondRatingErr(w, err, "Episode or person")
		return
	}
	s.respondRating(w, rating, inserted)
}

func (s *Server) handleSeriesAverage(w http.ResponseWriter, r *http.Request) {
	seriesID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	avg, err := s.ratings.AverageForSeries(r.Context(), seriesID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("series average failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute average")
		return
	}
	s.respondJSON(w, http.StatusOK, averageResponse{Average: avg})
}

func (s *Server) handleEpisodeAverage(w http.ResponseWriter, r *http.Request) {
	episodeID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	avg, err := s.ratings.AverageForEpisode(r.Context(), episodeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
			return
		}
		s.logger.WithError(err).Error("episode average failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute average")
		return
	}
	s.respondJSON(w, http.StatusOK, averageResponse{Average: avg})
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Ratings.ListAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list ratings failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(items))
}

func (s *Server) handleListRatingsByPerson(w http.ResponseWriter, r *http.Request) {
	personID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := s.repo.Ratings.ListByPerson(r.Context(), personID)
	if err != nil {
		s.logger.WithError(err).Error("list person ratings failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponses(items))
}
