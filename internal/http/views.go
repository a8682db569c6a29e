package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
)

type viewRequest struct {
	SeriesID  int64  `json:"seriesId"`
	WatchedOn string `json:"watchedOn"`
	Progress  int    `json:"progress"`
}

type viewResponse struct {
	ID        int64  `json:"id"`
	PersonID  int64  `json:"personId"`
	SeriesID  int64  `json:"seriesId"`
	WatchedOn string `json:"watchedOn"`
	Progress  int    `json:"progress"`
}

func toViewResponse(v domain.ViewRecord) viewResponse {
	watched := ""
	if !v.WatchedOn.IsZero() {
		watched = v.WatchedOn.UTC().Format("2006-01-02")
	}
	return viewResponse{
		ID:        v.ID,
		PersonID:  v.PersonID,
		SeriesID:  v.SeriesID,
		WatchedOn: watched,
		Progress:  v.Progress,
	}
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Views.ListAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list views failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list views")
		return
	}

	out := make([]viewResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toViewResponse(v))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	personID, ok := personFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req viewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	switch {
	case req.SeriesID <= 0:
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "seriesId is required")
		return
	case req.Progress < 0 || req.Progress > 100:
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "progress must be between 0 and 100")
		return
	}

	watchedOn := time.Now().UTC()
	if req.WatchedOn != "" {
		parsed, err := time.Parse("2006-01-02", req.WatchedOn)
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "watchedOn must be a YYYY-MM-DD date")
			return
		}
		watchedOn = parsed
	}

	if _, err := s.repo.Series.GetByID(r.Context(), req.SeriesID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("get series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record view")
		return
	}

	record, err := s.repo.Views.Create(r.Context(), domain.ViewRecord{
		PersonID:  personID,
		SeriesID:  req.SeriesID,
		WatchedOn: watchedOn,
		Progress:  req.Progress,
	})
	if err != nil {
		s.logger.WithError(err).Error("create view failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record view")
		return
	}
	s.respondJSON(w, http.StatusCreated, toViewResponse(record))
}
