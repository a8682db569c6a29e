package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
	"github.com/serietrack/serietrack/internal/service"
)

type personRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Password string `json:"password,omitempty"`
}

type personResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
}

func toPersonResponse(p domain.Person) personResponse {
	return personResponse{ID: p.ID, Name: p.Name, Email: p.Email, Gender: p.Gender, Age: p.Age}
}

func toPersonResponses(items []domain.Person) []personResponse {
	out := make([]personResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPersonResponse(p))
	}
	return out
}

func (req personRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		return "email is required"
	}
	if req.Age < 0 {
		return "age cannot be negative"
	}
	return ""
}

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Persons.ListAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list persons failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list persons")
		return
	}
	s.respondJSON(w, http.StatusOK, toPersonResponses(items))
}

func (s *Server) handleSearchPersons(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name query parameter is required")
		return
	}

	items, err := s.repo.Persons.SearchByName(r.Context(), name)
	if err != nil {
		s.logger.WithError(err).Error("search persons failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search persons")
		return
	}
	s.respondJSON(w, http.StatusOK, toPersonResponses(items))
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}
	if req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "password is required")
		return
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("password hash failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create person")
		return
	}

	person, err := s.repo.Persons.Create(r.Context(), repository.PersonCreateParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Gender:       strings.TrimSpace(req.Gender),
		Age:          req.Age,
		PasswordHash: hash,
	})
	if err != nil {
		s.logger.WithError(err).Error("create person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create person")
		return
	}
	s.respondJSON(w, http.StatusCreated, toPersonResponse(person))
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	person, err := s.repo.Persons.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("get person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch person")
		return
	}
	s.respondJSON(w, http.StatusOK, toPersonResponse(person))
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	var req personRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	person, err := s.repo.Persons.Update(r.Context(), id, repository.PersonUpdateParams{
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Gender: strings.TrimSpace(req.Gender),
		Age:    req.Age,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("update person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update person")
		return
	}
	s.respondJSON(w, http.StatusOK, toPersonResponse(person))
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := s.repo.Persons.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("delete person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete person")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if _, err := s.repo.Persons.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("get person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch history")
		return
	}

	items, err := s.repo.Persons.HistorySeries(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("get history failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch history")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponses(items))
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	personID, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	seriesID, err := idParam(r, "seriesId")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	if _, err := s.repo.Persons.GetByID(r.Context(), personID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("get person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record history")
		return
	}
	if _, err := s.repo.Series.GetByID(r.Context(), seriesID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		s.logger.WithError(err).Error("get series failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record history")
		return
	}

	if err := s.repo.Persons.AddHistory(r.Context(), personID, seriesID); err != nil {
		s.logger.WithError(err).Error("add history failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := s.recommend.Recommend(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found")
			return
		}
		s.logger.WithError(err).Error("recommendations failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesResponses(items))
}
