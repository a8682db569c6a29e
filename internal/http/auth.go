package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
)

type personIDKey struct{}

// personFromContext returns the authenticated person id injected by requireAuth.
func personFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(personIDKey{}).(int64)
	return id, ok
}

// requireAuth validates the bearer token and injects the acting person id.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		claims, err := s.tokens.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		ctx := context.WithValue(r.Context(), personIDKey{}, claims.PersonID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string         `json:"token"`
	Person personResponse `json:"person"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name, email, and password are required")
		return
	}

	if _, err := s.repo.Persons.GetByEmail(r.Context(), req.Email); err == nil {
		s.respondError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.WithError(err).Error("register email lookup failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("password hash failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	person, err := s.repo.Persons.Create(r.Context(), repository.PersonCreateParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Gender:       strings.TrimSpace(req.Gender),
		Age:          req.Age,
		PasswordHash: hash,
	})
	if err != nil {
		s.logger.WithError(err).Error("create person failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	s.respondAuth(w, http.StatusCreated, person)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	person, err := s.repo.Persons.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Unknown email or wrong password")
			return
		}
		s.logger.WithError(err).Error("login email lookup failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if !s.tokens.CheckPassword(person.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Unknown email or wrong password")
		return
	}

	s.respondAuth(w, http.StatusOK, person)
}

func (s *Server) respondAuth(w http.ResponseWriter, status int, person domain.Person) {
	token, err := s.tokens.GenerateToken(person)
	if err != nil {
		s.logger.WithError(err).Error("token generation failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		return
	}
	s.respondJSON(w, status, authResponse{Token: token, Person: toPersonResponse(person)})
}
