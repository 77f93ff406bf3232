package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brusiqueira9/expense-guru/internal/auth"
	"github.com/brusiqueira9/expense-guru/internal/log"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Name         string `json:"name,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to hash password", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Email, hash, req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to create user", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	access, refresh, err := s.authService.GenerateTokenPair(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to issue tokens", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Name:         user.Name,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same response for unknown email and bad password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	access, refresh, err := s.authService.GenerateTokenPair(user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to issue tokens", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Name:         user.Name,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	userID, err := s.authService.ValidateToken(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	// Rotate: the presented refresh token is single use.
	s.authService.Revoke(req.RefreshToken)

	access, refresh, err := s.authService.GenerateTokenPair(userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to issue tokens", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       userID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// The access token was already validated by authMiddleware.
	header := r.Header.Get("Authorization")
	s.authService.Revoke(strings.TrimPrefix(header, "Bearer "))

	var req refreshRequest
	if err := decodeJSON(r, &req); err == nil && req.RefreshToken != "" {
		s.authService.Revoke(req.RefreshToken)
	}

	w.WriteHeader(http.StatusNoContent)
}
