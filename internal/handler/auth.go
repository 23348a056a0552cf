package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rmachado/fleet-manager/internal/middleware"
	"github.com/rmachado/fleet-manager/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin handles POST /api/auth/token/.
// On success it returns {"access": ..., "refresh": ...}; on bad credentials
// it returns 401 with a {"detail": ...} body, never distinguishing unknown
// users from wrong passwords.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// handleRefresh handles POST /api/auth/token/refresh/. The presented refresh
// token is single use: a new pair is issued and the old token is revoked.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// handleRegister handles POST /api/auth/register/. Registration is open; the
// created account must still log in afterwards, no tokens are issued here.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// handleMe handles GET /api/auth/me/. It answers with the profile of the
// authenticated user, resolved fresh from storage so deleted accounts fail
// even while their access token is still within its lifetime.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	user, err := s.auth.Me(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
