package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts") {
		s.audit(r, "account.register", "rate_limited")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in, fieldErrs := validate.Registration(validate.RegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if fieldErrs.Any() {
		s.audit(r, "account.register", "fail", "reason", "validation")
		writeFieldErrors(w, fieldErrs, registerRequest{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
		})
		return
	}
	account, err := s.app.Register(in)
	if err != nil {
		s.audit(r, "account.register", "fail", "reason", err.Error())
		writeAppError(w, err)
		return
	}
	s.audit(r, "account.register", "success", "account_id", account.ID)
	writeJSON(w, http.StatusCreated, accountResponse{
		Account: account,
		Notice:  "Congratulations, you're registered " + account.FirstName + ". Please log in.",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "account.login", "rate_limited")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	account, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.audit(r, "account.login", "fail", "reason", err.Error())
		writeAppError(w, err)
		return
	}
	s.audit(r, "account.login", "success", "account_id", account.ID)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:   token,
		Account: account,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, _ := bearerToken(r)
	if err := s.app.Logout(token); err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "account.logout", "success", "account_id", account.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// PATCH /admin/accounts/{id}
func (s *Server) handleAdminAccountByID(w http.ResponseWriter, r *http.Request, admin domain.Account) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/accounts/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	var req roleUpdateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	role, ok := domain.ParseAccountRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	updated, err := s.app.SetAccountRole(id, role)
	if err != nil {
		s.audit(r, "admin.account.role", "fail", "account_id", admin.ID, "target_id", id, "reason", err.Error())
		writeAppError(w, err)
		return
	}
	s.audit(r, "admin.account.role", "success", "account_id", admin.ID, "target_id", id, "role", string(role))
	writeJSON(w, http.StatusOK, updated)
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	Account domain.Account `json:"account"`
	Notice  string         `json:"notice,omitempty"`
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Account domain.Account `json:"account"`
}
