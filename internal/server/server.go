package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dealerhub/internal/app"
	"dealerhub/internal/ratelimit"
	"dealerhub/internal/util"
	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                     *app.App
	RedisAddr               string
	RedisPassword           string
	RegisterRateLimitPerMin int
	LoginRateLimitPerMin    int
	SubmitRateLimitPerMin   int
	MaxPhotoUploadBytes     int64
	TrustedProxyCIDRs       []string
}

// Server exposes the HTTP API.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	maxUploadBytes  int64
	trustedProxies  *util.TrustedProxies
	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
	submitLimiter   *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	registerLimit := cfg.RegisterRateLimitPerMin
	if registerLimit <= 0 {
		registerLimit = 5
	}
	loginLimit := cfg.LoginRateLimitPerMin
	if loginLimit <= 0 {
		loginLimit = 10
	}
	submitLimit := cfg.SubmitRateLimitPerMin
	if submitLimit <= 0 {
		submitLimit = 10
	}
	rateWindow := time.Minute
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "dealerhub:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, rateWindow)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	registerLimiter, err := newLimiter("register", registerLimit)
	if err != nil {
		return nil, err
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	submitLimiter, err := newLimiter("submit", submitLimit)
	if err != nil {
		return nil, err
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	maxUpload := cfg.MaxPhotoUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	s := &Server{
		app:             cfg.App,
		mux:             http.NewServeMux(),
		maxUploadBytes:  maxUpload,
		trustedProxies:  trusted,
		registerLimiter: registerLimiter,
		loginLimiter:    loginLimiter,
		submitLimiter:   submitLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// account
	s.mux.HandleFunc("/account/register", s.handleRegister)
	s.mux.HandleFunc("/account/login", s.handleLogin)
	s.mux.Handle("/account/logout", s.authenticated(s.handleLogout))
	s.mux.Handle("/account/me", s.authenticated(s.handleMe))

	// admin
	s.mux.Handle("/admin/accounts/", s.adminOnly(s.handleAdminAccountByID))

	// inventory
	s.mux.HandleFunc("/inventory/classifications", s.handleClassifications)
	s.mux.HandleFunc("/inventory/type/", s.handleClassificationVehicles)
	s.mux.HandleFunc("/inventory/detail/", s.handleVehicleDetail)
	s.mux.HandleFunc("/inventory", s.handleVehicles)
	s.mux.HandleFunc("/inventory/", s.handleVehicleByID)

	// inquiries
	s.mux.Handle("/inquiry/vehicle/", s.authenticated(s.handleInquiryForm))
	s.mux.Handle("/inquiry/submit", s.authenticated(s.handleInquirySubmit))
	s.mux.Handle("/inquiry/my-inquiries", s.authenticated(s.handleMyInquiries))
	s.mux.Handle("/inquiry/detail/", s.authenticated(s.handleInquiryDetail))
	s.mux.Handle("/inquiry/inbox", s.employeeOnly(s.handleInquiryInbox))
	s.mux.Handle("/inquiry/respond/", s.employeeOnly(s.handleInquiryResponseForm))
	s.mux.Handle("/inquiry/respond", s.employeeOnly(s.handleInquiryRespond))
	s.mux.Handle("/inquiry/update-status", s.employeeOnly(s.handleInquiryUpdateStatus))
	s.mux.Handle("/inquiry/delete", s.employeeOnly(s.handleInquiryDelete))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.Account)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.authorize(r)
		if !ok {
			s.audit(r, "account.authorize", "fail")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, account)
	})
}

func (s *Server) employeeOnly(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.authorize(r)
		if !ok {
			s.audit(r, "account.authorize", "fail")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !account.Role.CanManage() {
			s.audit(r, "account.authorize", "fail", "account_id", account.ID, "reason", "forbidden")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, account)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := s.authorize(r)
		if !ok {
			s.audit(r, "admin.authorize", "fail")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if account.Role != domain.RoleAdmin {
			s.audit(r, "admin.authorize", "fail", "account_id", account.ID, "reason", "forbidden")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, account)
	})
}

func (s *Server) authorize(r *http.Request) (domain.Account, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.Account{}, false
	}
	account, ok, err := s.app.AccountByToken(token)
	if err != nil {
		slog.Error("session lookup failed", "error", err)
		return domain.Account{}, false
	}
	return account, ok
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", false
	}
	return authHeader[len(prefix):], true
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r, s.trustedProxies),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + util.ClientIP(r, s.trustedProxies)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors echoes the submitted values next to the per-field
// messages so the caller can re-render the form with input preserved.
func writeFieldErrors(w http.ResponseWriter, fields validate.FieldErrors, submitted any) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":       "validation failed",
		"fieldErrors": fields,
		"submitted":   submitted,
	})
}

// writeAppError maps workflow errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrClassificationNotFound),
		errors.Is(err, app.ErrVehicleNotFound),
		errors.Is(err, app.ErrInquiryNotFound),
		errors.Is(err, app.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInquiryForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrInquiryClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrPhotoNotStored):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
