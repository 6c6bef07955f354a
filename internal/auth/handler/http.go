// Package handler exposes the session manager over RPC-style JSON endpoints.
// Clients present the access token as a Bearer credential; the cookie layer
// of the web frontend calls the same endpoints and manages cookies itself.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"event-platform/identity/internal/auth/service"
	userdomain "event-platform/identity/internal/user/domain"
)

// AuthHandler adapts SessionManager operations to HTTP.
type AuthHandler struct {
	manager *service.SessionManager
}

// NewAuthHandler returns an AuthHandler backed by manager.
func NewAuthHandler(manager *service.SessionManager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Mount registers the auth routes on r.
func (h *AuthHandler) Mount(r chi.Router) {
	r.Post("/signup", h.SignUp)
	r.Post("/signin", h.SignIn)
	r.Post("/signout", h.SignOut)
	r.Post("/refresh", h.Refresh)
	r.Get("/me", h.Me)
	r.Get("/verify", h.Verify)
	r.Post("/verify-email", h.VerifyEmail)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// sessionResponse carries the token pair. Expiry is epoch milliseconds, part
// of the client contract.
type sessionResponse struct {
	UserID               string                 `json:"userId"`
	SessionID            string                 `json:"sessionId"`
	AccessToken          string                 `json:"accessToken"`
	RefreshToken         string                 `json:"refreshToken"`
	AccessTokenExpiresAt int64                  `json:"accessTokenExpiresAt"`
	User                 *userdomain.PublicUser `json:"user"`
}

type verifyResponse struct {
	Valid        bool   `json:"valid"`
	NeedsRefresh bool   `json:"needsRefresh"`
	UserID       string `json:"userId,omitempty"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Rules    []string `json:"rules,omitempty"`
	Strength string   `json:"strength,omitempty"`
}

// SignUp handles POST /v1/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	res, err := h.manager.SignUp(r.Context(), req.Email, req.Password, req.Name, provenance(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(res))
}

// SignIn handles POST /v1/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	res, err := h.manager.SignIn(r.Context(), req.Email, req.Password, provenance(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(res))
}

// SignOut handles POST /v1/auth/signout. Always succeeds; signing out an
// unknown token is a no-op.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	res, err := h.manager.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(res))
}

// Me handles GET /v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.manager.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no valid session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Verify handles GET /v1/auth/verify, the lightweight session check.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.manager.VerifySession(r.Context(), bearerToken(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: v.Valid, NeedsRefresh: v.NeedsRefresh, UserID: v.UserID})
}

// VerifyEmail handles POST /v1/auth/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	if err := h.manager.VerifyEmail(r.Context(), req.Token); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toSessionResponse(res *service.AuthResult) sessionResponse {
	return sessionResponse{
		UserID:               res.UserID,
		SessionID:            res.SessionID,
		AccessToken:          res.AccessToken,
		RefreshToken:         res.RefreshToken,
		AccessTokenExpiresAt: res.AccessTokenExpiresAt.UnixMilli(),
		User:                 res.User,
	}
}

// writeServiceError maps each service error kind to a stable HTTP status and
// machine-readable code.
func writeServiceError(w http.ResponseWriter, err error) {
	var weak *service.WeakPasswordError
	if errors.As(err, &weak) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:    "weak_password",
			Message:  weak.Error(),
			Rules:    weak.Rules,
			Strength: string(weak.Strength),
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrExternalProvider):
		writeError(w, http.StatusConflict, "external_provider", err.Error())
	case errors.Is(err, service.ErrAccountSuspended):
		writeError(w, http.StatusForbidden, "account_suspended", err.Error())
	case errors.Is(err, service.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "token_expired", err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "user_not_found", err.Error())
	default:
		log.Printf("auth handler: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("auth handler: write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// provenance pulls the optional session metadata from the request.
func provenance(r *http.Request) service.Provenance {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		ip = strings.TrimSpace(ip)
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	} else {
		ip = r.RemoteAddr
	}
	return service.Provenance{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
