//go:build !wasm

package customer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tinywasm/customer/internal/logger"
)

const maxRequestBytes = 64 << 10

// HandlerConfig tunes the auth HTTP handler.
type HandlerConfig struct {
	RateLimit  rate.Limit // sign-in and sign-up requests per second per IP, default: 1
	RateBurst  int        // default: 5
	TrustProxy bool       // take the client IP from X-Forwarded-For / X-Real-IP
}

// AuthHandler serves the subset of the GoTrue API that GoTrueClient uses,
// backed by a LocalProvider.
type AuthHandler struct {
	provider *LocalProvider
	cfg      HandlerConfig
	limiter  *rateLimiter
	mux      *http.ServeMux
}

func NewAuthHandler(p *LocalProvider, cfg HandlerConfig) *AuthHandler {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 5
	}
	h := &AuthHandler{
		provider: p,
		cfg:      cfg,
		limiter:  newRateLimiter(cfg.RateLimit, cfg.RateBurst),
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("POST "+tokenPath, h.limited(h.token))
	h.mux.HandleFunc("POST "+signupPath, h.limited(h.signup))
	h.mux.HandleFunc("GET "+userPath, h.user)
	h.mux.HandleFunc("POST "+logoutPath, h.logout)
	return h
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := extractClientIP(r, h.cfg.TrustProxy)
	ctx := logger.WithKV(r.Context(), "ip", ip, "path", r.URL.Path)
	ctx = WithClient(ctx, ip, r.UserAgent())
	h.mux.ServeHTTP(w, r.WithContext(ctx))
}

func (h *AuthHandler) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.allow(clientFrom(r.Context()).ip) {
			h.fail(w, r, ErrRateLimited)
			return
		}
		next(w, r)
	}
}

func (h *AuthHandler) token(w http.ResponseWriter, r *http.Request) {
	if gt := r.URL.Query().Get("grant_type"); gt != "password" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: http.StatusBadRequest, ErrorCode: "unsupported_grant_type", Msg: "unsupported grant_type " + gt,
		})
		return
	}

	var creds Credentials
	if err := decodeJSON(r, &creds); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := LoginModule.SignIn(r.Context(), h.provider, creds)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.Infof(r.Context(), "signed in %s", hideEmail(creds.Email))
	writeJSON(w, http.StatusOK, tokenResponseFor(sess))
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	creds := Credentials{Email: strings.TrimSpace(req.Email), Password: req.Password}

	sess, err := h.provider.SignUp(r.Context(), creds, req.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.Infof(r.Context(), "signed up %s (confirmed: %t)", hideEmail(creds.Email), sess != nil)

	if sess == nil {
		u, err := GetUserByEmail(creds.Email)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, signupResponse{wireUser: wireUserFor(u)})
		return
	}
	writeJSON(w, http.StatusOK, signupResponse{tokenResponse: tokenResponseFor(sess)})
}

func (h *AuthHandler) user(w http.ResponseWriter, r *http.Request) {
	u, err := h.provider.User(r.Context(), bearer(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wireUserFor(u))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.SignOut(r.Context(), bearer(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	pe := providerError(err)
	if pe.Status >= http.StatusInternalServerError {
		logger.Errorf(r.Context(), "auth request failed: %v", err)
	} else {
		logger.Debugf(r.Context(), "auth request rejected: %v", err)
	}
	writeJSON(w, pe.Status, errorResponse{Code: pe.Status, ErrorCode: pe.Code, Msg: pe.Message})
}

func bearer(r *http.Request) string {
	const prefix = "bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidForm, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func tokenResponseFor(s *Session) tokenResponse {
	u := wireUserFor(s.User)
	return tokenResponse{
		AccessToken:  s.Token.AccessToken,
		TokenType:    s.Token.TokenType,
		ExpiresIn:    int64(time.Until(s.Token.Expiry).Seconds()),
		ExpiresAt:    s.Token.Expiry.Unix(),
		RefreshToken: s.Token.RefreshToken,
		User:         &u,
	}
}

func wireUserFor(u User) wireUser {
	return wireUser{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		CreatedAt:    time.Unix(u.CreatedAt, 0).UTC(),
		UserMetadata: &Profile{Name: u.Name, Phone: u.Phone, Address: u.Address},
	}
}
