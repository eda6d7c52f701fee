package customer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/tinywasm/customer/internal/transport"
)

const (
	tokenPath  = "/auth/v1/token"
	signupPath = "/auth/v1/signup"
	userPath   = "/auth/v1/user"
	logoutPath = "/auth/v1/logout"

	maxResponseBytes = 1 << 20
)

// GoTrueClient talks to a Supabase-compatible auth service.
type GoTrueClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Provider = (*GoTrueClient)(nil)

type ClientOption func(*GoTrueClient)

// WithHTTPClient replaces the default client; its transport is used as is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GoTrueClient) { c.http = hc }
}

func NewGoTrueClient(baseURL, apiKey string, opts ...ClientOption) *GoTrueClient {
	c := &GoTrueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Transport: transport.NewLogTransport(http.DefaultTransport, 0),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wire shapes shared with the local handler.
type wireUser struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UserMetadata *Profile  `json:"user_metadata,omitempty"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *wireUser `json:"user,omitempty"`
}

// signupResponse is a session when the account is confirmed right away and a
// bare user object otherwise.
type signupResponse struct {
	tokenResponse
	wireUser
}

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Data     Profile `json:"data"`
}

type errorResponse struct {
	Code        int    `json:"code,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
	Msg         string `json:"msg,omitempty"`
	Error       string `json:"error,omitempty"`
	Description string `json:"error_description,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (c *GoTrueClient) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	var out tokenResponse
	if err := c.do(ctx, c.http, http.MethodPost, tokenPath+"?grant_type=password", creds, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *GoTrueClient) SignUp(ctx context.Context, creds Credentials, profile Profile) (*Session, error) {
	var out signupResponse
	req := signupRequest{Email: creds.Email, Password: creds.Password, Data: profile}
	if err := c.do(ctx, c.http, http.MethodPost, signupPath, req, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

// User fetches the account behind tok.
func (c *GoTrueClient) User(ctx context.Context, tok *oauth2.Token) (User, error) {
	var out wireUser
	if err := c.do(ctx, c.bearerClient(ctx, tok), http.MethodGet, userPath, nil, &out); err != nil {
		return User{}, err
	}
	return out.user(), nil
}

// SignOut revokes the session behind tok.
func (c *GoTrueClient) SignOut(ctx context.Context, tok *oauth2.Token) error {
	return c.do(ctx, c.bearerClient(ctx, tok), http.MethodPost, logoutPath, nil, nil)
}

func (c *GoTrueClient) bearerClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
}

func (c *GoTrueClient) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if hc == c.http {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("auth request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("auth response %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseProviderError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("auth response %s: %w", path, err)
	}
	return nil
}

func parseProviderError(status int, raw []byte) *ProviderError {
	pe := &ProviderError{Status: status}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		pe.Code = firstNonEmpty(e.ErrorCode, e.Error)
		pe.Message = firstNonEmpty(e.Msg, e.Description, e.Message)
	}
	if pe.Message == "" {
		pe.Message = http.StatusText(status)
	}
	return pe
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r tokenResponse) session() *Session {
	if r.AccessToken == "" {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}
	switch {
	case r.ExpiresAt > 0:
		tok.Expiry = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		tok.Expiry = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	s := &Session{Token: tok}
	if r.User != nil {
		s.User = r.User.user()
	}
	return s
}

func (u wireUser) user() User {
	out := User{ID: u.ID, Email: u.Email, Phone: u.Phone, Status: "active"}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = u.CreatedAt.Unix()
	}
	if u.UserMetadata != nil {
		out.Name = u.UserMetadata.Name
		out.Address = u.UserMetadata.Address
		if out.Phone == "" {
			out.Phone = u.UserMetadata.Phone
		}
	}
	return out
}
