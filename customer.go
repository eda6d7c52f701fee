package customer

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Credentials exist only for the duration of one submit call.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the metadata attached to a new account.
type Profile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SignupProfile is everything the signup form collects.
type SignupProfile struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

func (p SignupProfile) Credentials() Credentials {
	return Credentials{Email: p.Email, Password: p.Password}
}

func (p SignupProfile) Profile() Profile {
	return Profile{Name: p.Name, Phone: p.Phone, Address: p.Address}
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Status    string `json:"status"` // "active", "pending", "suspended"
	CreatedAt int64  `json:"created_at"`
}

// Session is what the provider hands back after a successful sign-in.
type Session struct {
	Token *oauth2.Token
	User  User
}

// AccessToken returns the bearer token, or "" for a nil session.
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return s.Token.AccessToken
}

// Provider is the external authentication service. Provider-reported
// failures are returned as *ProviderError.
type Provider interface {
	SignIn(ctx context.Context, creds Credentials) (*Session, error)
	// SignUp may return a nil session when the account awaits confirmation.
	SignUp(ctx context.Context, creds Credentials, profile Profile) (*Session, error)
}

// Config holds the fixed values of the auth page.
type Config struct {
	RedirectURL         string        // default: "shop.html"
	TokenKey            string        // default: "token"
	SignupRedirectDelay time.Duration // default: 1500ms
	LoginTabID          string        // default: "loginTab"
	SignupTabID         string        // default: "signupTab"
}

func (c Config) withDefaults() Config {
	if c.RedirectURL == "" {
		c.RedirectURL = "shop.html"
	}
	if c.TokenKey == "" {
		c.TokenKey = "token"
	}
	if c.SignupRedirectDelay == 0 {
		c.SignupRedirectDelay = 1500 * time.Millisecond
	}
	if c.LoginTabID == "" {
		c.LoginTabID = "loginTab"
	}
	if c.SignupTabID == "" {
		c.SignupTabID = "signupTab"
	}
	return c
}
