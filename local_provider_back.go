//go:build !wasm

package customer

import (
	"context"
	"errors"
)

type clientKey struct{}

type clientInfo struct {
	ip        string
	userAgent string
}

// WithClient records where a request came from; sessions created under ctx
// keep it.
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientKey{}, clientInfo{ip: ip, userAgent: userAgent})
}

func clientFrom(ctx context.Context) clientInfo {
	c, _ := ctx.Value(clientKey{}).(clientInfo)
	return c
}

// LocalProvider serves the Provider contract from the package store. Errors
// are *ProviderError wrapping the package sentinels.
type LocalProvider struct{}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (p *LocalProvider) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	u, err := Login(creds.Email, creds.Password)
	if err != nil {
		return nil, asProviderError(err)
	}
	s, err := p.openSession(ctx, u)
	return s, asProviderError(err)
}

// SignUp creates the account. With StoreConfig.ConfirmEmail the account is
// pending and no session is returned.
func (p *LocalProvider) SignUp(ctx context.Context, creds Credentials, profile Profile) (*Session, error) {
	if err := validateSignup(creds, profile); err != nil {
		return nil, asProviderError(err)
	}

	status := statusActive
	if store.config.ConfirmEmail {
		status = statusPending
	}
	u, err := CreateUser(creds.Email, profile, status)
	if err != nil {
		return nil, asProviderError(err)
	}
	if err := SetPassword(u.ID, creds.Password); err != nil {
		return nil, asProviderError(errors.Join(err, DeleteUser(u.ID)))
	}
	if status == statusPending {
		return nil, nil
	}
	s, err := p.openSession(ctx, u)
	return s, asProviderError(err)
}

// SignOut deletes the session behind an access token.
func (p *LocalProvider) SignOut(ctx context.Context, accessToken string) error {
	sess, _, err := VerifyAccessToken(accessToken)
	if err != nil {
		return asProviderError(err)
	}
	return asProviderError(DeleteSession(sess.ID))
}

// User returns the account behind an access token.
func (p *LocalProvider) User(ctx context.Context, accessToken string) (User, error) {
	_, u, err := VerifyAccessToken(accessToken)
	if err != nil {
		return User{}, asProviderError(err)
	}
	return u, nil
}

func (p *LocalProvider) openSession(ctx context.Context, u User) (*Session, error) {
	client := clientFrom(ctx)
	rec, err := CreateSession(u.ID, client.ip, client.userAgent)
	if err != nil {
		return nil, err
	}
	tok, err := IssueToken(rec, u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: u}, nil
}

// validateSignup mirrors the checks the signup form runs in the browser.
func validateSignup(creds Credentials, profile Profile) error {
	for _, v := range []string{profile.Name, creds.Email, creds.Password, profile.Phone, profile.Address} {
		if isBlank(v) {
			return ErrInvalidForm
		}
	}
	if !ValidateEmail(creds.Email) {
		return ErrInvalidEmail
	}
	if !ValidatePhone(profile.Phone) {
		return ErrInvalidPhone
	}
	return checkPassword(creds.Password)
}
