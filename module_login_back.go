//go:build !wasm

package customer

import (
	"context"
	"errors"

	"github.com/tinywasm/customer/internal/logger"
)

// SignIn checks the payload against the login form rules, then signs in
// through p. Client details carried by ctx reach the session record.
func (m *loginModule) SignIn(ctx context.Context, p Provider, creds Credentials) (*Session, error) {
	ctx = logger.WithKV(ctx, "module", m.HandlerName())
	if isBlank(creds.Email) || isBlank(creds.Password) {
		return nil, ErrInvalidForm
	}
	if err := m.ValidateData(actionCreate, &LoginData{Email: creds.Email, Password: creds.Password}); err != nil {
		logger.Debugf(ctx, "login form rejected: %v", err)
		return nil, errors.Join(ErrInvalidForm, err)
	}
	return p.SignIn(ctx, creds)
}
