//go:build !wasm

package customer

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// accessClaims mirror what a GoTrue access token carries.
type accessClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
}

// IssueToken signs an access token bound to sess.
func IssueToken(sess SessionRecord, u User) (*oauth2.Token, error) {
	expiry := time.Unix(sess.ExpiresAt, 0)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    store.config.Issuer,
			Subject:   u.ID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(time.Unix(sess.CreatedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Email:     u.Email,
		SessionID: sess.ID,
		Role:      "authenticated",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(store.config.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  signed,
		TokenType:    "bearer",
		RefreshToken: sess.ID,
		Expiry:       expiry,
	}, nil
}

// VerifyAccessToken checks the signature and that the session behind the
// token is still alive and belongs to an active account.
func VerifyAccessToken(raw string) (SessionRecord, User, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return store.config.JWTSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(store.config.Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionRecord{}, User{}, ErrSessionExpired
		}
		return SessionRecord{}, User{}, ErrInvalidToken
	}

	sess, err := GetSession(claims.SessionID)
	if err != nil {
		return SessionRecord{}, User{}, err
	}
	if sess.UserID != claims.Subject {
		return SessionRecord{}, User{}, ErrInvalidToken
	}
	u, err := GetUser(sess.UserID)
	if err != nil {
		return SessionRecord{}, User{}, err
	}
	if u.Status != statusActive {
		return SessionRecord{}, User{}, ErrSuspended
	}
	return sess, u, nil
}
