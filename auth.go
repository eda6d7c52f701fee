//go:build !wasm

package customer

import (
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var PasswordHashCost = bcrypt.DefaultCost

func Login(email, password string) (User, error) {
	u, err := GetUserByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	identity, err := getLocalIdentity(u.ID)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.ProviderID), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	switch u.Status {
	case statusSuspended:
		return User{}, ErrSuspended
	case statusPending:
		return User{}, ErrNotConfirmed
	}
	return u, nil
}

func getLocalIdentity(userID string) (Identity, error) {
	return getIdentityByUserAndProvider(userID, localProvider)
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func SetPassword(userID, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return err
	}
	u, err := GetUser(userID)
	if err != nil {
		return err
	}
	return upsertIdentity(userID, localProvider, string(hash), u.Email)
}

func VerifyPassword(userID, password string) error {
	identity, err := getLocalIdentity(userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.ProviderID), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
