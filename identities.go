//go:build !wasm

package customer

import (
	"database/sql"
	"errors"
	"time"
)

const localProvider = "local"

type Identity struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

func CreateIdentity(userID, provider, providerID, email string) error {
	id, err := newID()
	if err != nil {
		return err
	}

	return store.exec.Exec(
		`INSERT INTO user_identities (id, user_id, provider, provider_id, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, provider, providerID, nullableStr(email), time.Now().Unix(),
	)
}

func getIdentityByUserAndProvider(userID, provider string) (Identity, error) {
	var i Identity
	err := store.exec.QueryRow(
		"SELECT id, user_id, provider, provider_id, COALESCE(email, ''), created_at FROM user_identities WHERE user_id = ? AND provider = ?",
		userID, provider,
	).Scan(&i.ID, &i.UserID, &i.Provider, &i.ProviderID, &i.Email, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return i, nil
}

func upsertIdentity(userID, provider, providerID, email string) error {
	_, err := getIdentityByUserAndProvider(userID, provider)
	switch {
	case err == nil:
		return store.exec.Exec("UPDATE user_identities SET provider_id = ?, email = ? WHERE user_id = ? AND provider = ?", providerID, nullableStr(email), userID, provider)
	case errors.Is(err, ErrNotFound):
		return CreateIdentity(userID, provider, providerID, email)
	default:
		return err
	}
}
