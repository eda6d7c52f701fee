//go:build !wasm

package customer

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tinywasm/unixid"
)

const (
	statusActive    = "active"
	statusPending   = "pending"
	statusSuspended = "suspended"

	userColumns = "id, COALESCE(email, ''), name, COALESCE(phone, ''), COALESCE(address, ''), status, created_at"
)

// nullableStr converts "" to nil so SQLite stores NULL instead of an empty string.
func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func newID() (string, error) {
	u, err := unixid.NewUnixID()
	if err != nil {
		return "", err
	}
	return u.GetNewID(), nil
}

func CreateUser(email string, p Profile, status string) (User, error) {
	id, err := newID()
	if err != nil {
		return User{}, err
	}
	if status == "" {
		status = statusActive
	}
	now := time.Now().Unix()

	if err := store.exec.Exec(
		`INSERT INTO users (id, email, name, phone, address, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nullableStr(email), p.Name, p.Phone, p.Address, status, now,
	); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return User{
		ID: id, Email: email, Name: p.Name, Phone: p.Phone, Address: p.Address,
		Status: status, CreatedAt: now,
	}, nil
}

func GetUser(id string) (User, error) {
	return scanUser(store.exec.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func GetUserByEmail(email string) (User, error) {
	return scanUser(store.exec.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

func scanUser(row Scanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Address, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// DeleteUser removes the account with its identities and sessions.
func DeleteUser(id string) error {
	store.cache.deleteUser(id)
	for _, q := range []string{
		"DELETE FROM user_sessions WHERE user_id = ?",
		"DELETE FROM user_identities WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	} {
		if err := store.exec.Exec(q, id); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmUser activates an account created while email confirmation is on.
func ConfirmUser(id string) error {
	return setStatus(id, statusActive)
}

func SuspendUser(id string) error {
	return setStatus(id, statusSuspended)
}

func ReactivateUser(id string) error {
	return setStatus(id, statusActive)
}

func setStatus(id, status string) error {
	if _, err := GetUser(id); err != nil {
		return err
	}
	return store.exec.Exec("UPDATE users SET status = ? WHERE id = ?", status, id)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint: unique") ||
		strings.Contains(err.Error(), "duplicate key")
}
