//go:build !wasm

package customer

import (
	"database/sql"
	"errors"
	"time"
)

// SessionRecord is a server-side login session. Access tokens point at it,
// so deleting the record revokes them.
type SessionRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func CreateSession(userID, ip, userAgent string) (SessionRecord, error) {
	id, err := newID()
	if err != nil {
		return SessionRecord{}, err
	}

	now := time.Now().Unix()
	sess := SessionRecord{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now + int64(store.config.SessionTTL),
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
	}

	if err := store.exec.Exec(
		`INSERT INTO user_sessions (id, user_id, expires_at, ip, user_agent, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.ExpiresAt, sess.IP, sess.UserAgent, sess.CreatedAt,
	); err != nil {
		return SessionRecord{}, err
	}
	store.cache.set(sess.ID, sess)
	return sess, nil
}

func GetSession(id string) (SessionRecord, error) {
	if s, ok := store.cache.get(id); ok {
		if s.ExpiresAt < time.Now().Unix() {
			store.cache.delete(id)
			return SessionRecord{}, ErrSessionExpired
		}
		return s, nil
	}

	var s SessionRecord
	err := store.exec.QueryRow(
		"SELECT id, user_id, expires_at, COALESCE(ip, ''), COALESCE(user_agent, ''), created_at FROM user_sessions WHERE id = ?",
		id,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.IP, &s.UserAgent, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionRecord{}, ErrNotFound
		}
		return SessionRecord{}, err
	}

	if s.ExpiresAt < time.Now().Unix() {
		return SessionRecord{}, ErrSessionExpired
	}

	store.cache.set(s.ID, s)
	return s, nil
}

func DeleteSession(id string) error {
	store.cache.delete(id)
	return store.exec.Exec("DELETE FROM user_sessions WHERE id = ?", id)
}

func PurgeExpiredSessions() error {
	now := time.Now().Unix()
	store.cache.purge(now)
	return store.exec.Exec("DELETE FROM user_sessions WHERE expires_at < ?", now)
}
