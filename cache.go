//go:build !wasm

package customer

import (
	"sync"
	"time"
)

type sessionCache struct {
	mu    sync.RWMutex
	items map[string]SessionRecord
}

func newSessionCache() *sessionCache {
	return &sessionCache{
		items: make(map[string]SessionRecord),
	}
}

func (c *sessionCache) warmUp(exec Executor) error {
	rows, err := exec.Query("SELECT id, user_id, expires_at, COALESCE(ip, ''), COALESCE(user_agent, ''), created_at FROM user_sessions WHERE expires_at > ?", time.Now().Unix())
	if err != nil {
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	for rows.Next() {
		var s SessionRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.IP, &s.UserAgent, &s.CreatedAt); err != nil {
			return err
		}
		c.items[s.ID] = s
	}
	return rows.Err()
}

func (c *sessionCache) set(id string, s SessionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = s
}

func (c *sessionCache) get(id string) (SessionRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.items[id]
	return s, ok
}

func (c *sessionCache) delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}

func (c *sessionCache) deleteUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if v.UserID == userID {
			delete(c.items, k)
		}
	}
}

func (c *sessionCache) purge(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.items {
		if v.ExpiresAt < now {
			delete(c.items, k)
		}
	}
}
