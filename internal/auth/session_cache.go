package auth

import (
	"sync"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// sessionCache はセッションIDからユーザーへのTTL付きインメモリキャッシュ。
// GetCurrentUserのDB参照を減らすために使用する。
type sessionCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedUser
	ttl     time.Duration
	maxSize int
}

type cachedUser struct {
	user     *model.User
	cachedAt time.Time
}

func newSessionCache(ttl time.Duration) *sessionCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &sessionCache{
		entries: make(map[string]*cachedUser),
		ttl:     ttl,
		maxSize: 500,
	}
}

func (c *sessionCache) get(sessionID string) *model.User {
	c.mu.RLock()
	entry, ok := c.entries[sessionID]
	c.mu.RUnlock()

	if !ok {
		return nil
	}
	if time.Since(entry.cachedAt) > c.ttl {
		c.delete(sessionID)
		return nil
	}
	return entry.user
}

func (c *sessionCache) set(sessionID string, user *model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 上限到達時は適当な1件を追い出す
	if len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}

	c.entries[sessionID] = &cachedUser{user: user, cachedAt: time.Now()}
}

func (c *sessionCache) delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
}

func (c *sessionCache) deleteUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, entry := range c.entries {
		if entry.user.ID == userID {
			delete(c.entries, id)
		}
	}
}
