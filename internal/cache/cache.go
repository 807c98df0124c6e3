// Package cache holds the client-side mirror of the remote store. It is
// the single source of truth every view derives from, and it changes only
// through the transition methods below.
package cache

import (
	"sync"

	"choreboard/internal/model"
)

// Cache is the in-memory state {chores, users, loading, error}. Each
// transition is total and applied atomically; none of them can fail.
type Cache struct {
	mu      sync.RWMutex
	chores  []model.Chore
	users   []model.User
	loading bool
	errMsg  string
}

func New() *Cache {
	return &Cache{}
}

func (c *Cache) SetLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

// SetError records a single human-readable message, overwriting any prior
// one. The empty string clears it.
func (c *Cache) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}

// SetChores replaces the chore list wholesale.
func (c *Cache) SetChores(chores []model.Chore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chores = append([]model.Chore(nil), chores...)
}

// SetUsers replaces the user list wholesale.
func (c *Cache) SetUsers(users []model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append([]model.User(nil), users...)
}

// AddChore appends a chore. Ids are unique in the cache: if the id is
// already present the existing entry is replaced instead.
func (c *Cache) AddChore(chore model.Chore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chores {
		if c.chores[i].ID == chore.ID {
			c.chores[i] = chore
			return
		}
	}
	c.chores = append(c.chores, chore)
}

// ReplaceChore replaces the entity with a matching id wholesale. A missing
// id is silently ignored; there is no partial merge.
func (c *Cache) ReplaceChore(chore model.Chore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chores {
		if c.chores[i].ID == chore.ID {
			c.chores[i] = chore
			return
		}
	}
}

// RemoveChore removes by id; a missing id is a no-op.
func (c *Cache) RemoveChore(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chores {
		if c.chores[i].ID == id {
			c.chores = append(c.chores[:i], c.chores[i+1:]...)
			return
		}
	}
}

// Chores returns a copy of the current chore list.
func (c *Cache) Chores() []model.Chore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Chore(nil), c.chores...)
}

// Users returns a copy of the current user list.
func (c *Cache) Users() []model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.User(nil), c.users...)
}

// Chore returns the cached chore with the given id.
func (c *Cache) Chore(id int64) (model.Chore, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.chores {
		if c.chores[i].ID == id {
			return c.chores[i], true
		}
	}
	return model.Chore{}, false
}

func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the current error message, empty when none.
func (c *Cache) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}
