// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the entry capacity of the default memory cache. The
// registry itself only ever stores one entry; the headroom is for other
// cache users sharing the instance.
const DefaultSize = 1024

// Compile-time interface check.
var _ Cache = (*Memory)(nil)

// Memory is an LRU-evicting in-memory cache.
type Memory struct {
	c *lru.Cache[string, any]
}

// NewMemory creates a memory cache with the given entry capacity.
func NewMemory(size int) (*Memory, error) {
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &Memory{c: c}, nil
}

// Get implements Cache.
func (m *Memory) Get(key string) (any, bool) {
	return m.c.Get(key)
}

// Put implements Cache.
func (m *Memory) Put(key string, value any) {
	m.c.Add(key, value)
}

// Remove drops a key. Used by operators (and tests) to force the next
// query to rebuild from disk.
func (m *Memory) Remove(key string) {
	m.c.Remove(key)
}
