// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package cache defines the key/value cache contract the registry reads
// through, plus the default in-memory implementation.
package cache

// Cache is the minimal contract the registry needs. Eviction policy is
// the implementation's business; an evicted registry entry just forces a
// full reload on the next query, which is the designed recovery path.
type Cache interface {
	// Get returns the value stored under key, or false when absent.
	Get(key string) (any, bool)
	// Put stores value under key, replacing any previous value.
	Put(key string, value any)
}
