// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package plugin

import (
	"context"
	"sync"

	"github.com/plugboard/plugboard/internal/event"
)

// Compile-time interface check.
var _ Resolver = (*Builtin)(nil)

// Builtin resolves type names against a registration map of constructor
// functions. Compiled-in plugins and listeners register themselves here,
// typically from an init function; there is no runtime code loading.
type Builtin struct {
	mu        sync.RWMutex
	entries   map[string]func() EntryPoint
	listeners map[string]func() event.Listener
}

// NewBuiltin creates a Builtin with the default no-op entry type
// pre-registered.
func NewBuiltin() *Builtin {
	b := &Builtin{
		entries:   make(map[string]func() EntryPoint),
		listeners: make(map[string]func() event.Listener),
	}
	b.RegisterEntry(DefaultEntryType, func() EntryPoint { return NotInteractive{} })
	return b
}

// RegisterEntry binds an entry-point constructor to a type name.
// Re-registration replaces the previous constructor.
func (b *Builtin) RegisterEntry(name string, ctor func() EntryPoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[name] = ctor
}

// RegisterListener binds a listener constructor to a type name.
func (b *Builtin) RegisterListener(name string, ctor func() event.Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = ctor
}

// Resolve implements Resolver. Code locations are ignored; builtin
// plugins are compiled into the binary.
func (b *Builtin) Resolve(_ context.Context, _ []string, typeName string) (EntryPoint, error) {
	b.mu.RLock()
	ctor, ok := b.entries[typeName]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownType
	}
	return ctor(), nil
}

// ResolveListener implements Resolver.
func (b *Builtin) ResolveListener(_ context.Context, _ []string, typeName string) (event.Listener, error) {
	b.mu.RLock()
	ctor, ok := b.listeners[typeName]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownType
	}
	return ctor(), nil
}
