// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package event provides the synchronous event bus used by the plugin subsystem.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TypePluginsLoaded is published after a load pass with the plugins
// successfully loaded in that pass as the payload.
const TypePluginsLoaded = "pluginLoadedEvt"

// Event is a typed notification with an opaque payload.
type Event struct {
	ID        ulid.ULID
	Type      string
	Timestamp time.Time
	Data      any
}

// New creates an event with a fresh ID and the current time.
func New(eventType string, data any) *Event {
	return &Event{
		ID:        ulid.Make(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Listener handles events of a single type.
type Listener interface {
	// EventType returns the event type this listener subscribes to.
	EventType() string
	// OnEvent handles one event. An error aborts synchronous publication.
	OnEvent(ctx context.Context, e *Event) error
}

// FuncListener adapts a function to the Listener interface.
type FuncListener struct {
	eventType string
	fn        func(context.Context, *Event) error
}

// NewFuncListener creates a listener that invokes fn for events of eventType.
func NewFuncListener(eventType string, fn func(context.Context, *Event) error) *FuncListener {
	return &FuncListener{eventType: eventType, fn: fn}
}

// EventType returns the subscribed event type.
func (l *FuncListener) EventType() string { return l.eventType }

// OnEvent invokes the wrapped function.
func (l *FuncListener) OnEvent(ctx context.Context, e *Event) error { return l.fn(ctx, e) }

// Bus dispatches events to registered listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Listener)}
}

// Register adds a listener for its declared event type.
func (b *Bus) Register(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[l.EventType()] = append(b.listeners[l.EventType()], l)
}

// PublishSync delivers e to every listener of e.Type in registration order
// and does not return until all have processed it. The first listener error
// aborts delivery to the remaining listeners.
func (b *Bus) PublishSync(ctx context.Context, e *Event) error {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners[e.Type]))
	copy(listeners, b.listeners[e.Type])
	b.mu.RUnlock()

	for _, l := range listeners {
		if err := l.OnEvent(ctx, e); err != nil {
			return oops.Code("EVENT_PUBLISH_FAILED").
				With("event_type", e.Type).
				With("event_id", e.ID.String()).
				Wrap(err)
		}
	}
	return nil
}
