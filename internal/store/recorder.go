// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package store

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/plugin"
)

// Compile-time interface check.
var _ event.Listener = (*Recorder)(nil)

// Recorder subscribes to plugins-loaded events and appends one audit
// record per loaded plugin. An append failure propagates, which fails the
// load pass that published the event.
type Recorder struct {
	log *PluginEventLog
}

// NewRecorder creates a recorder writing to the given log.
func NewRecorder(log *PluginEventLog) *Recorder {
	return &Recorder{log: log}
}

// EventType implements event.Listener.
func (r *Recorder) EventType() string {
	return event.TypePluginsLoaded
}

// OnEvent implements event.Listener.
func (r *Recorder) OnEvent(ctx context.Context, e *event.Event) error {
	loaded, ok := e.Data.([]*plugin.Plugin)
	if !ok {
		return oops.With("event_id", e.ID.String()).
			Errorf("unexpected plugins-loaded payload %T", e.Data)
	}

	for _, p := range loaded {
		rec := LoadRecord{
			ID:          ulid.Make(),
			EventID:     e.ID,
			PluginID:    p.ID(),
			Name:        p.Name,
			Version:     p.Version,
			Status:      string(p.Status),
			RendererIDs: p.RendererIDs,
			LoadedAt:    e.Timestamp,
		}
		if err := r.log.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
