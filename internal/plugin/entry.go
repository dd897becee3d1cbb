// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package plugin

import "context"

// DefaultEntryType is the entry-point type name assumed when a descriptor
// does not declare one.
const DefaultEntryType = "NotInteractivePlugin"

// RenderContext carries the view being rendered and its data model to
// entry-point hooks.
type RenderContext struct {
	View string
	Data map[string]any
}

// EntryPoint is the behavior contract of an instantiated plugin. The view
// layer invokes the hooks around template rendering.
type EntryPoint interface {
	// PreRender runs before the view template is evaluated.
	PreRender(ctx context.Context, rc *RenderContext) error
	// PostRender runs after the view template has been evaluated.
	PostRender(ctx context.Context, rc *RenderContext) error
}

// NotInteractive is the built-in no-op entry point used for plugins that
// only contribute templates or static assets.
type NotInteractive struct{}

// PreRender implements EntryPoint as a no-op.
func (NotInteractive) PreRender(context.Context, *RenderContext) error { return nil }

// PostRender implements EntryPoint as a no-op.
func (NotInteractive) PostRender(context.Context, *RenderContext) error { return nil }
