// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package plugin

import "github.com/samber/oops"

// Type is a declared category of extension behavior. The set is closed;
// descriptors naming anything else fail to load.
type Type string

// Known capability types.
const (
	TypeInteract Type = "interact"
	TypeRender   Type = "render"
	TypeWidget   Type = "widget"
	TypeFilter   Type = "filter"
)

// ParseType resolves a descriptor token against the known capability
// types. Unknown tokens fail the whole unit load.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeInteract, TypeRender, TypeWidget, TypeFilter:
		return Type(s), nil
	default:
		return "", oops.Code("UNKNOWN_PLUGIN_TYPE").
			With("type", s).
			Errorf("unknown capability type %q", s)
	}
}
