// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package plugin

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/plugboard/plugboard/internal/event"
)

// ErrUnknownType is returned by a Resolver that does not recognize the
// requested type name. A Resolvers chain moves on to the next resolver;
// anything else aborts resolution.
var ErrUnknownType = errors.New("unknown type name")

// Resolver instantiates entry points and event listeners by type name.
// locations are the unit's code directories, searched in order by
// resolvers that load code from disk.
type Resolver interface {
	Resolve(ctx context.Context, locations []string, typeName string) (EntryPoint, error)
	ResolveListener(ctx context.Context, locations []string, typeName string) (event.Listener, error)
}

// Resolvers chains resolvers, trying each in order until one recognizes
// the type name.
type Resolvers []Resolver

// Resolve implements Resolver.
func (rs Resolvers) Resolve(ctx context.Context, locations []string, typeName string) (EntryPoint, error) {
	for _, r := range rs {
		ep, err := r.Resolve(ctx, locations, typeName)
		if errors.Is(err, ErrUnknownType) {
			continue
		}
		return ep, err
	}
	return nil, oops.With("type_name", typeName).Wrap(ErrUnknownType)
}

// ResolveListener implements Resolver.
func (rs Resolvers) ResolveListener(ctx context.Context, locations []string, typeName string) (event.Listener, error) {
	for _, r := range rs {
		l, err := r.ResolveListener(ctx, locations, typeName)
		if errors.Is(err, ErrUnknownType) {
			continue
		}
		return l, err
	}
	return nil, oops.With("type_name", typeName).Wrap(ErrUnknownType)
}
