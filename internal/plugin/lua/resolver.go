// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package lua resolves plugin entry points and event listeners from Lua
// scripts shipped inside a unit's code locations.
package lua

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/plugin"
)

// Compile-time interface check.
var _ plugin.Resolver = (*Resolver)(nil)

// scriptSuffix marks type names this resolver recognizes.
const scriptSuffix = ".lua"

// Resolver loads Lua scripts by file name. A type name ending in ".lua"
// is searched across the unit's code locations in order; anything else is
// left to the next resolver in the chain.
//
// Entry-point scripts may define pre_render(rc) and post_render(rc)
// globals. Listener scripts must define an event_type string and an
// on_event(e) function. Each invocation runs in a fresh Lua state.
type Resolver struct{}

// NewResolver creates a Lua script resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve implements plugin.Resolver.
func (r *Resolver) Resolve(ctx context.Context, locations []string, typeName string) (plugin.EntryPoint, error) {
	if !strings.HasSuffix(typeName, scriptSuffix) {
		return nil, plugin.ErrUnknownType
	}

	code, path, err := r.load(ctx, locations, typeName)
	if err != nil {
		return nil, err
	}
	return &scriptEntry{name: typeName, path: path, code: code}, nil
}

// ResolveListener implements plugin.Resolver. The script is executed once
// at resolution time to read its declared event_type.
func (r *Resolver) ResolveListener(ctx context.Context, locations []string, typeName string) (event.Listener, error) {
	if !strings.HasSuffix(typeName, scriptSuffix) {
		return nil, plugin.ErrUnknownType
	}

	code, path, err := r.load(ctx, locations, typeName)
	if err != nil {
		return nil, err
	}

	L := newState(ctx)
	defer L.Close()

	if err := L.DoString(code); err != nil {
		return nil, oops.In("lua").With("script", typeName).Hint("script error").Wrap(err)
	}

	eventType := L.GetGlobal("event_type")
	if eventType.Type() != lua.LTString {
		return nil, oops.In("lua").With("script", typeName).
			Errorf("listener script must define an event_type string")
	}
	if L.GetGlobal("on_event").Type() != lua.LTFunction {
		return nil, oops.In("lua").With("script", typeName).
			Errorf("listener script must define an on_event function")
	}

	return &scriptListener{
		name:      typeName,
		path:      path,
		code:      code,
		eventType: eventType.String(),
	}, nil
}

// load finds the script in the code locations and validates its syntax in
// a throwaway state.
func (r *Resolver) load(ctx context.Context, locations []string, typeName string) (code, path string, err error) {
	for _, loc := range locations {
		candidate := filepath.Join(loc, typeName)
		raw, readErr := os.ReadFile(filepath.Clean(candidate))
		if readErr != nil {
			continue
		}

		L := newState(ctx)
		if doErr := L.DoString(string(raw)); doErr != nil {
			L.Close()
			return "", "", oops.In("lua").With("script", typeName).With("path", candidate).
				Hint("syntax error").Wrap(doErr)
		}
		L.Close()
		return string(raw), candidate, nil
	}

	return "", "", oops.In("lua").With("script", typeName).With("locations", locations).
		Errorf("script not found in any code location")
}

// newState creates a Lua state bound to ctx.
func newState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	return L
}

// scriptEntry is a plugin entry point backed by a Lua script.
type scriptEntry struct {
	name string
	path string
	code string
}

// PreRender implements plugin.EntryPoint by calling the script's
// pre_render global, if defined.
func (s *scriptEntry) PreRender(ctx context.Context, rc *plugin.RenderContext) error {
	return s.callHook(ctx, "pre_render", rc)
}

// PostRender implements plugin.EntryPoint by calling the script's
// post_render global, if defined.
func (s *scriptEntry) PostRender(ctx context.Context, rc *plugin.RenderContext) error {
	return s.callHook(ctx, "post_render", rc)
}

// callHook runs the script in a fresh state and invokes the named hook
// with a table {view=..., data={...}}. A table returned by the hook is
// merged into the render data.
func (s *scriptEntry) callHook(ctx context.Context, hook string, rc *plugin.RenderContext) error {
	L := newState(ctx)
	defer L.Close()

	if err := L.DoString(s.code); err != nil {
		return oops.In("lua").With("script", s.name).With("hook", hook).Wrap(err)
	}

	fn := L.GetGlobal(hook)
	if fn.Type() == lua.LTNil {
		return nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, buildRenderTable(L, rc)); err != nil {
		return oops.In("lua").With("script", s.name).With("hook", hook).Wrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	mergeRenderData(ret, rc)
	return nil
}

// scriptListener is an event listener backed by a Lua script.
type scriptListener struct {
	name      string
	path      string
	code      string
	eventType string
}

// EventType implements event.Listener.
func (s *scriptListener) EventType() string { return s.eventType }

// OnEvent implements event.Listener by calling the script's on_event
// function in a fresh state.
func (s *scriptListener) OnEvent(ctx context.Context, e *event.Event) error {
	L := newState(ctx)
	defer L.Close()

	if err := L.DoString(s.code); err != nil {
		return oops.In("lua").With("script", s.name).Wrap(err)
	}

	if err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("on_event"),
		NRet:    0,
		Protect: true,
	}, buildEventTable(L, e)); err != nil {
		return oops.In("lua").With("script", s.name).With("event_type", e.Type).Wrap(err)
	}
	return nil
}

// buildRenderTable creates a Lua table from a render context.
func buildRenderTable(state *lua.LState, rc *plugin.RenderContext) *lua.LTable {
	t := state.NewTable()
	state.SetField(t, "view", lua.LString(rc.View))

	data := state.NewTable()
	for k, v := range rc.Data {
		state.SetField(data, k, toLua(v))
	}
	state.SetField(t, "data", data)
	return t
}

// buildEventTable creates a Lua table from an event. The plugins-loaded
// payload is exposed as an array of plugin tables.
func buildEventTable(state *lua.LState, e *event.Event) *lua.LTable {
	t := state.NewTable()
	state.SetField(t, "id", lua.LString(e.ID.String()))
	state.SetField(t, "type", lua.LString(e.Type))
	state.SetField(t, "timestamp", lua.LNumber(e.Timestamp.Unix()))

	if loaded, ok := e.Data.([]*plugin.Plugin); ok {
		arr := state.NewTable()
		for _, p := range loaded {
			pt := state.NewTable()
			state.SetField(pt, "id", lua.LString(p.ID()))
			state.SetField(pt, "name", lua.LString(p.Name))
			state.SetField(pt, "version", lua.LString(p.Version))
			state.SetField(pt, "status", lua.LString(string(p.Status)))
			state.SetField(pt, "dir", lua.LString(p.Dir))
			arr.Append(pt)
		}
		state.SetField(t, "plugins", arr)
	}
	return t
}

// mergeRenderData copies entries of a returned table into the render data.
func mergeRenderData(ret lua.LValue, rc *plugin.RenderContext) {
	table, ok := ret.(*lua.LTable)
	if !ok {
		return
	}

	if rc.Data == nil {
		rc.Data = make(map[string]any)
	}
	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString {
			return
		}
		rc.Data[k.String()] = fromLua(v)
	})
}

// toLua converts basic Go values for script consumption.
func toLua(v any) lua.LValue {
	switch val := v.(type) {
	case string:
		return lua.LString(val)
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	default:
		return lua.LNil
	}
}

// fromLua converts basic Lua values back to Go.
func fromLua(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	default:
		return v.String()
	}
}
