// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/plugin"
	pluginlua "github.com/plugboard/plugboard/internal/plugin/lua"
	"github.com/plugboard/plugboard/internal/registry"
)

// writeFile creates a file with parents.
func writeFile(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0o750)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
}

var _ = Describe("Plugin registry end to end", func() {
	var (
		ctx  context.Context
		root string
		mgr  *registry.Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		root = GinkgoT().TempDir()

		// A full-featured unit: Lua entry point, settings with schema,
		// a language bundle and a Lua listener.
		calendar := filepath.Join(root, "calendar")
		writeFile(filepath.Join(calendar, "plugin.properties"), `name=calendar
author=someone
version=2.1.0
rendererId=home;side
types=widget
entry=calendar.lua
listeners=audit.lua
`)
		writeFile(filepath.Join(calendar, "config.json"),
			`{"weekStart":"monday","maxEvents":25}`)
		writeFile(filepath.Join(calendar, "settings.schema.json"),
			`{"type":"object","properties":{"maxEvents":{"type":"integer"}}}`)
		writeFile(filepath.Join(calendar, "lang_en.properties"),
			"title=Calendar\n")
		writeFile(filepath.Join(calendar, "lib", "calendar.lua"), `
function pre_render(rc)
  return { heading = "calendar for " .. rc.view }
end
`)
		writeFile(filepath.Join(calendar, "lib", "audit.lua"), `
event_type = "pluginLoadedEvt"
function on_event(e)
end
`)

		// A minimal unit with no entry of its own.
		writeFile(filepath.Join(root, "clock", "plugin.properties"), `name=clock
version=1.0.0
rendererId=side
`)

		var err error
		mgr, err = registry.NewManager(root,
			registry.WithResolver(plugin.Resolvers{plugin.NewBuiltin(), pluginlua.NewResolver()}))
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads units and serves queries by view", func() {
		Expect(mgr.Load(ctx)).To(Succeed())

		home, err := mgr.PluginsForView(ctx, "home")
		Expect(err).NotTo(HaveOccurred())
		Expect(home).To(HaveLen(1))
		Expect(home[0].ID()).To(Equal("calendar_2.1.0"))

		side, err := mgr.PluginsForView(ctx, "side")
		Expect(err).NotTo(HaveOccurred())
		Expect(side).To(HaveLen(2))
	})

	It("parses settings and language bundles", func() {
		Expect(mgr.Load(ctx)).To(Succeed())

		home, err := mgr.PluginsForView(ctx, "home")
		Expect(err).NotTo(HaveOccurred())
		calendar := home[0]

		Expect(calendar.Setting("weekStart").String()).To(Equal("monday"))
		Expect(calendar.Setting("maxEvents").Int()).To(Equal(int64(25)))

		title, ok := calendar.Lang("en", "title")
		Expect(ok).To(BeTrue())
		Expect(title).To(Equal("Calendar"))
	})

	It("runs Lua entry points against a render context", func() {
		Expect(mgr.Load(ctx)).To(Succeed())

		home, err := mgr.PluginsForView(ctx, "home")
		Expect(err).NotTo(HaveOccurred())

		rc := &plugin.RenderContext{View: "home", Data: map[string]any{}}
		Expect(home[0].Entry.PreRender(ctx, rc)).To(Succeed())
		Expect(rc.Data).To(HaveKeyWithValue("heading", "calendar for home"))
	})

	It("publishes the load event to externally registered listeners", func() {
		var got []*plugin.Plugin
		mgr.Bus().Register(event.NewFuncListener(event.TypePluginsLoaded,
			func(_ context.Context, e *event.Event) error {
				got, _ = e.Data.([]*plugin.Plugin)
				return nil
			}))

		Expect(mgr.Load(ctx)).To(Succeed())
		Expect(got).To(HaveLen(2))
	})

	It("toggles a plugin off and on through Update", func() {
		Expect(mgr.Load(ctx)).To(Succeed())

		home, err := mgr.PluginsForView(ctx, "home")
		Expect(err).NotTo(HaveOccurred())
		calendar := home[0]
		Expect(calendar.Status).To(Equal(plugin.StatusEnabled))

		Expect(mgr.Update(ctx, calendar)).To(Succeed())
		Expect(calendar.Status).To(Equal(plugin.StatusDisabled))

		home, err = mgr.PluginsForView(ctx, "home")
		Expect(err).NotTo(HaveOccurred())
		Expect(home[0].Status).To(Equal(plugin.StatusDisabled))
	})

	It("keeps previously loaded plugins across reloads", func() {
		Expect(mgr.Load(ctx)).To(Succeed())

		Expect(os.RemoveAll(filepath.Join(root, "clock"))).To(Succeed())
		Expect(mgr.Load(ctx)).To(Succeed())

		side, err := mgr.PluginsForView(ctx, "side")
		Expect(err).NotTo(HaveOccurred())
		Expect(side).To(HaveLen(2), "removed units stay registered until restart")
	})
})
