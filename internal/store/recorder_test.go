// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/plugin"
)

func TestRecorder_AppendsOneRecordPerPlugin(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO plugin_load_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "calendar_2.1.0",
			"calendar", "2.1.0", "enabled", "home", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO plugin_load_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "clock_1.0.0",
			"clock", "1.0.0", "enabled", "side", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	r := NewRecorder(NewPluginEventLog(mock))
	assert.Equal(t, event.TypePluginsLoaded, r.EventType())

	e := event.New(event.TypePluginsLoaded, []*plugin.Plugin{
		{Name: "calendar", Version: "2.1.0", Status: plugin.StatusEnabled, RendererIDs: []string{"home"}},
		{Name: "clock", Version: "1.0.0", Status: plugin.StatusEnabled, RendererIDs: []string{"side"}},
	})
	require.NoError(t, r.OnEvent(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_PropagatesAppendFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO plugin_load_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "calendar_2.1.0",
			"calendar", "2.1.0", "enabled", "home", pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	r := NewRecorder(NewPluginEventLog(mock))
	e := event.New(event.TypePluginsLoaded, []*plugin.Plugin{
		{Name: "calendar", Version: "2.1.0", Status: plugin.StatusEnabled, RendererIDs: []string{"home"}},
	})
	assert.Error(t, r.OnEvent(context.Background(), e))
}

func TestRecorder_RejectsUnexpectedPayload(t *testing.T) {
	mock := newMock(t)
	r := NewRecorder(NewPluginEventLog(mock))

	e := event.New(event.TypePluginsLoaded, "not a plugin slice")
	assert.Error(t, r.OnEvent(context.Background(), e))
}
