// Playwarden
// Copyright (c) 2026 The Playwarden Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playwarden.
//
// Playwarden is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playwarden is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playwarden.  If not, see <http://www.gnu.org/licenses/>.

package ui

import (
	"context"
	"testing"
	"time"

	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/stretchr/testify/assert"
)

func TestDispatcherShowsOnePopupPerAlertEvent(t *testing.T) {
	t.Parallel()

	popups := make(chan string, 10)
	d := NewDispatcher(func(title, _ string) {
		popups <- title
	})

	notifs := make(chan notifications.Notification, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, notifs)

	// Ticks must not produce popups.
	notifications.Tick(notifs, notifications.TickParams{Remaining: time.Minute})
	notifications.Reminder(notifs, notifications.ReminderParams{
		Threshold: 3 * time.Minute,
		Remaining: 3 * time.Minute,
	})
	notifications.TimeUp(notifs)

	first := <-popups
	second := <-popups
	got := []string{first, second}
	assert.Contains(t, got, "Playwarden Reminder")
	assert.Contains(t, got, "Playwarden - Time Up!")

	select {
	case extra := <-popups:
		t.Fatalf("unexpected extra popup: %s", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcherStopsWhenChannelCloses(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(func(_, _ string) {})
	notifs := make(chan notifications.Notification)
	done := make(chan struct{})

	go func() {
		d.Run(context.Background(), notifs)
		close(done)
	}()

	close(notifs)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not exit after channel close")
	}
}
