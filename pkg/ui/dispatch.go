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

	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/ui/toast"
	"github.com/rs/zerolog/log"
)

// PopupFunc shows a message and blocks until the user acknowledges it.
// Each front-end supplies its own toolkit's implementation.
type PopupFunc func(title, message string)

// Dispatcher consumes notifications and fans each alert-worthy event out
// to a toast and exactly one acknowledgment popup. It never queues or
// coalesces: every event gets its own popup. Popups run on their own
// goroutine so a waiting OK button can't stall the stream.
type Dispatcher struct {
	popup PopupFunc
}

func NewDispatcher(popup PopupFunc) *Dispatcher {
	return &Dispatcher{popup: popup}
}

// Run consumes the channel until it closes or ctx is done. Intended to be
// run as a goroutine over a broker subscription.
func (d *Dispatcher) Run(ctx context.Context, notifs <-chan notifications.Notification) {
	for {
		select {
		case n, ok := <-notifs:
			if !ok {
				return
			}
			d.handle(n)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) handle(n notifications.Notification) {
	alert, ok := AlertFor(n)
	if !ok {
		return
	}

	log.Debug().Str("method", n.Method).Msg("dispatch: alerting user")
	toast.Show(alert.Title, alert.Message, alert.Duration)

	go d.popup(alert.Title, alert.Message)
}
