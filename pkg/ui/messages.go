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

// Package ui contains pieces shared by both front-ends: alert message
// text and the dispatcher that fans alert events out to toast and popup.
package ui

import (
	"fmt"
	"time"

	"github.com/playwarden/playwarden/pkg/notifications"
)

// Alert is the rendered form of a notification that warrants a user-facing
// toast and acknowledgment popup.
type Alert struct {
	Title   string
	Message string
	// Duration is a hint for the toast's auto-dismiss timer; the popup
	// always waits for an explicit OK.
	Duration time.Duration
}

// AlertFor renders a notification into an Alert. Returns false for
// notification kinds that don't alert the user (ticks, session lifecycle).
func AlertFor(n notifications.Notification) (Alert, bool) {
	switch n.Method {
	case notifications.NotificationReminder:
		params, ok := n.Params.(notifications.ReminderParams)
		if !ok {
			return Alert{}, false
		}
		minutes := int(params.Threshold / time.Minute)
		return Alert{
			Title: "Playwarden Reminder",
			Message: fmt.Sprintf(
				"%d minutes remaining.\n\nPrepare to save and close the game.",
				minutes),
			Duration: 10 * time.Second,
		}, true

	case notifications.NotificationTimeUp:
		return Alert{
			Title: "Playwarden - Time Up!",
			Message: "TIME'S UP!\n\nYour planned playtime has ended.\n\n" +
				"Please save and close the game now.",
			Duration: 15 * time.Second,
		}, true

	case notifications.NotificationEarlyFinish:
		params, ok := n.Params.(notifications.EarlyFinishParams)
		if !ok {
			return Alert{}, false
		}
		return Alert{
			Title: "Playwarden - Early Finish!",
			Message: fmt.Sprintf(
				"Early finish reward!\n\nYou finished %d minutes early.\n\n"+
					"+%d points earned! Total: %d",
				params.MinutesEarly, params.Points, params.TotalPoints),
			Duration: 10 * time.Second,
		}, true

	default:
		return Alert{}, false
	}
}

// FormatRemaining renders a countdown as HH:MM:SS, or MM:SS under an hour.
// Negative values render as zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
