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

// Package notifications defines the event types the monitor loop emits
// and typed helpers for sending them. Front-ends subscribe to these via
// the broker; the loop never calls a front-end directly.
package notifications

import "time"

const (
	NotificationSessionStarted = "session.started"
	NotificationReminder       = "session.reminder"
	NotificationTimeUp         = "session.timeup"
	NotificationEarlyFinish    = "session.earlyfinish"
	NotificationSessionStopped = "session.stopped"
	NotificationTick           = "session.tick"
)

type Notification struct {
	Params any
	Method string
}

// SessionStartedParams describes a newly started countdown.
type SessionStartedParams struct {
	Deadline time.Time `json:"deadline"`
	ModeDesc string    `json:"modeDesc"`
}

// ReminderParams describes a threshold reminder, e.g. "5 minutes left".
type ReminderParams struct {
	Threshold time.Duration `json:"threshold"`
	Remaining time.Duration `json:"remaining"`
}

// EarlyFinishParams describes the reward for closing the game early.
type EarlyFinishParams struct {
	MinutesEarly int `json:"minutesEarly"`
	Points       int `json:"points"`
	TotalPoints  int `json:"totalPoints"`
}

// TickParams is a once-per-poll progress update for front-end display.
type TickParams struct {
	Remaining      time.Duration `json:"remaining"`
	ProcessRunning bool          `json:"processRunning"`
}

func SessionStarted(ns chan<- Notification, payload SessionStartedParams) {
	ns <- Notification{
		Method: NotificationSessionStarted,
		Params: payload,
	}
}

func Reminder(ns chan<- Notification, payload ReminderParams) {
	ns <- Notification{
		Method: NotificationReminder,
		Params: payload,
	}
}

func TimeUp(ns chan<- Notification) {
	ns <- Notification{
		Method: NotificationTimeUp,
	}
}

func EarlyFinish(ns chan<- Notification, payload EarlyFinishParams) {
	ns <- Notification{
		Method: NotificationEarlyFinish,
		Params: payload,
	}
}

func SessionStopped(ns chan<- Notification) {
	ns <- Notification{
		Method: NotificationSessionStopped,
	}
}

func Tick(ns chan<- Notification, payload TickParams) {
	ns <- Notification{
		Method: NotificationTick,
		Params: payload,
	}
}
