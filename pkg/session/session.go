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

package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Mode identifies how the deadline was specified by the user.
type Mode string

const (
	ModeDuration Mode = "duration"
	ModeUntil    Mode = "until"
)

// Session describes one timed countdown. It is immutable once created;
// mutable tick state (fired reminders, current remaining) lives in the
// monitor which owns the session exclusively.
type Session struct {
	StartedAt time.Time
	Deadline  time.Time
	ID        string
	ModeDesc  string
	Mode      Mode
}

// NewDurationSession creates a session ending d from now. The duration
// must already be validated (ParseDurationFields).
func NewDurationSession(clock clockwork.Clock, d time.Duration) (*Session, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: duration must be greater than zero", ErrInvalidInput)
	}

	now := clock.Now()
	return &Session{
		ID:        uuid.New().String(),
		Mode:      ModeDuration,
		ModeDesc:  fmt.Sprintf("duration %s", d),
		StartedAt: now,
		Deadline:  DeadlineFromDuration(now, d),
	}, nil
}

// NewUntilSession creates a session ending at the next occurrence of
// hour:minute. The values must already be validated (ParseUntil).
func NewUntilSession(clock clockwork.Clock, hour, minute int) (*Session, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: time out of range: %02d:%02d", ErrInvalidInput, hour, minute)
	}

	now := clock.Now()
	deadline := DeadlineFromUntil(now, hour, minute)
	return &Session{
		ID:        uuid.New().String(),
		Mode:      ModeUntil,
		ModeDesc:  fmt.Sprintf("until %s", deadline.Format("15:04")),
		StartedAt: now,
		Deadline:  deadline,
	}, nil
}

// Remaining returns the time left until the deadline at the given instant.
// Negative values mean the deadline has passed.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.Deadline.Sub(now)
}
