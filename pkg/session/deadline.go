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

// Package session converts user input into an absolute session deadline
// and carries the immutable description of a running countdown.
package session

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput marks bad duration or clock-time input. It is surfaced
// to the user before a session is created; a session is never constructed
// from invalid input.
var ErrInvalidInput = errors.New("invalid input")

var untilRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// ParseDurationFields parses the hours/minutes/seconds fields of the
// duration mode. Empty fields count as zero. All fields must be
// non-negative integers and the total must be greater than zero.
func ParseDurationFields(hours, minutes, seconds string) (time.Duration, error) {
	h, err := parseField(hours)
	if err != nil {
		return 0, fmt.Errorf("%w: hours: %q", ErrInvalidInput, hours)
	}
	m, err := parseField(minutes)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes: %q", ErrInvalidInput, minutes)
	}
	s, err := parseField(seconds)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds: %q", ErrInvalidInput, seconds)
	}

	total := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second
	if total <= 0 {
		return 0, fmt.Errorf("%w: duration must be greater than zero", ErrInvalidInput)
	}

	return total, nil
}

func parseField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %w", err)
	}
	if n < 0 {
		return 0, errors.New("negative value")
	}
	return n, nil
}

// ParseUntil parses a 24-hour "HH:MM" clock time. The hour may be one or
// two digits; surrounding whitespace is tolerated.
func ParseUntil(s string) (hour, minute int, err error) {
	m := untilRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidInput, s)
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: time out of range: %q", ErrInvalidInput, s)
	}

	return hour, minute, nil
}

// DeadlineFromDuration computes the absolute deadline for duration mode.
func DeadlineFromDuration(now time.Time, d time.Duration) time.Time {
	return now.Add(d)
}

// DeadlineFromUntil computes the absolute deadline for until mode: today
// at hour:minute in now's location, rolled forward exactly 24 hours if
// that instant has already passed.
func DeadlineFromUntil(now time.Time, hour, minute int) time.Time {
	deadline := time.Date(
		now.Year(), now.Month(), now.Day(),
		hour, minute, 0, 0, now.Location(),
	)
	if !deadline.After(now) {
		deadline = deadline.Add(24 * time.Hour)
	}
	return deadline
}
