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

// Package toast sends best-effort OS notifications. Delivery failures are
// logged and fall back to the console; they are never surfaced as errors
// to callers.
package toast

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const appName = "Playwarden"

// Show displays an OS toast notification. Best-effort: on any failure it
// logs the error and prints the message to the console instead.
func Show(title, message string, duration time.Duration) {
	if err := show(title, message, duration); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("toast: delivery failed, console fallback")
		//nolint:forbidigo // console fallback is the documented degraded path
		fmt.Printf("[%s] %s: %s\n", appName, title, message)
	}
}
