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

// Package popup shows blocking desktop message boxes that require an
// explicit OK from the user before they disappear, independent of any
// toast auto-dismiss timer.
package popup

import (
	"fmt"

	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
)

// Ack shows a message box and blocks until the user dismisses it. If the
// toolkit fails (e.g. no display), the message falls back to the console
// without blocking.
func Ack(title, message string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Any("panic", r).Msg("popup: dialog failed, console fallback")
			//nolint:forbidigo // console fallback is the documented degraded path
			fmt.Printf("[%s] %s\n", title, message)
		}
	}()

	dialog.Message("%s", message).Title(title).Info()
}
