//go:build windows

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

package toast

import (
	"time"

	wintoast "github.com/go-toast/toast"
)

func show(title, message string, duration time.Duration) error {
	notification := wintoast.Notification{
		AppID:   appName,
		Title:   title,
		Message: message,
	}
	if duration >= 10*time.Second {
		notification.Duration = wintoast.Long
	}
	return notification.Push()
}
