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

package helpers

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "playwarden"

// ConfigDir returns the directory holding the config file.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// DataDir returns the directory holding the reward ledger files.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appDirName)
}

// LogDir returns the directory holding rotated log files.
func LogDir() string {
	return filepath.Join(xdg.StateHome, appDirName)
}
