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

// Package process answers whether a named executable is currently running.
package process

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// Checker reports whether the named process is running. Implementations
// must treat enumeration failures as "not running" rather than propagating
// them; the monitor loop depends on this call never failing hard.
type Checker interface {
	Running(ctx context.Context, name string) bool
}

// GopsutilChecker scans the OS process table on every call. No caching.
type GopsutilChecker struct{}

func NewChecker() *GopsutilChecker {
	return &GopsutilChecker{}
}

// Running reports whether a process with the given executable name exists.
// Matching is case-insensitive against both the process name and the
// basename of its executable path. Enumeration errors are logged at debug
// and reported as not running; per-process query errors are skipped, since
// processes can exit mid-scan or deny access.
func (*GopsutilChecker) Running(ctx context.Context, name string) bool {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("process: enumeration failed, treating as not running")
		return false
	}

	want := strings.ToLower(name)
	for _, p := range procs {
		pName, err := p.NameWithContext(ctx)
		if err == nil && strings.ToLower(pName) == want {
			return true
		}

		exe, err := p.ExeWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.ToLower(filepath.Base(exe)) == want {
			return true
		}
	}

	return false
}
