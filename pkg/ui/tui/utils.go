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

package tui

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ThemeBgColor is the background color name for use in tview color tags.
// Must match the PrimitiveBackgroundColor set in SetTheme.
const ThemeBgColor = "darkblue"

func SetTheme(theme *tview.Theme) {
	theme.BorderColor = tcell.ColorLightYellow
	theme.PrimaryTextColor = tcell.ColorWhite
	theme.ContrastSecondaryTextColor = tcell.ColorFuchsia
	theme.PrimitiveBackgroundColor = tcell.ColorDarkBlue // matches ThemeBgColor
	theme.ContrastBackgroundColor = tcell.ColorBlue
	theme.InverseTextColor = tcell.ColorDarkBlue
}

func CenterWidget(width, height int, p tview.Primitive) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

func genericModal(
	message string,
	title string,
	action func(buttonIndex int, buttonLabel string),
) *tview.Modal {
	modal := tview.NewModal()
	modal.SetTitle(title).
		SetBorder(true).
		SetTitleAlign(tview.AlignCenter)
	modal.SetText(message)
	modal.AddButtons([]string{"OK"}).
		SetDoneFunc(action)
	return modal
}

// Gauge renders a text progress bar of elapsed session time, full when the
// deadline is reached.
func Gauge(remaining, total time.Duration, width int) string {
	if width < 2 {
		width = 2
	}
	inner := width - 2
	if total <= 0 {
		return "[" + strings.Repeat("#", inner) + "]"
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}
	filled := inner * int(total-remaining) / int(total)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", inner-filled) + "]"
}
