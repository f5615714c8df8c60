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

// Package systray is the classic front-end: a tray icon whose title shows
// the live countdown, with a menu for starting and stopping sessions.
package systray

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"fyne.io/systray"
	"github.com/nixinwang/dialog"
	"github.com/playwarden/playwarden/pkg/config"
	"github.com/playwarden/playwarden/pkg/helpers"
	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/service"
	"github.com/playwarden/playwarden/pkg/ui"
	"github.com/playwarden/playwarden/pkg/ui/popup"
	"github.com/rs/zerolog/log"
)

func startSession(app *service.App, d time.Duration) {
	if err := app.StartDuration(d); err != nil {
		log.Error().Err(err).Msg("systray: failed to start session")
		dialog.Message("Could not start session: %s", err).
			Title("Playwarden").Error()
	}
}

func startUntil(app *service.App, until string) {
	if err := app.StartUntil(until); err != nil {
		log.Error().Err(err).Msg("systray: failed to start session")
		dialog.Message("Could not start session: %s", err).
			Title("Playwarden").Error()
	}
}

func systrayOnReady(
	cfg *config.Instance,
	app *service.App,
) func() {
	return func() {
		openCmd := ""
		if runtime.GOOS == "windows" {
			openCmd = "explorer"
		} else if runtime.GOOS == "darwin" {
			openCmd = "open"
		} else {
			openCmd = "xdg-open"
		}

		if runtime.GOOS != "darwin" {
			systray.SetTitle("Playwarden")
		}
		systray.SetTooltip("Playwarden")

		mStatus := systray.AddMenuItem("No session running", "")
		mStatus.Disable()
		mPoints := systray.AddMenuItem(
			fmt.Sprintf("Total points: %d", app.TotalPoints()), "")
		mPoints.Disable()
		systray.AddSeparator()

		mStart30 := systray.AddMenuItem("Start 30 minutes", "Start a 30 minute session")
		mStart60 := systray.AddMenuItem("Start 1 hour", "Start a 1 hour session")
		mStart120 := systray.AddMenuItem("Start 2 hours", "Start a 2 hour session")
		mUntil21 := systray.AddMenuItem("Play until 21:00", "Start a session ending at 21:00")
		mUntil22 := systray.AddMenuItem("Play until 22:00", "Start a session ending at 22:00")
		mStop := systray.AddMenuItem("Stop Session", "Cancel the running session")
		systray.AddSeparator()

		mEditConfig := systray.AddMenuItem("Edit Config", "Edit Playwarden config file")
		mOpenLog := systray.AddMenuItem("View Log", "View Playwarden log file")

		systray.AddSeparator()
		mVersion := systray.AddMenuItem("Version "+config.AppVersion, "")
		mVersion.Disable()
		mAbout := systray.AddMenuItem("About Playwarden", "")

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit Playwarden")

		// Popups and toasts for reminders, time-up and early-finish events.
		notifs, subID := app.Subscribe(16)
		dispatcher := ui.NewDispatcher(popup.Ack)
		ctx, cancel := context.WithCancel(context.Background())
		go dispatcher.Run(ctx, notifs)

		// Countdown and points display driven by the same event stream.
		status, statusID := app.Subscribe(16)

		go func() {
			defer cancel()
			defer app.Unsubscribe(subID)
			defer app.Unsubscribe(statusID)

			for {
				select {
				case n, ok := <-status:
					if !ok {
						return
					}
					switch n.Method {
					case notifications.NotificationTick:
						params, pok := n.Params.(notifications.TickParams)
						if !pok {
							continue
						}
						remaining := ui.FormatRemaining(params.Remaining)
						mStatus.SetTitle("Remaining: " + remaining)
						if runtime.GOOS != "darwin" {
							systray.SetTitle("Playwarden " + remaining)
						}
						systray.SetTooltip("Playwarden - " + remaining + " remaining")
					case notifications.NotificationTimeUp,
						notifications.NotificationEarlyFinish,
						notifications.NotificationSessionStopped:
						mStatus.SetTitle("No session running")
						mPoints.SetTitle(fmt.Sprintf("Total points: %d", app.TotalPoints()))
						if runtime.GOOS != "darwin" {
							systray.SetTitle("Playwarden")
						}
						systray.SetTooltip("Playwarden")
					}
				case <-mStart30.ClickedCh:
					startSession(app, 30*time.Minute)
				case <-mStart60.ClickedCh:
					startSession(app, time.Hour)
				case <-mStart120.ClickedCh:
					startSession(app, 2*time.Hour)
				case <-mUntil21.ClickedCh:
					startUntil(app, "21:00")
				case <-mUntil22.ClickedCh:
					startUntil(app, "22:00")
				case <-mStop.ClickedCh:
					app.StopSession()
				case <-mEditConfig.ClickedCh:
					err := exec.Command(openCmd,
						filepath.Join(helpers.ConfigDir(), config.CfgFile)).Start()
					if err != nil {
						log.Error().Err(err).Msg("systray: failed to open config file")
					}
				case <-mOpenLog.ClickedCh:
					err := exec.Command(openCmd,
						filepath.Join(helpers.LogDir(), config.LogFile)).Start()
					if err != nil {
						log.Error().Err(err).Msg("systray: failed to open log file")
					}
				case <-mAbout.ClickedCh:
					msg := "Playwarden\n" +
						"Version v%s\n\n" +
						"© %d Playwarden Contributors\n" +
						"License: GPLv3"
					dialog.Message(msg, config.AppVersion, time.Now().Year()).
						Title("About Playwarden").Info()
				case <-mQuit.ClickedCh:
					systray.Quit()
				}
			}
		}()
	}
}

// Run blocks until the user quits from the tray menu.
func Run(
	cfg *config.Instance,
	app *service.App,
	exit func(),
) {
	systray.Run(systrayOnReady(cfg, app), exit)
}
