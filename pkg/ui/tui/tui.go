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

// Package tui is the modern front-end: a full-screen terminal UI with a
// session start form, a live countdown with progress gauge, and modal
// acknowledgment popups.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/playwarden/playwarden/pkg/config"
	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/service"
	"github.com/playwarden/playwarden/pkg/ui"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	PageStart   = "start"
	PageRunning = "running"

	gaugeWidth = 40
)

type sessionUI struct {
	uiApp   *tview.Application
	app     *service.App
	pages   *tview.Pages
	remain  *tview.TextView
	gauge   *tview.TextView
	procs   *tview.TextView
	mode    *tview.TextView
	points  *tview.TextView
	total   time.Duration
	modalID int
}

func (s *sessionUI) buildStartPage() tview.Primitive {
	form := tview.NewForm()
	form.SetTitle(" Playwarden v" + config.AppVersion + " ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true)

	hours := tview.NewInputField().SetLabel("Hours").
		SetFieldWidth(4).SetAcceptanceFunc(tview.InputFieldInteger)
	minutes := tview.NewInputField().SetLabel("Minutes").
		SetFieldWidth(4).SetAcceptanceFunc(tview.InputFieldInteger)
	seconds := tview.NewInputField().SetLabel("Seconds").
		SetFieldWidth(4).SetAcceptanceFunc(tview.InputFieldInteger)
	until := tview.NewInputField().SetLabel("Until (HH:MM)").
		SetFieldWidth(6)

	form.AddFormItem(hours).
		AddFormItem(minutes).
		AddFormItem(seconds).
		AddFormItem(until)

	form.AddButton("Start", func() {
		err := s.app.StartDurationFields(
			hours.GetText(), minutes.GetText(), seconds.GetText())
		if err != nil {
			s.showModal("Playwarden", err.Error())
		}
	})
	form.AddButton("Start Until", func() {
		if err := s.app.StartUntil(until.GetText()); err != nil {
			s.showModal("Playwarden", err.Error())
		}
	})
	form.AddButton("Quit", func() {
		s.uiApp.Stop()
	})

	s.points = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	s.refreshPoints()

	footer := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("Watching: " + s.app.ProcessName())

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(s.points, 1, 1, false).
		AddItem(footer, 1, 1, false)
}

func (s *sessionUI) buildRunningPage() tview.Primitive {
	s.remain = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	s.gauge = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	s.procs = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	s.mode = tview.NewTextView().SetTextAlign(tview.AlignCenter)

	stop := tview.NewButton("Stop Session").SetSelectedFunc(func() {
		s.app.StopSession()
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewTextView(), 0, 1, false).
		AddItem(s.mode, 1, 1, false).
		AddItem(tview.NewTextView(), 1, 1, false).
		AddItem(s.remain, 1, 1, false).
		AddItem(s.gauge, 1, 1, false).
		AddItem(s.procs, 1, 1, false).
		AddItem(tview.NewTextView(), 1, 1, false).
		AddItem(CenterWidget(20, 1, stop), 1, 1, true).
		AddItem(tview.NewTextView(), 0, 1, false)
	flex.SetTitle(" Session Running ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true)
	return flex
}

func (s *sessionUI) refreshPoints() {
	s.points.SetText(fmt.Sprintf("Total points: %d", s.app.TotalPoints()))
}

// showModal stacks an acknowledgment popup over whatever page is showing.
// Each alert event gets its own modal; OK removes only that one.
func (s *sessionUI) showModal(title, message string) {
	s.modalID++
	name := "modal-" + strconv.Itoa(s.modalID)
	modal := genericModal(message, title, func(_ int, _ string) {
		s.pages.RemovePage(name)
	})
	s.pages.AddPage(name, modal, true, true)
}

func (s *sessionUI) onTick(params notifications.TickParams) {
	s.remain.SetText("Remaining: " + ui.FormatRemaining(params.Remaining))
	s.gauge.SetText(Gauge(params.Remaining, s.total, gaugeWidth))
	if params.ProcessRunning {
		s.procs.SetText(s.app.ProcessName() + " is running")
	} else {
		s.procs.SetText(s.app.ProcessName() + " is not running")
	}
}

func (s *sessionUI) onStarted(params notifications.SessionStartedParams) {
	status := s.app.Status()
	s.total = status.Deadline.Sub(status.StartedAt)
	s.mode.SetText(params.ModeDesc)
	s.pages.SwitchToPage(PageRunning)
}

func (s *sessionUI) onEnded() {
	s.refreshPoints()
	s.pages.SwitchToPage(PageStart)
}

// consume drives the UI from the notification stream until it closes.
func (s *sessionUI) consume(notifs <-chan notifications.Notification) {
	for n := range notifs {
		s.uiApp.QueueUpdateDraw(func() {
			switch n.Method {
			case notifications.NotificationTick:
				if params, ok := n.Params.(notifications.TickParams); ok {
					s.onTick(params)
				}
			case notifications.NotificationSessionStarted:
				if params, ok := n.Params.(notifications.SessionStartedParams); ok {
					s.onStarted(params)
				}
			case notifications.NotificationTimeUp,
				notifications.NotificationEarlyFinish,
				notifications.NotificationSessionStopped:
				s.onEnded()
			}
		})
	}
}

// BuildApp assembles the TUI over a started service core.
func BuildApp(cfg *config.Instance, app *service.App) (*tview.Application, func()) {
	uiApp := tview.NewApplication()
	SetTheme(&tview.Styles)

	pages := tview.NewPages()
	s := &sessionUI{uiApp: uiApp, app: app, pages: pages}

	pages.AddPage(PageRunning, s.buildRunningPage(), true, false)
	pages.AddPage(PageStart, s.buildStartPage(), true, true)

	status, statusID := app.Subscribe(16)
	go s.consume(status)

	// Alert events also raise modals, queued onto the UI goroutine.
	alerts, alertID := app.Subscribe(16)
	dispatcher := ui.NewDispatcher(func(title, message string) {
		uiApp.QueueUpdateDraw(func() {
			s.showModal(title, message)
		})
	})
	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx, alerts)

	cleanup := func() {
		cancel()
		app.Unsubscribe(statusID)
		app.Unsubscribe(alertID)
	}

	uiApp.SetRoot(CenterWidget(60, 18, pages), true)
	return uiApp, cleanup
}

// Run blocks until the user quits the TUI.
func Run(cfg *config.Instance, app *service.App) error {
	uiApp, cleanup := BuildApp(cfg, app)
	defer cleanup()
	if err := uiApp.Run(); err != nil {
		log.Error().Err(err).Msg("tui: application error")
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
