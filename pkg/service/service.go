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

// Package service wires the application together: config, reward ledger,
// process checker, countdown monitor and the notification broker that
// front-ends subscribe to.
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/playwarden/playwarden/pkg/config"
	"github.com/playwarden/playwarden/pkg/helpers"
	"github.com/playwarden/playwarden/pkg/monitor"
	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/process"
	"github.com/playwarden/playwarden/pkg/rewards"
	"github.com/playwarden/playwarden/pkg/service/broker"
	"github.com/playwarden/playwarden/pkg/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// notificationBuffer sizes the monitor loop's send channel. The broker
// drains it continuously; the buffer only absorbs short scheduling gaps.
const notificationBuffer = 32

// App is the assembled core. Front-ends hold an *App and use it as their
// controller: start/stop sessions, read status, subscribe to events.
type App struct {
	cfg     *config.Instance
	clock   clockwork.Clock
	ledger  *rewards.Ledger
	monitor *monitor.Monitor
	broker  *broker.Broker
	ns      chan notifications.Notification
	cancel  context.CancelFunc
}

// Start builds and starts the application core. No session is running
// until the user starts one through a front-end or CLI flag.
func Start(cfg *config.Instance, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	log.Info().Msgf("version: %s", config.AppVersion)

	dataDir := helpers.DataDir()
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ledger := rewards.NewLedger(
		afero.NewOsFs(),
		cfg.RewardsLogFile(dataDir),
		cfg.RewardsTotalFile(dataDir),
	)

	ns := make(chan notifications.Notification, notificationBuffer)
	ctx, cancel := context.WithCancel(context.Background())

	notifBroker := broker.NewBroker(ctx, ns)
	notifBroker.Start()

	mon := monitor.New(
		monitor.Config{
			ProcessName:     cfg.ProcessName(),
			PointsPerMinute: cfg.PointsPerMinute(),
			Thresholds:      cfg.ReminderThresholds(),
			PollInterval:    cfg.PollInterval(),
		},
		clock,
		process.NewChecker(),
		ledger,
		ns,
	)

	log.Info().
		Str("process", cfg.ProcessName()).
		Dur("pollInterval", cfg.PollInterval()).
		Msg("service: started")

	return &App{
		cfg:     cfg,
		clock:   clock,
		ledger:  ledger,
		monitor: mon,
		broker:  notifBroker,
		ns:      ns,
		cancel:  cancel,
	}, nil
}

// StartDuration starts a session lasting d from now.
func (a *App) StartDuration(d time.Duration) error {
	sess, err := session.NewDurationSession(a.clock, d)
	if err != nil {
		return err
	}
	return a.monitor.Start(sess)
}

// StartDurationFields starts a session from raw hours/minutes/seconds
// input fields, validating them first.
func (a *App) StartDurationFields(hours, minutes, seconds string) error {
	d, err := session.ParseDurationFields(hours, minutes, seconds)
	if err != nil {
		return err
	}
	return a.StartDuration(d)
}

// StartUntil starts a session ending at the next occurrence of the given
// "HH:MM" clock time.
func (a *App) StartUntil(until string) error {
	hour, minute, err := session.ParseUntil(until)
	if err != nil {
		return err
	}
	sess, err := session.NewUntilSession(a.clock, hour, minute)
	if err != nil {
		return err
	}
	return a.monitor.Start(sess)
}

// StopSession cancels the running session, if any.
func (a *App) StopSession() {
	a.monitor.Stop()
}

// Status returns a snapshot of the monitor state.
func (a *App) Status() monitor.Status {
	return a.monitor.Status()
}

// TotalPoints returns the persisted reward total.
func (a *App) TotalPoints() int {
	return a.ledger.Total()
}

// History returns all recorded early-finish rewards.
func (a *App) History() ([]rewards.Record, error) {
	return a.ledger.History()
}

// ProcessName returns the monitored executable's name.
func (a *App) ProcessName() string {
	return a.cfg.ProcessName()
}

// Subscribe registers a front-end with the notification broker.
func (a *App) Subscribe(bufferSize int) (<-chan notifications.Notification, int) {
	return a.broker.Subscribe(bufferSize)
}

// Unsubscribe removes a front-end subscription.
func (a *App) Unsubscribe(id int) {
	a.broker.Unsubscribe(id)
}

// Shutdown stops any running session and tears the core down. Pending
// reward writes complete before this returns.
func (a *App) Shutdown() {
	log.Info().Msg("service: shutting down")
	a.monitor.Stop()
	a.cancel()
}
