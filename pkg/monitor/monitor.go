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

// Package monitor runs the countdown loop: once per poll interval it
// computes remaining time, fires each reminder threshold exactly once,
// detects the time-up and early-finish terminal conditions, and records
// rewards for early finishes. No error inside the loop ends a session;
// only a terminal transition or user stop does.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/process"
	"github.com/playwarden/playwarden/pkg/rewards"
	"github.com/playwarden/playwarden/pkg/session"
	"github.com/rs/zerolog/log"
)

// ErrSessionActive is returned by Start while a session is already running.
var ErrSessionActive = errors.New("a session is already running")

// State is the monitor's position in the session lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateRunning     State = "running"
	StateTimeUp      State = "timeup"
	StateEarlyFinish State = "earlyfinish"
	StateStopped     State = "stopped"
)

// Terminal reports whether the state ends a session. Terminal states stay
// until the user starts a new session.
func (s State) Terminal() bool {
	return s == StateTimeUp || s == StateEarlyFinish || s == StateStopped
}

// Config is the startup-time configuration snapshot the loop runs with.
// It is not mutated after construction.
type Config struct {
	ProcessName     string
	Thresholds      []time.Duration // sorted descending
	PollInterval    time.Duration
	PointsPerMinute int
}

// Ledger records early-finish rewards. Satisfied by *rewards.Ledger.
type Ledger interface {
	Record(rec rewards.Record) (newTotal int, err error)
}

// Status is a read-only snapshot for front-end display. Front-ends only
// ever see copies; the live session state is owned by the loop.
type Status struct {
	StartedAt      time.Time
	Deadline       time.Time
	ModeDesc       string
	State          State
	Remaining      time.Duration
	ProcessRunning bool
}

// Monitor owns one session at a time and drives its countdown.
type Monitor struct {
	clock   clockwork.Clock
	checker process.Checker
	ledger  Ledger
	ns      chan<- notifications.Notification
	cfg     Config

	mu          sync.Mutex
	state       State
	sess        *session.Session
	fired       map[time.Duration]bool
	remaining   time.Duration
	procRunning bool
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a Monitor in the Idle state.
func New(
	cfg Config,
	clock clockwork.Clock,
	checker process.Checker,
	ledger Ledger,
	ns chan<- notifications.Notification,
) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Monitor{
		cfg:     cfg,
		clock:   clock,
		checker: checker,
		ledger:  ledger,
		ns:      ns,
		state:   StateIdle,
	}
}

// Start begins monitoring the given session. Returns ErrSessionActive if
// a session is already running; terminal and idle states both allow a new
// start.
func (m *Monitor) Start(sess *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRunning {
		return ErrSessionActive
	}

	ctx, cancel := context.WithCancel(context.Background())
	initial := sess.Remaining(m.clock.Now())

	m.state = StateRunning
	m.sess = sess
	m.fired = make(map[time.Duration]bool)
	m.remaining = initial
	m.procRunning = false
	m.cancel = cancel
	m.done = make(chan struct{})

	// A reminder fires only when the countdown crosses its threshold from
	// above. Thresholds the session starts strictly inside of never fire:
	// a 10 second session gets no "1 minute left" reminder, while a
	// session of exactly 5 minutes still gets the 5 minute one.
	for _, t := range m.cfg.Thresholds {
		if initial < t {
			m.fired[t] = true
		}
	}

	log.Info().
		Str("session", sess.ID).
		Str("mode", sess.ModeDesc).
		Time("deadline", sess.Deadline).
		Msg("monitor: session started")

	notifications.SessionStarted(m.ns, notifications.SessionStartedParams{
		Deadline: sess.Deadline,
		ModeDesc: sess.ModeDesc,
	})

	go m.run(ctx, sess, m.done)
	return nil
}

// Stop cancels a running session before its next tick and waits for the
// loop to exit, so no ledger write is left in progress. A no-op when no
// session is running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done

	m.mu.Lock()
	// The loop may have reached a terminal state on its final tick; only
	// report a user stop if it didn't.
	if m.state == StateRunning {
		m.state = StateStopped
		log.Info().Msg("monitor: session stopped by user")
		notifications.SessionStopped(m.ns)
	}
	m.mu.Unlock()
}

// Status returns a snapshot copy of the current monitor state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		State:          m.state,
		Remaining:      m.remaining,
		ProcessRunning: m.procRunning,
	}
	if m.sess != nil {
		st.StartedAt = m.sess.StartedAt
		st.Deadline = m.sess.Deadline
		st.ModeDesc = m.sess.ModeDesc
	}
	return st
}

func (m *Monitor) run(ctx context.Context, sess *session.Session, done chan struct{}) {
	defer close(done)

	ticker := m.clock.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	// Immediate first tick, then on the poll cadence.
	if m.tick(ctx, sess) {
		return
	}

	for {
		select {
		case <-ticker.Chan():
			if m.tick(ctx, sess) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// tick performs one poll: time check, at most one reminder, process check.
// Returns true when the session reached a terminal state.
func (m *Monitor) tick(ctx context.Context, sess *session.Session) bool {
	now := m.clock.Now()
	remaining := sess.Remaining(now)

	if remaining <= 0 {
		m.setState(StateTimeUp, 0, false)
		log.Info().Str("session", sess.ID).Msg("monitor: time is up")
		notifications.TimeUp(m.ns)
		return true
	}

	running := m.checker.Running(ctx, m.cfg.ProcessName)
	m.setState(StateRunning, remaining, running)

	notifications.Tick(m.ns, notifications.TickParams{
		Remaining:      remaining,
		ProcessRunning: running,
	})

	if threshold, fire := m.crossReminder(remaining); fire {
		log.Info().
			Dur("threshold", threshold).
			Dur("remaining", remaining).
			Msg("monitor: reminder threshold reached")
		notifications.Reminder(m.ns, notifications.ReminderParams{
			Threshold: threshold,
			Remaining: remaining,
		})
	}

	if !running {
		m.finishEarly(sess, now, remaining)
		return true
	}

	return false
}

// crossReminder marks every threshold the countdown has crossed and
// returns the smallest newly crossed one. Marking all crossed thresholds
// at once means a stalled loop can never fire 5-and-3-and-1 on successive
// ticks after the fact; at most one reminder fires per tick and each
// threshold fires at most once per session.
func (m *Monitor) crossReminder(remaining time.Duration) (time.Duration, bool) {
	var smallest time.Duration
	found := false

	for _, t := range m.cfg.Thresholds {
		if remaining > t || m.fired[t] {
			continue
		}
		m.fired[t] = true
		smallest = t
		found = true
	}

	return smallest, found
}

// finishEarly handles the process-closed-before-deadline terminal state.
// minutes early is floored: partial minutes do not earn points. A ledger
// failure is logged and the session still ends; the reward for that
// session is lost.
func (m *Monitor) finishEarly(sess *session.Session, now time.Time, remaining time.Duration) {
	minutesEarly := int(remaining / time.Minute)
	points := minutesEarly * m.cfg.PointsPerMinute

	rec := rewards.Record{
		SessionID:    sess.ID,
		SessionStart: sess.StartedAt,
		Mode:         sess.ModeDesc,
		PlannedEnd:   sess.Deadline,
		ActualEnd:    now,
		EarlyMinutes: minutesEarly,
		Points:       points,
	}

	total, err := m.ledger.Record(rec)
	if err != nil {
		log.Error().Err(err).Msg("monitor: failed to record reward, continuing")
	}

	m.setState(StateEarlyFinish, remaining, false)
	log.Info().
		Str("session", sess.ID).
		Int("minutesEarly", minutesEarly).
		Int("points", points).
		Msg("monitor: early finish")

	notifications.EarlyFinish(m.ns, notifications.EarlyFinishParams{
		MinutesEarly: minutesEarly,
		Points:       points,
		TotalPoints:  total,
	})
}

func (m *Monitor) setState(state State, remaining time.Duration, procRunning bool) {
	m.mu.Lock()
	m.state = state
	m.remaining = remaining
	m.procRunning = procRunning
	m.mu.Unlock()
}
