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

package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/playwarden/playwarden/pkg/rewards"
	"github.com/playwarden/playwarden/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubChecker reports a settable liveness value.
type stubChecker struct {
	mu      sync.Mutex
	running bool
}

func (s *stubChecker) Running(_ context.Context, _ string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *stubChecker) set(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

// stubLedger records calls in memory and can be made to fail.
type stubLedger struct {
	mu      sync.Mutex
	records []rewards.Record
	total   int
	fail    bool
}

func (s *stubLedger) Record(rec rewards.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, rewards.ErrPersistence
	}
	s.records = append(s.records, rec)
	s.total += rec.Points
	return s.total, nil
}

func (s *stubLedger) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func testConfig() Config {
	return Config{
		ProcessName:     "Terraria.exe",
		PointsPerMinute: 10,
		Thresholds:      []time.Duration{5 * time.Minute, 3 * time.Minute, 1 * time.Minute},
		PollInterval:    time.Second,
	}
}

// startedMonitor builds a monitor with session state initialized, without
// spawning the run loop, so tests can drive tick() directly.
func startedMonitor(
	t *testing.T,
	clock clockwork.Clock,
	checker *stubChecker,
	ledger *stubLedger,
	duration time.Duration,
) (*Monitor, *session.Session, chan notifications.Notification) {
	t.Helper()

	ns := make(chan notifications.Notification, 128)
	m := New(testConfig(), clock, checker, ledger, ns)

	sess, err := session.NewDurationSession(clock, duration)
	require.NoError(t, err)
	m.sess = sess
	m.state = StateRunning
	m.fired = make(map[time.Duration]bool)
	for _, threshold := range m.cfg.Thresholds {
		if duration < threshold {
			m.fired[threshold] = true
		}
	}

	return m, sess, ns
}

// drain empties the notification channel and returns methods in order.
func drain(ns chan notifications.Notification) []notifications.Notification {
	var out []notifications.Notification
	for {
		select {
		case n := <-ns:
			out = append(out, n)
		default:
			return out
		}
	}
}

func methodsOf(notifs []notifications.Notification) []string {
	methods := make([]string, 0, len(notifs))
	for _, n := range notifs {
		methods = append(methods, n.Method)
	}
	return methods
}

func remindersOf(notifs []notifications.Notification) []time.Duration {
	var fired []time.Duration
	for _, n := range notifs {
		if n.Method == notifications.NotificationReminder {
			params, ok := n.Params.(notifications.ReminderParams)
			if ok {
				fired = append(fired, params.Threshold)
			}
		}
	}
	return fired
}

func TestRemindersFireOnceEachInDescendingOrder(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 10*time.Minute)

	var fired []time.Duration
	for range 10 * 60 {
		terminal := m.tick(context.Background(), m.sess)
		fired = append(fired, remindersOf(drain(ns))...)
		if terminal {
			break
		}
		clock.Advance(time.Second)
	}

	assert.Equal(t,
		[]time.Duration{5 * time.Minute, 3 * time.Minute, 1 * time.Minute},
		fired,
		"each threshold exactly once, descending")
}

func TestStalledLoopFiresOnlySmallestCrossedThreshold(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 10*time.Minute)

	// One normal tick, then the loop stalls past three thresholds at once.
	m.tick(context.Background(), m.sess)
	drain(ns)

	clock.Advance(9*time.Minute + 10*time.Second) // remaining: 50s

	m.tick(context.Background(), m.sess)
	fired := remindersOf(drain(ns))
	assert.Equal(t, []time.Duration{1 * time.Minute}, fired,
		"only the smallest crossed threshold fires")

	// The skipped 5m and 3m thresholds must never back-fire.
	clock.Advance(10 * time.Second)
	m.tick(context.Background(), m.sess)
	assert.Empty(t, remindersOf(drain(ns)))
}

func TestTickIdempotentWithoutClockAdvance(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 5*time.Minute)

	m.tick(context.Background(), m.sess)
	first := remindersOf(drain(ns))
	require.Equal(t, []time.Duration{5 * time.Minute}, first)

	// Replaying the identical tick must not re-fire.
	m.tick(context.Background(), m.sess)
	assert.Empty(t, remindersOf(drain(ns)))
	assert.Zero(t, ledger.count())
}

func TestTimeUpNoReward(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 10*time.Second)

	m.tick(context.Background(), m.sess)
	drain(ns)

	clock.Advance(10 * time.Second)
	terminal := m.tick(context.Background(), m.sess)

	assert.True(t, terminal)
	assert.Equal(t, StateTimeUp, m.Status().State)
	assert.Zero(t, ledger.count(), "time up never records a reward")

	methods := methodsOf(drain(ns))
	assert.Contains(t, methods, notifications.NotificationTimeUp)
	assert.NotContains(t, methods, notifications.NotificationReminder,
		"a 10s session fires no reminders")
}

func TestEarlyFinishFloorsMinutesAndAwardsPoints(t *testing.T) {
	t.Parallel()

	// 5 minute session, process gone at remaining=200s (3m20s): floor to
	// 3 minutes early, 30 points.
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, sess, ns := startedMonitor(t, clock, checker, ledger, 5*time.Minute)

	m.tick(context.Background(), m.sess)
	drain(ns)

	clock.Advance(100 * time.Second) // remaining: 200s
	checker.set(false)

	terminal := m.tick(context.Background(), m.sess)
	require.True(t, terminal)
	assert.Equal(t, StateEarlyFinish, m.Status().State)

	require.Equal(t, 1, ledger.count(), "exactly one ledger row")
	rec := ledger.records[0]
	assert.Equal(t, 3, rec.EarlyMinutes, "floor of 200s/60")
	assert.Equal(t, 30, rec.Points)
	assert.Equal(t, 30, ledger.total, "total increases by exactly the points awarded")
	assert.Equal(t, sess.ID, rec.SessionID)
	assert.Equal(t, sess.Deadline, rec.PlannedEnd)

	var params notifications.EarlyFinishParams
	for _, n := range drain(ns) {
		if n.Method == notifications.NotificationEarlyFinish {
			var ok bool
			params, ok = n.Params.(notifications.EarlyFinishParams)
			require.True(t, ok)
		}
	}
	assert.Equal(t, 3, params.MinutesEarly)
	assert.Equal(t, 30, params.Points)
	assert.Equal(t, 30, params.TotalPoints)
}

func TestEarlyFinishWithoutEverSeeingProcess(t *testing.T) {
	t.Parallel()

	// The reward does not require the process to have been seen running:
	// the first not-running observation triggers the early finish.
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: false}
	ledger := &stubLedger{}
	m, _, _ := startedMonitor(t, clock, checker, ledger, 5*time.Minute)

	terminal := m.tick(context.Background(), m.sess)
	assert.True(t, terminal)
	assert.Equal(t, StateEarlyFinish, m.Status().State)
	assert.Equal(t, 1, ledger.count())
	assert.Equal(t, 5, ledger.records[0].EarlyMinutes)
	assert.Equal(t, 50, ledger.records[0].Points)
}

func TestEarlyFinishUnderOneMinuteAwardsZeroButIsLogged(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 5*time.Minute)

	m.tick(context.Background(), m.sess)
	drain(ns)

	clock.Advance(4*time.Minute + 30*time.Second) // remaining: 30s
	checker.set(false)

	terminal := m.tick(context.Background(), m.sess)
	require.True(t, terminal)
	require.Equal(t, 1, ledger.count())
	assert.Equal(t, 0, ledger.records[0].EarlyMinutes)
	assert.Equal(t, 0, ledger.records[0].Points)
}

func TestLedgerFailureDoesNotCrashLoop(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: false}
	ledger := &stubLedger{fail: true}
	m, _, ns := startedMonitor(t, clock, checker, ledger, 5*time.Minute)

	terminal := m.tick(context.Background(), m.sess)
	assert.True(t, terminal, "session still ends despite persistence failure")
	assert.Equal(t, StateEarlyFinish, m.Status().State)

	methods := methodsOf(drain(ns))
	assert.Contains(t, methods, notifications.NotificationEarlyFinish,
		"notification still emitted when the reward write fails")
}

func TestStartRejectsConcurrentSession(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	ns := make(chan notifications.Notification, 128)
	m := New(testConfig(), clock, checker, ledger, ns)

	sess, err := session.NewDurationSession(clock, 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Start(sess))
	defer m.Stop()

	other, err := session.NewDurationSession(clock, 10*time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Start(other), ErrSessionActive)
}

func TestStopEndsLoopBeforeNextTick(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	ns := make(chan notifications.Notification, 128)
	m := New(testConfig(), clock, checker, ledger, ns)

	sess, err := session.NewDurationSession(clock, 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Start(sess))

	m.Stop()
	assert.Equal(t, StateStopped, m.Status().State)

	methods := methodsOf(drain(ns))
	assert.Contains(t, methods, notifications.NotificationSessionStarted)
	assert.Contains(t, methods, notifications.NotificationSessionStopped)
	assert.Zero(t, ledger.count())

	// A new session can start after a stop.
	next, err := session.NewDurationSession(clock, time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Start(next))
	m.Stop()
}

func TestRunLoopTicksOnCadence(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	checker := &stubChecker{running: true}
	ledger := &stubLedger{}
	ns := make(chan notifications.Notification, 128)
	m := New(testConfig(), clock, checker, ledger, ns)

	sess, err := session.NewDurationSession(clock, time.Minute)
	require.NoError(t, err)
	require.NoError(t, m.Start(sess))
	defer m.Stop()

	waitTick := func() notifications.TickParams {
		t.Helper()
		deadline := time.After(time.Second)
		for {
			select {
			case n := <-ns:
				if n.Method == notifications.NotificationTick {
					params, ok := n.Params.(notifications.TickParams)
					require.True(t, ok)
					return params
				}
			case <-deadline:
				t.Fatal("no tick notification")
			}
		}
	}

	first := waitTick()
	assert.Equal(t, time.Minute, first.Remaining, "immediate first tick on start")

	clock.Advance(time.Second)
	second := waitTick()
	assert.Equal(t, 59*time.Second, second.Remaining)
}
