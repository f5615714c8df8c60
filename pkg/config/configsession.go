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

package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

const (
	// DefaultPointsPerMinute is the reward rate for each full minute a
	// session finishes early.
	DefaultPointsPerMinute = 10

	// DefaultPollInterval is how often the monitor loop checks remaining
	// time and process liveness.
	DefaultPollInterval = time.Second

	// MinPollInterval is the floor applied to configured poll intervals
	// so a bad value can't spin the loop.
	MinPollInterval = 100 * time.Millisecond
)

// DefaultReminderThresholds are the minutes-before-deadline points at
// which reminders fire, largest first.
var DefaultReminderThresholds = []time.Duration{
	5 * time.Minute,
	3 * time.Minute,
	1 * time.Minute,
}

// ProcessName returns the executable name of the monitored game process.
func (c *Instance) ProcessName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Session.ProcessName == "" {
		return BaseDefaults.Session.ProcessName
	}
	return c.vals.Session.ProcessName
}

// SetProcessName sets the executable name of the monitored game process.
func (c *Instance) SetProcessName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Session.ProcessName = name
}

// PointsPerMinute returns the reward points awarded per full minute of
// early finish. Returns the default if not configured or negative.
func (c *Instance) PointsPerMinute() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Session.PointsPerMinute == nil {
		return DefaultPointsPerMinute
	}
	if *c.vals.Session.PointsPerMinute < 0 {
		return DefaultPointsPerMinute
	}
	return *c.vals.Session.PointsPerMinute
}

// SetPointsPerMinute sets the reward rate. Returns an error for negative
// values.
func (c *Instance) SetPointsPerMinute(points int) error {
	if points < 0 {
		return fmt.Errorf("points per minute must be non-negative: %d", points)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Session.PointsPerMinute = &points
	return nil
}

// ReminderThresholds returns the reminder thresholds as durations, sorted
// descending. Returns the default thresholds [5m, 3m, 1m] if not
// configured. Skips any entries that cannot be parsed.
func (c *Instance) ReminderThresholds() []time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.vals.Session.Reminders) == 0 {
		thresholds := make([]time.Duration, len(DefaultReminderThresholds))
		copy(thresholds, DefaultReminderThresholds)
		return thresholds
	}

	thresholds := make([]time.Duration, 0, len(c.vals.Session.Reminders))
	for _, s := range c.vals.Session.Reminders {
		d, err := time.ParseDuration(s)
		if err == nil && d > 0 {
			thresholds = append(thresholds, d)
		}
	}

	sort.Slice(thresholds, func(i, j int) bool {
		return thresholds[i] > thresholds[j]
	})
	return thresholds
}

// SetReminderThresholds sets the reminder thresholds from duration strings
// (e.g., ["5m", "3m", "1m"]). Returns an error if any duration string is
// invalid. Pass empty slice to use defaults.
func (c *Instance) SetReminderThresholds(thresholds []string) error {
	for _, threshold := range thresholds {
		if threshold != "" {
			_, err := time.ParseDuration(threshold)
			if err != nil {
				return fmt.Errorf("invalid reminder threshold: %w", err)
			}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Session.Reminders = thresholds
	return nil
}

// PollInterval returns how often the monitor loop ticks. Returns 1s by
// default, and never less than MinPollInterval.
func (c *Instance) PollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Session.PollInterval == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(c.vals.Session.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	if d < MinPollInterval {
		return MinPollInterval
	}
	return d
}

// RewardsLogFile returns the configured reward log path, or a default
// path under dataDir if unset.
func (c *Instance) RewardsLogFile(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Rewards.LogFile != "" {
		return c.vals.Rewards.LogFile
	}
	return defaultRewardsPath(dataDir, "rewards_log.csv")
}

// RewardsTotalFile returns the configured reward total path, or a default
// path under dataDir if unset.
func (c *Instance) RewardsTotalFile(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Rewards.TotalFile != "" {
		return c.vals.Rewards.TotalFile
	}
	return defaultRewardsPath(dataDir, "rewards_total.json")
}

func defaultRewardsPath(dataDir, name string) string {
	return filepath.Join(dataDir, name)
}
