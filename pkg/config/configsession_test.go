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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reminders []string
		want      []time.Duration
	}{
		{
			name:      "defaults when unset",
			reminders: nil,
			want:      []time.Duration{5 * time.Minute, 3 * time.Minute, 1 * time.Minute},
		},
		{
			name:      "sorted descending regardless of input order",
			reminders: []string{"1m", "10m", "3m"},
			want:      []time.Duration{10 * time.Minute, 3 * time.Minute, 1 * time.Minute},
		},
		{
			name:      "unparsable and non-positive entries skipped",
			reminders: []string{"5m", "banana", "-2m", "0s", "1m"},
			want:      []time.Duration{5 * time.Minute, 1 * time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Instance{vals: Values{
				Session: Session{Reminders: tt.reminders},
			}}
			assert.Equal(t, tt.want, cfg.ReminderThresholds())
		})
	}
}

func TestPointsPerMinute(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	assert.Equal(t, DefaultPointsPerMinute, cfg.PointsPerMinute(), "unset uses default")

	require.NoError(t, cfg.SetPointsPerMinute(25))
	assert.Equal(t, 25, cfg.PointsPerMinute())

	require.NoError(t, cfg.SetPointsPerMinute(0))
	assert.Equal(t, 0, cfg.PointsPerMinute(), "zero is a valid configured rate")

	require.Error(t, cfg.SetPointsPerMinute(-1))
}

func TestPollInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval string
		want     time.Duration
	}{
		{name: "default when unset", interval: "", want: time.Second},
		{name: "configured value", interval: "2s", want: 2 * time.Second},
		{name: "floor applied", interval: "5ms", want: MinPollInterval},
		{name: "unparsable falls back to default", interval: "soon", want: time.Second},
		{name: "non-positive falls back to default", interval: "-1s", want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Instance{vals: Values{
				Session: Session{PollInterval: tt.interval},
			}}
			assert.Equal(t, tt.want, cfg.PollInterval())
		})
	}
}

func TestRewardsPathsDefaultToDataDir(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	assert.Contains(t, cfg.RewardsLogFile("/data"), "rewards_log.csv")
	assert.Contains(t, cfg.RewardsTotalFile("/data"), "rewards_total.json")

	cfg = &Instance{vals: Values{Rewards: Rewards{
		LogFile:   "/custom/log.csv",
		TotalFile: "/custom/total.json",
	}}}
	assert.Equal(t, "/custom/log.csv", cfg.RewardsLogFile("/data"))
	assert.Equal(t, "/custom/total.json", cfg.RewardsTotalFile("/data"))
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	defaults := BaseDefaults
	cfg, err := NewConfig(dir, defaults)
	require.NoError(t, err)

	cfg.SetProcessName("Celeste.exe")
	require.NoError(t, cfg.SetPointsPerMinute(5))
	require.NoError(t, cfg.SetReminderThresholds([]string{"10m", "2m"}))
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, defaults)
	require.NoError(t, err)
	assert.Equal(t, "Celeste.exe", reloaded.ProcessName())
	assert.Equal(t, 5, reloaded.PointsPerMinute())
	assert.Equal(t,
		[]time.Duration{10 * time.Minute, 2 * time.Minute},
		reloaded.ReminderThresholds())
}
