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

// Package rewards persists early-finish rewards: an append-only CSV log
// and a running total in a small JSON file. The two writes are independent
// steps; the log append always happens first so a failed total update can
// never lose the record itself.
package rewards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrPersistence marks a failed ledger write. The monitor loop logs these
// and continues; they never end a session.
var ErrPersistence = errors.New("persistence error")

// Record is one early-finish reward. Immutable once written; rows are only
// ever appended, never rewritten.
type Record struct {
	SessionStart time.Time `csv:"session_start"`
	PlannedEnd   time.Time `csv:"planned_end"`
	ActualEnd    time.Time `csv:"actual_end"`
	SessionID    string    `csv:"session_id"`
	Mode         string    `csv:"mode"`
	EarlyMinutes int       `csv:"early_minutes"`
	Points       int       `csv:"points_awarded"`
}

type totalFile struct {
	TotalPoints int `json:"total_points"`
}

// Ledger appends reward records to a CSV log and keeps a running total in
// a JSON file. The filesystem is injected so tests can run in memory.
type Ledger struct {
	fs        afero.Fs
	logPath   string
	totalPath string
}

// NewLedger creates a ledger writing to the given paths.
func NewLedger(fs afero.Fs, logPath, totalPath string) *Ledger {
	return &Ledger{
		fs:        fs,
		logPath:   logPath,
		totalPath: totalPath,
	}
}

// Record appends one reward row and then adds its points to the running
// total, returning the new total. The append and the total update are two
// independent steps: if the append fails nothing is written; if the total
// update fails the appended row stays and the error is returned.
func (l *Ledger) Record(rec Record) (int, error) {
	if rec.EarlyMinutes < 0 || rec.Points < 0 {
		return 0, fmt.Errorf("%w: negative reward values", ErrPersistence)
	}

	if err := l.appendRow(&rec); err != nil {
		return 0, err
	}

	newTotal, err := l.addToTotal(rec.Points)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int("earlyMinutes", rec.EarlyMinutes).
		Int("points", rec.Points).
		Int("total", newTotal).
		Msg("rewards: recorded early finish")

	return newTotal, nil
}

// Total returns the current running total, or 0 if the total file is
// missing or unreadable.
func (l *Ledger) Total() int {
	total, err := l.readTotal()
	if err != nil {
		log.Debug().Err(err).Msg("rewards: no readable total, using 0")
		return 0
	}
	return total
}

// History reads back all reward records from the log. Returns an empty
// slice if the log does not exist yet.
func (l *Ledger) History() ([]Record, error) {
	exists, err := afero.Exists(l.fs, l.logPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat reward log: %w", ErrPersistence, err)
	}
	if !exists {
		return []Record{}, nil
	}

	file, err := l.fs.Open(l.logPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open reward log: %w", ErrPersistence, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("rewards: failed to close reward log")
		}
	}()

	records := []Record{}
	if err := gocsv.Unmarshal(file, &records); err != nil {
		return nil, fmt.Errorf("%w: parse reward log: %w", ErrPersistence, err)
	}
	return records, nil
}

func (l *Ledger) appendRow(rec *Record) error {
	if dir := filepath.Dir(l.logPath); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: create reward log directory: %w", ErrPersistence, err)
		}
	}

	info, statErr := l.fs.Stat(l.logPath)
	needHeader := statErr != nil || info.Size() == 0

	file, err := l.fs.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open reward log: %w", ErrPersistence, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("rewards: failed to close reward log")
		}
	}()

	rows := []*Record{rec}
	if needHeader {
		err = gocsv.Marshal(&rows, file)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, file)
	}
	if err != nil {
		return fmt.Errorf("%w: append reward row: %w", ErrPersistence, err)
	}

	return nil
}

func (l *Ledger) addToTotal(points int) (int, error) {
	// A corrupt or missing total file resets the count to 0 rather than
	// blocking the write.
	total, err := l.readTotal()
	if err != nil {
		log.Warn().Err(err).Msg("rewards: total file unreadable, resetting to 0")
		total = 0
	}

	total += points

	if err := l.writeTotal(total); err != nil {
		return 0, err
	}
	return total, nil
}

func (l *Ledger) readTotal() (int, error) {
	data, err := afero.ReadFile(l.fs, l.totalPath)
	if err != nil {
		return 0, fmt.Errorf("read total file: %w", err)
	}

	var tf totalFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return 0, fmt.Errorf("parse total file: %w", err)
	}
	if tf.TotalPoints < 0 {
		return 0, errors.New("negative total")
	}
	return tf.TotalPoints, nil
}

func (l *Ledger) writeTotal(total int) error {
	if dir := filepath.Dir(l.totalPath); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: create total directory: %w", ErrPersistence, err)
		}
	}

	data, err := json.MarshalIndent(totalFile{TotalPoints: total}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal total: %w", ErrPersistence, err)
	}

	if err := afero.WriteFile(l.fs, l.totalPath, data, 0o600); err != nil {
		return fmt.Errorf("%w: write total file: %w", ErrPersistence, err)
	}
	return nil
}
