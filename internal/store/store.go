// Package store persists Readings to the filesystem layout the dashboard
// consumes: a latest.json pointer, append-only historical snapshots, and a
// per-day rolling summary.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/sgweather/sgweather/internal/weather"
)

// ErrNotFound is returned when the requested file has not been written yet.
var ErrNotFound = errors.New("no data collected yet")

const (
	latestFile  = "latest.json"
	summaryFile = "summary.json"
	filePerm    = 0o644
	dirPerm     = 0o755
)

// Config holds configuration for the store.
type Config struct {
	// Fs is the backing filesystem. Defaults to the OS filesystem; tests
	// inject an in-memory one.
	Fs afero.Fs

	// Root is the data directory, e.g. "data/weather".
	Root string

	// Logger for write operations.
	Logger zerolog.Logger
}

// Store reads and writes the collector's filesystem contract.
type Store struct {
	fs     afero.Fs
	root   string
	logger zerolog.Logger
}

// New creates a store rooted at cfg.Root.
func New(cfg Config) *Store {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{
		fs:     fs,
		root:   cfg.Root,
		logger: cfg.Logger,
	}
}

// Save persists one Reading:
//
//  1. historical snapshot at <root>/<YYYY>/<MM>/<DD>/<HH>-<MM>.json
//     (append-only, never overwritten once a cycle completes)
//  2. latest.json overwrite for O(1) current-state reads
//  3. the day's summary.json, appended and recomputed
//
// Durability is asymmetric: a historical or summary failure is logged and
// swallowed, but a latest.json failure is returned — stale history is
// preferred over losing the current pointer update.
func (s *Store) Save(reading *weather.Reading) error {
	payload, err := json.MarshalIndent(reading, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding reading: %w", err)
	}

	ts := reading.Timestamp.UTC()
	dayDir := filepath.Join(s.root, ts.Format("2006"), ts.Format("01"), ts.Format("02"))
	histPath := filepath.Join(dayDir, ts.Format("15-04")+".json")

	if err := s.fs.MkdirAll(dayDir, dirPerm); err != nil {
		s.logger.Error().Err(err).Str("dir", dayDir).Msg("failed to create day directory")
	} else if err := afero.WriteFile(s.fs, histPath, payload, filePerm); err != nil {
		s.logger.Error().Err(err).Str("path", histPath).Msg("failed to write historical snapshot")
	}

	if err := s.writeLatest(payload); err != nil {
		return fmt.Errorf("writing %s: %w", latestFile, err)
	}

	if err := s.appendToSummary(reading, dayDir); err != nil {
		s.logger.Error().Err(err).Str("date", reading.Date()).Msg("failed to update daily summary")
	}

	s.logger.Info().
		Str("cycle_id", reading.CycleID).
		Str("source", reading.Source).
		Str("reliability", string(reading.Reliability)).
		Str("path", histPath).
		Msg("reading persisted")

	return nil
}

// writeLatest overwrites latest.json via a temp file and rename so readers
// never observe a partially-written pointer.
func (s *Store) writeLatest(payload []byte) error {
	if err := s.fs.MkdirAll(s.root, dirPerm); err != nil {
		return err
	}

	tmpPath := filepath.Join(s.root, latestFile+".tmp")
	if err := afero.WriteFile(s.fs, tmpPath, payload, filePerm); err != nil {
		return err
	}
	return s.fs.Rename(tmpPath, filepath.Join(s.root, latestFile))
}

// appendToSummary loads (or initializes) the day's summary, folds the reading
// in, and rewrites the summary file.
func (s *Store) appendToSummary(reading *weather.Reading, dayDir string) error {
	summaryPath := filepath.Join(dayDir, summaryFile)

	summary, err := s.loadSummary(summaryPath)
	if err != nil {
		// A missing or corrupt summary starts a fresh one; the historical
		// snapshots remain the source of truth.
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).Str("path", summaryPath).Msg("resetting unreadable daily summary")
		}
		summary = weather.NewDailySummary(reading.Date())
	}

	summary.Append(*reading)

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return afero.WriteFile(s.fs, summaryPath, payload, filePerm)
}

// LoadLatest returns the most recently persisted Reading.
func (s *Store) LoadLatest() (*weather.Reading, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, latestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", latestFile, err)
	}

	var reading weather.Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", latestFile, err)
	}
	return &reading, nil
}

// LoadDailySummary returns the summary for the given UTC date key
// (YYYY-MM-DD).
func (s *Store) LoadDailySummary(date string) (*weather.DailySummary, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date key %q: %w", date, err)
	}
	summaryPath := filepath.Join(s.root, d.Format("2006"), d.Format("01"), d.Format("02"), summaryFile)
	return s.loadSummary(summaryPath)
}

func (s *Store) loadSummary(path string) (*weather.DailySummary, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading summary: %w", err)
	}

	var summary weather.DailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}
	return &summary, nil
}
