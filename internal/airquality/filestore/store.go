// Package filestore loads snapshot files from local disk and reports when
// they change, for deployments that mount the collector's output directly.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
)

// ProviderName identifies this provider.
const ProviderName = "filestore"

// Default file names inside the data directory.
const (
	StationsFileName = "stations_with_coords.json"
	ReadingsFileName = "air-quality.json"
)

// Store reads snapshot files from a directory.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// Config holds configuration for the file store.
type Config struct {
	// Dir is the directory holding the two snapshot files (required).
	Dir string

	// Logger for watch events.
	Logger zerolog.Logger
}

// New creates a file-backed snapshot provider.
func New(cfg Config) *Store {
	return &Store{dir: cfg.Dir, logger: cfg.Logger}
}

// FetchSnapshot reads and combines both files.
func (s *Store) FetchSnapshot(_ context.Context) (*airquality.Snapshot, error) {
	stationsRaw, err := os.ReadFile(filepath.Join(s.dir, StationsFileName))
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}
	readingsRaw, err := os.ReadFile(filepath.Join(s.dir, ReadingsFileName))
	if err != nil {
		return nil, fmt.Errorf("read readings file: %w", err)
	}

	stations, err := airquality.DecodeStationsFile(stationsRaw)
	if err != nil {
		return nil, err
	}
	readings, err := airquality.DecodeReadingsFile(readingsRaw)
	if err != nil {
		return nil, err
	}

	return airquality.BuildSnapshot(ProviderName, stations, readings), nil
}

// Watch invokes onChange whenever either snapshot file is rewritten, until
// the context is cancelled. Callers typically pass the air quality
// service's InvalidateCache so a collector run is picked up immediately
// instead of waiting out the cache TTL.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	s.logger.Info().Str("dir", s.dir).Msg("watching snapshot directory")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != StationsFileName && name != ReadingsFileName {
				continue
			}
			s.logger.Debug().Str("file", name).Msg("snapshot file changed")
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("snapshot watcher error")
		}
	}
}
