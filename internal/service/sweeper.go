package service

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/uploads/internal/domain"
	"github.com/itchan-dev/uploads/internal/logger"
)

// TempStorage is the part of the storage the sweeper needs.
type TempStorage interface {
	TempFiles() ([]domain.TempFile, error)
	RemoveTemp(name string) error
}

// SweepStats describes one sweep run.
type SweepStats struct {
	RunAt          time.Time
	FilesScanned   int
	FilesDeleted   int
	BytesReclaimed int64
	Duration       time.Duration
	Errors         []string
}

// TempSweeper removes temp files left behind by uploads that never finished,
// e.g. because the process was killed mid-copy. Files younger than maxAge
// may belong to an upload still in progress and are kept.
type TempSweeper struct {
	storage TempStorage
	maxAge  time.Duration
	now     func() time.Time

	mu        sync.Mutex
	lastStats SweepStats
}

func NewTempSweeper(storage TempStorage, maxAge time.Duration) *TempSweeper {
	return &TempSweeper{storage: storage, maxAge: maxAge, now: time.Now}
}

// StartBackgroundSweep runs a sweep every interval until ctx is done.
func (s *TempSweeper) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started temp file sweeper", "interval", interval, "max_age", s.maxAge)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunSweep(); err != nil {
					logger.Log.Error("temp sweep failed", "error", err)
					continue
				}
				stats := s.LastSweepStats()
				if stats.FilesDeleted > 0 || len(stats.Errors) > 0 {
					logger.Log.Info("temp sweep completed",
						"scanned", stats.FilesScanned,
						"deleted", stats.FilesDeleted,
						"bytes_reclaimed", stats.BytesReclaimed,
						"duration", stats.Duration,
						"errors", len(stats.Errors))
				}
			case <-ctx.Done():
				logger.Log.Info("temp file sweeper stopped")
				return
			}
		}
	}()
}

// RunSweep executes a single sweep.
func (s *TempSweeper) RunSweep() error {
	start := s.now()
	stats := SweepStats{RunAt: start}

	files, err := s.storage.TempFiles()
	if err != nil {
		return err
	}
	stats.FilesScanned = len(files)

	for _, f := range files {
		if start.Sub(f.ModTime) < s.maxAge {
			continue
		}
		if err := s.storage.RemoveTemp(f.Name); err != nil {
			stats.Errors = append(stats.Errors, f.Name+": "+err.Error())
			continue
		}
		stats.FilesDeleted++
		stats.BytesReclaimed += f.SizeBytes
	}

	stats.Duration = s.now().Sub(start)
	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()
	return nil
}

func (s *TempSweeper) LastSweepStats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}
